/*
 * Copyright (c) 2026, VaultSync Software (https://vaultsync.io).
 *
 * VaultSync Software licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package service

import (
	"sort"
	"strings"
	"time"

	"github.com/vaultsync/profile-sync-service/internal/profile/model"
)

const (
	exactMatchScore    = 100
	prefixMatchScore   = 50
	containsMatchScore = 25
	networkHintScore   = 30
	recentUseScore     = 20

	recentUseWindow = time.Hour
)

// scoreProfile ranks a profile against a search term and an optional network
// hint. All signals are additive: name matching is case-insensitive and only
// the strongest tier counts, but the network hint and recent use bonuses
// apply even when the name does not match at all. A zero total means the
// profile is not a hit.
func scoreProfile(profile model.Profile, term string, networkHint string, now time.Time) int {

	score := 0
	name := strings.ToLower(profile.AccountName)
	query := strings.ToLower(term)

	switch {
	case name == query:
		score += exactMatchScore
	case strings.HasPrefix(name, query):
		score += prefixMatchScore
	case strings.Contains(name, query):
		score += containsMatchScore
	}

	if networkHint != "" && strings.EqualFold(profile.Network, networkHint) {
		score += networkHintScore
	}
	if profile.LastUsed != nil && now.Sub(*profile.LastUsed) <= recentUseWindow {
		score += recentUseScore
	}
	return score
}

// rankProfiles scores the candidates, drops non-matches and orders the rest
// by score descending, most recently used winning ties.
func rankProfiles(candidates []model.Profile, term string, networkHint string, now time.Time) []model.RankedProfile {

	ranked := make([]model.RankedProfile, 0)
	for _, profile := range candidates {
		score := scoreProfile(profile, term, networkHint, now)
		if score == 0 {
			continue
		}
		ranked = append(ranked, model.RankedProfile{Profile: profile, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return laterUse(ranked[i].Profile.LastUsed, ranked[j].Profile.LastUsed)
	})
	return ranked
}

func laterUse(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
