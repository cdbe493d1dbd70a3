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

package model

import (
	"fmt"
	"time"
)

// InitialVersion is the version assigned to a profile on creation. Every
// successful mutation increments it by exactly 1.
const InitialVersion = 1

// ProfileMetadata carries advisory capture annotations. It is never used for
// identity or conflict decisions.
type ProfileMetadata struct {
	Browser       string `json:"browser,omitempty"`
	UserAgent     string `json:"user_agent,omitempty"`
	Domain        string `json:"domain,omitempty"`
	CookieCount   int    `json:"cookie_count,omitempty"`
	CaptureMethod string `json:"capture_method,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Profile is the unit of synchronization: an encrypted session record for
// one social-network account, owned by one user.
type Profile struct {
	ProfileId        string           `json:"profile_id"`
	OwnerId          string           `json:"owner_id"`
	Network          string           `json:"network"`
	GroupTag         string           `json:"group_tag"`
	AccountName      string           `json:"account_name"`
	EncryptedPayload string           `json:"encrypted_payload"`
	Metadata         *ProfileMetadata `json:"metadata,omitempty"`
	IsActive         bool             `json:"is_active"`
	Version          int              `json:"version"`
	LastUsed         *time.Time       `json:"last_used,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// IdentityKey is the business identity of a profile. The four fields are
// unique together across the whole table and immutable after creation.
type IdentityKey struct {
	OwnerId     string `json:"owner_id"`
	Network     string `json:"network"`
	GroupTag    string `json:"group_tag"`
	AccountName string `json:"account_name"`
}

func (k IdentityKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.OwnerId, k.Network, k.GroupTag, k.AccountName)
}

// Identity returns the profile's identity key.
func (p *Profile) Identity() IdentityKey {
	return IdentityKey{
		OwnerId:     p.OwnerId,
		Network:     p.Network,
		GroupTag:    p.GroupTag,
		AccountName: p.AccountName,
	}
}
