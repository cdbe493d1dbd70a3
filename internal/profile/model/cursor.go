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
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// SyncCursor is the delta-sync resumption point: the (updated_at, profile_id)
// pair of the last row the caller has already consumed. The composite form is
// what makes paging exact when several rows share a timestamp.
type SyncCursor struct {
	UpdatedAt time.Time
	ProfileId string
}

func EncodeSyncCursor(c SyncCursor) string {
	raw := fmt.Sprintf("%s|%s", c.UpdatedAt.UTC().Format(time.RFC3339Nano), c.ProfileId)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeSyncCursor(s string) (*SyncCursor, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor encoding")
	}

	parts := strings.SplitN(string(b), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp")
	}

	id := strings.TrimSpace(parts[1])
	if id == "" {
		return nil, fmt.Errorf("invalid cursor profile_id")
	}

	return &SyncCursor{UpdatedAt: t.UTC(), ProfileId: id}, nil
}
