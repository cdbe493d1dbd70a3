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

import "time"

// ProfileFilter holds the optional equality predicates for listing profiles.
// Search matches account name, network, group tag and owner id with ILIKE.
type ProfileFilter struct {
	OwnerId  string `json:"owner_id,omitempty"`
	Network  string `json:"network,omitempty"`
	GroupTag string `json:"group_tag,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
	Search   string `json:"search,omitempty"`
}

// PageParams is limit/offset paging for plain listing. Delta sync uses
// SyncCursor instead.
type PageParams struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ProfilePatch is the set of mutable fields accepted by the optimistic
// update gate. Identity fields and version are deliberately absent.
type ProfilePatch struct {
	EncryptedPayload *string          `json:"encrypted_payload,omitempty"`
	Metadata         *ProfileMetadata `json:"metadata,omitempty"`
	IsActive         *bool            `json:"is_active,omitempty"`
	LastUsed         *time.Time       `json:"last_used,omitempty"`
}

// UpsertProfileRequest is a capture submission keyed by business identity.
// ExpectedVersion carries the caller's believed version when it has one.
// Force opts into blind overwrite of an existing row the caller has never
// observed; without it such a submission is answered with a conflict.
type UpsertProfileRequest struct {
	OwnerId          string           `json:"owner_id"`
	Network          string           `json:"network"`
	GroupTag         string           `json:"group_tag"`
	AccountName      string           `json:"account_name"`
	EncryptedPayload string           `json:"encrypted_payload"`
	Metadata         *ProfileMetadata `json:"metadata,omitempty"`
	ExpectedVersion  *int             `json:"expected_version,omitempty"`
	Force            bool             `json:"force,omitempty"`
}

// Upsert outcome actions.
const (
	UpsertActionCreated  = "created"
	UpsertActionUpdated  = "updated"
	UpsertActionConflict = "conflict"
)

// UpsertResult reports what an upsert did. On conflict, Profile carries the
// current row so the caller can merge and retry.
type UpsertResult struct {
	Action         string   `json:"action"`
	Profile        *Profile `json:"profile,omitempty"`
	CurrentVersion int      `json:"current_version,omitempty"`
}

// UpdateResult is the outcome of a compare-and-set update. When Success is
// false, CurrentVersion is the version the row holds now.
type UpdateResult struct {
	Success        bool     `json:"success"`
	Profile        *Profile `json:"profile,omitempty"`
	CurrentVersion int      `json:"current_version,omitempty"`
}

// DeltaPage is one page of a delta sync pull.
type DeltaPage struct {
	Profiles   []Profile `json:"profiles"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// NetworkCount is one row of the by-network stats breakdown.
type NetworkCount struct {
	Network string `json:"network"`
	Count   int    `json:"count"`
}

// GroupCount is one row of the by-group stats breakdown.
type GroupCount struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

// ProfileStats is a point-in-time summary of the profile table.
type ProfileStats struct {
	TotalProfiles       int            `json:"total_profiles"`
	TotalDistinctOwners int            `json:"total_distinct_owners"`
	ByNetwork           []NetworkCount `json:"by_network"`
	ByGroup             []GroupCount   `json:"by_group"`
	ActiveCount         int            `json:"active_count"`
	InactiveCount       int            `json:"inactive_count"`
}

// RankedProfile is a search hit with its relevance score.
type RankedProfile struct {
	Profile Profile `json:"profile"`
	Score   int     `json:"score"`
}

// SyncUploadEntry is one profile in a bulk ingestion request.
type SyncUploadEntry struct {
	OwnerId          string           `json:"owner_id"`
	Network          string           `json:"network"`
	GroupTag         string           `json:"group_tag"`
	AccountName      string           `json:"account_name"`
	EncryptedPayload string           `json:"encrypted_payload"`
	Metadata         *ProfileMetadata `json:"metadata,omitempty"`
	ExpectedVersion  *int             `json:"expected_version,omitempty"`
	Force            bool             `json:"force,omitempty"`
}

// Per-entry bulk upload outcome statuses.
const (
	UploadStatusCreated      = "created"
	UploadStatusUpdated      = "updated"
	UploadStatusConflict     = "conflict"
	UploadStatusUnknownOwner = "rejected_unknown_owner"
	UploadStatusError        = "error"
)

// SyncUploadOutcome is the per-entry result of a bulk ingestion; the batch
// is never all-or-nothing.
type SyncUploadOutcome struct {
	Key            IdentityKey `json:"key"`
	Status         string      `json:"status"`
	CurrentVersion int         `json:"current_version,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// SyncUploadResult aggregates the per-entry outcomes of one bulk upload.
type SyncUploadResult struct {
	Outcomes  []SyncUploadOutcome `json:"outcomes"`
	Created   int                 `json:"created"`
	Updated   int                 `json:"updated"`
	Conflicts int                 `json:"conflicts"`
	Rejected  int                 `json:"rejected"`
	Errors    int                 `json:"errors"`
}

// SyncStatus is the response of the sync status probe: enough for a cold
// client to decide whether a pull is needed at all.
type SyncStatus struct {
	TotalProfiles     int        `json:"total_profiles"`
	LastSyncTimestamp *time.Time `json:"last_sync_timestamp,omitempty"`
	ServerTimestamp   time.Time  `json:"server_timestamp"`
}
