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

package integration

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	profileModel "github.com/vaultsync/profile-sync-service/internal/profile/model"
	profileService "github.com/vaultsync/profile-sync-service/internal/profile/service"
	"github.com/vaultsync/profile-sync-service/internal/profile/store"
)

// allowAllOwners accepts every owner id, keeping the external identity
// service out of the database-level tests.
type allowAllOwners struct{}

func (allowAllOwners) OwnerExists(ownerId string) (bool, error) { return true, nil }

func (allowAllOwners) ValidateOwners(ownerIds []string) (map[string]bool, error) {
	validity := make(map[string]bool)
	for _, id := range ownerIds {
		validity[id] = true
	}
	return validity, nil
}

func newIntegrationService() *profileService.ProfileService {
	return profileService.NewProfileService(store.NewProfileStore(), allowAllOwners{})
}

func uniqueOwner(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func captureRequest(owner, network, group, account string) profileModel.UpsertProfileRequest {
	return profileModel.UpsertProfileRequest{
		OwnerId:          owner,
		Network:          network,
		GroupTag:         group,
		AccountName:      account,
		EncryptedPayload: "ciphertext-v1",
		Metadata: &profileModel.ProfileMetadata{
			Browser:       "firefox",
			Domain:        network + ".example.com",
			CookieCount:   12,
			CaptureMethod: "extension",
		},
	}
}

func Test_ProfileLifecycle(t *testing.T) {

	svc := newIntegrationService()
	owner := uniqueOwner("lifecycle")

	var profileId string

	t.Run("UpsertCreatesProfile", func(t *testing.T) {
		result, err := svc.UpsertProfile(captureRequest(owner, "twitter", "personal", "alice"))
		require.NoError(t, err)
		require.Equal(t, profileModel.UpsertActionCreated, result.Action)
		require.Equal(t, 1, result.Profile.Version)
		require.NotNil(t, result.Profile.Metadata)
		require.Equal(t, "firefox", result.Profile.Metadata.Browser)
		require.NotNil(t, result.Profile.LastUsed)
		profileId = result.Profile.ProfileId
	})

	t.Run("GetReturnsStoredRow", func(t *testing.T) {
		profile, err := svc.GetProfile(profileId)
		require.NoError(t, err)
		require.Equal(t, "alice", profile.AccountName)
		require.Equal(t, 12, profile.Metadata.CookieCount)
		require.Equal(t, time.UTC, profile.CreatedAt.Location())
	})

	t.Run("VersionedPatchSucceeds", func(t *testing.T) {
		payload := "ciphertext-v2"
		result, err := svc.UpdateProfile(profileId, 1,
			profileModel.ProfilePatch{EncryptedPayload: &payload})
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Equal(t, 2, result.Profile.Version)
		require.Equal(t, payload, result.Profile.EncryptedPayload)
	})

	t.Run("StalePatchReportsCurrentVersion", func(t *testing.T) {
		payload := "ciphertext-stale"
		result, err := svc.UpdateProfile(profileId, 1,
			profileModel.ProfilePatch{EncryptedPayload: &payload})
		require.NoError(t, err)
		require.False(t, result.Success)
		require.Equal(t, 2, result.CurrentVersion)
		require.Equal(t, "ciphertext-v2", result.Profile.EncryptedPayload)
	})

	t.Run("DeactivateKeepsRow", func(t *testing.T) {
		inactive := false
		result, err := svc.UpdateProfile(profileId, 2,
			profileModel.ProfilePatch{IsActive: &inactive})
		require.NoError(t, err)
		require.True(t, result.Success)
		require.False(t, result.Profile.IsActive)
	})

	t.Run("DeleteRemovesRow", func(t *testing.T) {
		require.NoError(t, svc.DeleteProfile(profileId))
		_, err := svc.GetProfile(profileId)
		require.Error(t, err)
	})
}

func Test_IdempotentUpsert(t *testing.T) {

	svc := newIntegrationService()
	owner := uniqueOwner("idempotent")

	created, err := svc.UpsertProfile(captureRequest(owner, "twitter", "personal", "alice"))
	require.NoError(t, err)

	t.Run("RetryWithoutVersionConflicts", func(t *testing.T) {
		result, err := svc.UpsertProfile(captureRequest(owner, "twitter", "personal", "alice"))
		require.NoError(t, err)
		require.Equal(t, profileModel.UpsertActionConflict, result.Action)
		require.Equal(t, created.Profile.ProfileId, result.Profile.ProfileId)
	})

	t.Run("RetryWithVersionUpdatesSameRow", func(t *testing.T) {
		expected := 1
		request := captureRequest(owner, "twitter", "personal", "alice")
		request.ExpectedVersion = &expected
		request.EncryptedPayload = "ciphertext-refresh"

		result, err := svc.UpsertProfile(request)
		require.NoError(t, err)
		require.Equal(t, profileModel.UpsertActionUpdated, result.Action)
		require.Equal(t, created.Profile.ProfileId, result.Profile.ProfileId)
		require.Equal(t, 2, result.Profile.Version)
	})

	t.Run("UniqueConstraintFiresOnRawDoubleInsert", func(t *testing.T) {
		profiles := store.NewProfileStore()
		identity := profileModel.Profile{
			ProfileId:        uuid.New().String(),
			OwnerId:          owner,
			Network:          "discord",
			GroupTag:         "personal",
			AccountName:      "alice",
			EncryptedPayload: "c1",
			IsActive:         true,
			Version:          1,
		}
		_, err := profiles.InsertProfile(identity)
		require.NoError(t, err)

		identity.ProfileId = uuid.New().String()
		_, err = profiles.InsertProfile(identity)
		require.Error(t, err)
		require.True(t, store.IsUniqueViolation(err))
	})
}

func Test_DeltaSyncPagination(t *testing.T) {

	svc := newIntegrationService()
	owner := uniqueOwner("delta")

	accounts := []string{"a1", "a2", "a3", "a4", "a5"}
	for _, account := range accounts {
		_, err := svc.UpsertProfile(captureRequest(owner, "twitter", "personal", account))
		require.NoError(t, err)
	}

	t.Run("PagesCoverEveryRowOnce", func(t *testing.T) {
		seen := make(map[string]int)
		cursor := ""
		for i := 0; i < 10; i++ {
			page, err := svc.PullDelta(owner, "", cursor, 2)
			require.NoError(t, err)
			if len(page.Profiles) == 0 {
				break
			}
			for _, p := range page.Profiles {
				seen[p.AccountName]++
			}
			cursor = page.NextCursor
		}
		require.Len(t, seen, len(accounts))
		for account, count := range seen {
			require.Equal(t, 1, count, "account %s delivered more than once", account)
		}
	})

	t.Run("SharedTimestampsDoNotDropRows", func(t *testing.T) {
		// Collapse every row onto one updated_at so paging can only be
		// correct if the cursor also compares profile ids.
		shared := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
		_, err := testDB.Exec(`UPDATE profiles SET updated_at = $1 WHERE owner_id = $2`, shared, owner)
		require.NoError(t, err)

		seen := make(map[string]int)
		cursor := ""
		for i := 0; i < 10; i++ {
			page, err := svc.PullDelta(owner, "", cursor, 2)
			require.NoError(t, err)
			if len(page.Profiles) == 0 {
				break
			}
			for _, p := range page.Profiles {
				seen[p.AccountName]++
			}
			cursor = page.NextCursor
		}
		require.Len(t, seen, len(accounts))
		for account, count := range seen {
			require.Equal(t, 1, count, "account %s delivered more than once", account)
		}
	})

	t.Run("UpdateReappearsAfterCursor", func(t *testing.T) {
		full, err := svc.PullDelta(owner, "", "", 100)
		require.NoError(t, err)
		require.Len(t, full.Profiles, len(accounts))

		target := full.Profiles[0]
		payload := "rotated-payload"
		updated, err := svc.UpdateProfile(target.ProfileId, target.Version,
			profileModel.ProfilePatch{EncryptedPayload: &payload})
		require.NoError(t, err)
		require.True(t, updated.Success)

		delta, err := svc.PullDelta(owner, "", full.NextCursor, 100)
		require.NoError(t, err)
		require.Len(t, delta.Profiles, 1)
		require.Equal(t, target.ProfileId, delta.Profiles[0].ProfileId)
		require.Equal(t, payload, delta.Profiles[0].EncryptedPayload)
	})

	t.Run("NetworkScopedPull", func(t *testing.T) {
		_, err := svc.UpsertProfile(captureRequest(owner, "discord", "personal", "d1"))
		require.NoError(t, err)

		page, err := svc.PullDelta(owner, "discord", "", 100)
		require.NoError(t, err)
		require.Len(t, page.Profiles, 1)
		require.Equal(t, "discord", page.Profiles[0].Network)
	})

	t.Run("SyncStatusTracksLatestWrite", func(t *testing.T) {
		status, err := svc.GetSyncStatus(owner)
		require.NoError(t, err)
		require.Equal(t, len(accounts)+1, status.TotalProfiles)
		require.NotNil(t, status.LastSyncTimestamp)

		last, err := svc.PullDelta(owner, "", "", 100)
		require.NoError(t, err)
		newest := last.Profiles[len(last.Profiles)-1]
		require.True(t, status.LastSyncTimestamp.Equal(newest.UpdatedAt))
	})
}

func Test_SearchRanking(t *testing.T) {

	svc := newIntegrationService()
	owner := uniqueOwner("search")

	for _, account := range []string{"alice", "alice2024", "myalice", "bob"} {
		_, err := svc.UpsertProfile(captureRequest(owner, "twitter", "personal", account))
		require.NoError(t, err)
	}

	results, err := svc.SearchProfiles("alice", owner, "", 10)
	require.NoError(t, err)
	// bob ranks last on its recent-use bonus alone.
	require.Len(t, results, 4)
	require.Equal(t, "alice", results[0].Profile.AccountName)
	require.Equal(t, "alice2024", results[1].Profile.AccountName)
	require.Equal(t, "myalice", results[2].Profile.AccountName)
	require.Equal(t, "bob", results[3].Profile.AccountName)
	require.Greater(t, results[0].Score, results[1].Score)
	require.Greater(t, results[1].Score, results[2].Score)
	require.Greater(t, results[2].Score, results[3].Score)
}

func Test_ProfileStatsAggregation(t *testing.T) {

	svc := newIntegrationService()
	owner1 := uniqueOwner("stats-a")
	owner2 := uniqueOwner("stats-b")

	_, err := svc.UpsertProfile(captureRequest(owner1, "twitter", "personal", "alice"))
	require.NoError(t, err)
	_, err = svc.UpsertProfile(captureRequest(owner1, "twitter", "work", "bob"))
	require.NoError(t, err)
	_, err = svc.UpsertProfile(captureRequest(owner2, "discord", "personal", "carol"))
	require.NoError(t, err)

	stats, err := svc.GetProfileStats()
	require.NoError(t, err)
	require.GreaterOrEqual(t, stats.TotalProfiles, 3)
	require.GreaterOrEqual(t, stats.TotalDistinctOwners, 2)

	byNetwork := make(map[string]int)
	for _, entry := range stats.ByNetwork {
		byNetwork[entry.Network] = entry.Count
	}
	require.GreaterOrEqual(t, byNetwork["twitter"], 2)
	require.GreaterOrEqual(t, byNetwork["discord"], 1)
}

func Test_SyncUploadBatch(t *testing.T) {

	svc := newIntegrationService()
	owner := uniqueOwner("upload")

	entries := []profileModel.SyncUploadEntry{
		{OwnerId: owner, Network: "twitter", GroupTag: "personal",
			AccountName: "u1", EncryptedPayload: "c1"},
		{OwnerId: owner, Network: "twitter", GroupTag: "personal",
			AccountName: "u2", EncryptedPayload: "c2"},
		{OwnerId: owner, Network: "twitter", GroupTag: "personal",
			AccountName: "u1", EncryptedPayload: "c1-again", Force: true},
	}

	result, err := svc.SyncUpload(entries)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 3)
	require.Equal(t, 2, result.Created)
	require.Equal(t, 1, result.Updated)

	resolved, err := svc.ResolveIdentities([]profileModel.IdentityKey{
		{OwnerId: owner, Network: "twitter", GroupTag: "personal", AccountName: "u1"},
	})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	for _, profile := range resolved {
		require.Equal(t, 2, result.Outcomes[2].CurrentVersion)
		require.Equal(t, "c1-again", profile.EncryptedPayload)
	}
}
