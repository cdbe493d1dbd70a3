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

package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/vaultsync/profile-sync-service/internal/profile/model"
	"github.com/vaultsync/profile-sync-service/internal/system/database/provider"
	errors2 "github.com/vaultsync/profile-sync-service/internal/system/errors"
	"github.com/vaultsync/profile-sync-service/internal/system/log"
)

// ProfileStore performs all reads and writes against the profiles table.
type ProfileStore struct{}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{}
}

const profileColumns = `profile_id, owner_id, network, group_tag, account_name, encrypted_payload,
		metadata, is_active, version, last_used, created_at, updated_at`

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, the signal that two agents raced to create the same identity.
func IsUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

func scanProfileRow(row map[string]interface{}) (model.Profile, error) {

	var profile model.Profile

	profile.ProfileId = asString(row["profile_id"])
	profile.OwnerId = asString(row["owner_id"])
	profile.Network = asString(row["network"])
	profile.GroupTag = asString(row["group_tag"])
	profile.AccountName = asString(row["account_name"])
	profile.EncryptedPayload = asString(row["encrypted_payload"])
	profile.IsActive, _ = row["is_active"].(bool)
	profile.Version = asInt(row["version"])

	if t, ok := row["last_used"].(time.Time); ok {
		lastUsed := t.UTC()
		profile.LastUsed = &lastUsed
	}
	if t, ok := row["created_at"].(time.Time); ok {
		profile.CreatedAt = t.UTC()
	}
	if t, ok := row["updated_at"].(time.Time); ok {
		profile.UpdatedAt = t.UTC()
	}

	metadataJSON := asBytes(row["metadata"])
	if len(metadataJSON) > 0 {
		var metadata model.ProfileMetadata
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			errorMsg := "Failed to unmarshal profile metadata"
			log.GetLogger().Debug(errorMsg, log.Error(err))
			return model.Profile{}, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.UNMARSHAL_JSON.Code,
				Message:     errors2.UNMARSHAL_JSON.Message,
				Description: errorMsg,
			}, err)
		}
		if metadata != (model.ProfileMetadata{}) {
			profile.Metadata = &metadata
		}
	}

	return profile, nil
}

// InsertProfile inserts a new profile row and returns the stored record.
// A unique-violation from a concurrent insert of the same identity is
// returned as-is so the caller can route it through the update path.
func (s *ProfileStore) InsertProfile(profile model.Profile) (*model.Profile, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for adding a profile"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	metadataJSON, err := json.Marshal(profile.Metadata)
	if err != nil {
		return nil, errors2.NewServerError(errors2.MARSHAL_JSON, err)
	}
	if profile.Metadata == nil {
		metadataJSON = []byte("{}")
	}

	query := `
		INSERT INTO profiles (
			profile_id, owner_id, network, group_tag, account_name,
			encrypted_payload, metadata, is_active, version, last_used
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + profileColumns + `;`

	results, err := dbClient.ExecuteQuery(query,
		profile.ProfileId,
		profile.OwnerId,
		profile.Network,
		profile.GroupTag,
		profile.AccountName,
		profile.EncryptedPayload,
		metadataJSON,
		profile.IsActive,
		profile.Version,
		profile.LastUsed,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		errorMsg := fmt.Sprintf("Failed to insert profile with Id: %s", profile.ProfileId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_PROFILE.Code,
			Message:     errors2.ADD_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, errors2.NewServerError(errors2.ADD_PROFILE, fmt.Errorf("insert returned no row"))
	}

	inserted, err := scanProfileRow(results[0])
	if err != nil {
		return nil, err
	}
	logger.Info("Profile added successfully: " + inserted.ProfileId)
	return &inserted, nil
}

// GetProfileById retrieves a profile by its Id. Returns nil when absent.
func (s *ProfileStore) GetProfileById(profileId string) (*model.Profile, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client while fetching profile with Id: %s", profileId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE profile_id = $1;`

	results, err := dbClient.ExecuteQuery(query, profileId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed fetching profile with Id: %s", profileId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_PROFILE.Code,
			Message:     errors2.GET_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		logger.Debug(fmt.Sprintf("No profile found with the given Id: %s", profileId))
		return nil, nil
	}

	profile, err := scanProfileRow(results[0])
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByIdentity resolves a business identity tuple to at most one row.
func (s *ProfileStore) GetProfileByIdentity(key model.IdentityKey) (*model.Profile, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for resolving a profile identity"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE owner_id = $1 AND network = $2 AND group_tag = $3 AND account_name = $4;`

	results, err := dbClient.ExecuteQuery(query, key.OwnerId, key.Network, key.GroupTag, key.AccountName)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed resolving profile identity: %s", key)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.RESOLVE_IDENTITY.Code,
			Message:     errors2.RESOLVE_IDENTITY.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	profile, err := scanProfileRow(results[0])
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfilesByIdentityKeys resolves a batch of identity tuples in a single
// query and returns a map keyed by IdentityKey.String().
func (s *ProfileStore) GetProfilesByIdentityKeys(keys []model.IdentityKey) (map[string]model.Profile, error) {

	resolved := make(map[string]model.Profile)
	if len(keys) == 0 {
		return resolved, nil
	}

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for batch identity resolution"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	var conditions []string
	var args []interface{}
	argID := 1
	for _, key := range keys {
		conditions = append(conditions, fmt.Sprintf(
			"(owner_id = $%d AND network = $%d AND group_tag = $%d AND account_name = $%d)",
			argID, argID+1, argID+2, argID+3))
		args = append(args, key.OwnerId, key.Network, key.GroupTag, key.AccountName)
		argID += 4
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE ` + strings.Join(conditions, " OR ") + `;`

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed resolving profile identities in batch"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.RESOLVE_IDENTITY.Code,
			Message:     errors2.RESOLVE_IDENTITY.Message,
			Description: errorMsg,
		}, err)
	}

	for _, row := range results {
		profile, err := scanProfileRow(row)
		if err != nil {
			return nil, err
		}
		resolved[profile.Identity().String()] = profile
	}
	return resolved, nil
}

// ListProfiles returns profiles matching the filter, newest update first.
func (s *ProfileStore) ListProfiles(filter model.ProfileFilter, page model.PageParams) ([]model.Profile, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for listing profiles"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	conditions, args := buildFilterConditions(filter)

	query := `SELECT ` + profileColumns + ` FROM profiles`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d;", len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed listing profiles"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_PROFILE.Code,
			Message:     errors2.GET_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}

	var profiles []model.Profile
	for _, row := range results {
		profile, err := scanProfileRow(row)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// CountProfiles returns the number of profiles matching the filter.
func (s *ProfileStore) CountProfiles(filter model.ProfileFilter) (int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for counting profiles"
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	conditions, args := buildFilterConditions(filter)

	query := `SELECT COUNT(*) AS total FROM profiles`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ";"

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed counting profiles"
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.GET_PROFILE.Code,
			Message:     errors2.GET_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return asInt(results[0]["total"]), nil
}

// UpdateProfileWithVersion applies the patch as a single atomic conditional
// write: fields are set, version becomes expectedVersion+1 and updated_at is
// stamped by the server clock, but only when the stored version still equals
// expectedVersion. Returns nil when no row matched.
func (s *ProfileStore) UpdateProfileWithVersion(profileId string, expectedVersion int,
	patch model.ProfilePatch) (*model.Profile, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for updating profile: %s", profileId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	setClauses := []string{"version = version + 1", "updated_at = NOW()"}
	var args []interface{}
	argID := 1

	if patch.EncryptedPayload != nil {
		setClauses = append(setClauses, fmt.Sprintf("encrypted_payload = $%d", argID))
		args = append(args, *patch.EncryptedPayload)
		argID++
	}
	if patch.Metadata != nil {
		metadataJSON, err := json.Marshal(patch.Metadata)
		if err != nil {
			return nil, errors2.NewServerError(errors2.MARSHAL_JSON, err)
		}
		setClauses = append(setClauses, fmt.Sprintf("metadata = $%d", argID))
		args = append(args, metadataJSON)
		argID++
	}
	if patch.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argID))
		args = append(args, *patch.IsActive)
		argID++
	}
	if patch.LastUsed != nil {
		setClauses = append(setClauses, fmt.Sprintf("last_used = $%d", argID))
		args = append(args, *patch.LastUsed)
		argID++
	}

	query := fmt.Sprintf(`
		UPDATE profiles SET %s
		WHERE profile_id = $%d AND version = $%d
		RETURNING %s;`, strings.Join(setClauses, ", "), argID, argID+1, profileColumns)
	args = append(args, profileId, expectedVersion)

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed updating the profile: %s", profileId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_PROFILE.Code,
			Message:     errors2.UPDATE_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		// Version mismatch or row gone; the service re-reads to tell apart.
		return nil, nil
	}

	updated, err := scanProfileRow(results[0])
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProfile removes a profile row. Returns false when no row existed.
func (s *ProfileStore) DeleteProfile(profileId string) (bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed getting db client for deleting the profile: %s", profileId)
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	affected, err := dbClient.ExecuteStatement(`DELETE FROM profiles WHERE profile_id = $1;`, profileId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to delete profile: %s", profileId)
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_PROFILE.Code,
			Message:     errors2.DELETE_PROFILE.Message,
			Description: errorMsg,
		}, err)
	}

	if affected == 0 {
		logger.Debug(fmt.Sprintf("No profile found with the given Id: %s", profileId))
		return false, nil
	}
	logger.Info(fmt.Sprintf("Profile: %s deleted successfully", profileId))
	return true, nil
}

// SyncFilter scopes a delta sync pull.
type SyncFilter struct {
	OwnerId string
	Network string
}

// GetProfilesModifiedAfter fetches the next page of the delta sync scan in
// (updated_at ASC, profile_id ASC) order. The cursor predicate must be the
// composite form: rows strictly after (cursor.UpdatedAt, cursor.ProfileId).
// A timestamp-only comparison drops or re-delivers rows that share the
// cursor's timestamp.
func (s *ProfileStore) GetProfilesModifiedAfter(filter SyncFilter, cursor *model.SyncCursor,
	limit int) ([]model.Profile, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for delta sync pull"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	var conditions []string
	var args []interface{}
	argID := 1

	if filter.OwnerId != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argID))
		args = append(args, filter.OwnerId)
		argID++
	}
	if filter.Network != "" {
		conditions = append(conditions, fmt.Sprintf("network = $%d", argID))
		args = append(args, filter.Network)
		argID++
	}
	if cursor != nil {
		conditions = append(conditions, fmt.Sprintf(
			"(updated_at > $%d OR (updated_at = $%d AND profile_id > $%d))",
			argID, argID, argID+1))
		args = append(args, cursor.UpdatedAt, cursor.ProfileId)
		argID += 2
	}

	query := `SELECT ` + profileColumns + ` FROM profiles`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY updated_at ASC, profile_id ASC LIMIT $%d;", argID)
	args = append(args, limit)

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed fetching modified profiles for delta sync"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.SYNC_PULL.Code,
			Message:     errors2.SYNC_PULL.Message,
			Description: errorMsg,
		}, err)
	}

	var profiles []model.Profile
	for _, row := range results {
		profile, err := scanProfileRow(row)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// GetLastSyncTimestamp returns the maximum updated_at visible to the given
// owner scope, or nil when the scope holds no profiles.
func (s *ProfileStore) GetLastSyncTimestamp(ownerId string) (*time.Time, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for last sync timestamp"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT MAX(updated_at) AS last_sync FROM profiles`
	var args []interface{}
	if ownerId != "" {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerId)
	}
	query += ";"

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed fetching last sync timestamp"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.SYNC_PULL.Code,
			Message:     errors2.SYNC_PULL.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	if t, ok := results[0]["last_sync"].(time.Time); ok {
		utc := t.UTC()
		return &utc, nil
	}
	return nil, nil
}

// GetProfileStats computes the summary counts for dashboards. Grouping
// dimensions are open-ended string domains.
func (s *ProfileStore) GetProfileStats() (*model.ProfileStats, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for profile statistics"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	stats := &model.ProfileStats{}

	totalsQuery := `
		SELECT COUNT(*) AS total,
			COUNT(DISTINCT owner_id) AS owners,
			COUNT(*) FILTER (WHERE is_active) AS active,
			COUNT(*) FILTER (WHERE NOT is_active) AS inactive
		FROM profiles;`

	results, err := dbClient.ExecuteQuery(totalsQuery)
	if err != nil {
		errorMsg := "Failed computing profile totals"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PROFILE_STATS.Code,
			Message:     errors2.PROFILE_STATS.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) > 0 {
		stats.TotalProfiles = asInt(results[0]["total"])
		stats.TotalDistinctOwners = asInt(results[0]["owners"])
		stats.ActiveCount = asInt(results[0]["active"])
		stats.InactiveCount = asInt(results[0]["inactive"])
	}

	networkRows, err := dbClient.ExecuteQuery(
		`SELECT network, COUNT(*) AS count FROM profiles GROUP BY network ORDER BY COUNT(*) DESC;`)
	if err != nil {
		errorMsg := "Failed computing per-network profile counts"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PROFILE_STATS.Code,
			Message:     errors2.PROFILE_STATS.Message,
			Description: errorMsg,
		}, err)
	}
	for _, row := range networkRows {
		stats.ByNetwork = append(stats.ByNetwork, model.NetworkCount{
			Network: asString(row["network"]),
			Count:   asInt(row["count"]),
		})
	}

	groupRows, err := dbClient.ExecuteQuery(
		`SELECT group_tag, COUNT(*) AS count FROM profiles GROUP BY group_tag ORDER BY COUNT(*) DESC;`)
	if err != nil {
		errorMsg := "Failed computing per-group profile counts"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PROFILE_STATS.Code,
			Message:     errors2.PROFILE_STATS.Message,
			Description: errorMsg,
		}, err)
	}
	for _, row := range groupRows {
		stats.ByGroup = append(stats.ByGroup, model.GroupCount{
			Group: asString(row["group_tag"]),
			Count: asInt(row["count"]),
		})
	}

	return stats, nil
}

func buildFilterConditions(filter model.ProfileFilter) ([]string, []interface{}) {

	var conditions []string
	var args []interface{}
	argID := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(account_name ILIKE $%d OR network ILIKE $%d OR group_tag ILIKE $%d OR owner_id ILIKE $%d)",
			argID, argID, argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.OwnerId != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argID))
		args = append(args, filter.OwnerId)
		argID++
	}
	if filter.Network != "" {
		conditions = append(conditions, fmt.Sprintf("network = $%d", argID))
		args = append(args, filter.Network)
		argID++
	}
	if filter.GroupTag != "" {
		conditions = append(conditions, fmt.Sprintf("group_tag = $%d", argID))
		args = append(args, filter.GroupTag)
		argID++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argID))
		args = append(args, *filter.IsActive)
		argID++
	}

	return conditions, args
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return ""
	}
}

func asBytes(v interface{}) []byte {
	switch b := v.(type) {
	case []byte:
		return b
	case string:
		return []byte(b)
	default:
		return nil
	}
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
