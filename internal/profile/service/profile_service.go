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
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vaultsync/profile-sync-service/internal/profile/model"
	"github.com/vaultsync/profile-sync-service/internal/profile/store"
	"github.com/vaultsync/profile-sync-service/internal/system/config"
	errors2 "github.com/vaultsync/profile-sync-service/internal/system/errors"
	"github.com/vaultsync/profile-sync-service/internal/system/log"
)

const (
	fallbackDeltaPageSize = 100
	fallbackMaxPageSize   = 200

	searchCandidateLimit = 1000
	defaultSearchLimit   = 20
)

// ProfileRepository is the persistence surface the service depends on.
// Satisfied by store.ProfileStore; tests substitute an in-memory fake.
type ProfileRepository interface {
	InsertProfile(profile model.Profile) (*model.Profile, error)
	GetProfileById(profileId string) (*model.Profile, error)
	GetProfileByIdentity(key model.IdentityKey) (*model.Profile, error)
	GetProfilesByIdentityKeys(keys []model.IdentityKey) (map[string]model.Profile, error)
	ListProfiles(filter model.ProfileFilter, page model.PageParams) ([]model.Profile, error)
	CountProfiles(filter model.ProfileFilter) (int, error)
	UpdateProfileWithVersion(profileId string, expectedVersion int, patch model.ProfilePatch) (*model.Profile, error)
	DeleteProfile(profileId string) (bool, error)
	GetProfilesModifiedAfter(filter store.SyncFilter, cursor *model.SyncCursor, limit int) ([]model.Profile, error)
	GetLastSyncTimestamp(ownerId string) (*time.Time, error)
	GetProfileStats() (*model.ProfileStats, error)
}

// OwnerValidator checks owner ids against the external identity service.
type OwnerValidator interface {
	OwnerExists(ownerId string) (bool, error)
	ValidateOwners(ownerIds []string) (map[string]bool, error)
}

// ProfileServiceInterface defines the operations of the sync engine.
type ProfileServiceInterface interface {
	UpsertProfile(request model.UpsertProfileRequest) (*model.UpsertResult, error)
	GetProfile(profileId string) (*model.Profile, error)
	ListProfiles(filter model.ProfileFilter, page model.PageParams) ([]model.Profile, int, error)
	UpdateProfile(profileId string, expectedVersion int, patch model.ProfilePatch) (*model.UpdateResult, error)
	DeleteProfile(profileId string) error
	PullDelta(ownerId, network, encodedCursor string, limit int) (*model.DeltaPage, error)
	GetSyncStatus(ownerId string) (*model.SyncStatus, error)
	SearchProfiles(query, ownerId, networkHint string, limit int) ([]model.RankedProfile, error)
	ResolveIdentities(keys []model.IdentityKey) (map[string]model.Profile, error)
	SyncUpload(entries []model.SyncUploadEntry) (*model.SyncUploadResult, error)
	GetProfileStats() (*model.ProfileStats, error)
}

// ProfileService implements the credential-profile sync engine on top of a
// ProfileRepository and an OwnerValidator.
type ProfileService struct {
	repo   ProfileRepository
	owners OwnerValidator
}

func NewProfileService(repo ProfileRepository, owners OwnerValidator) *ProfileService {
	return &ProfileService{
		repo:   repo,
		owners: owners,
	}
}

// UpsertProfile ingests a capture keyed by business identity. A first-seen
// identity becomes a new row at version 1; a known identity goes through the
// optimistic update gate. Retrying the same capture lands on the same row.
func (s *ProfileService) UpsertProfile(request model.UpsertProfileRequest) (*model.UpsertResult, error) {

	if err := validateUpsertRequest(request); err != nil {
		return nil, err
	}

	exists, err := s.owners.OwnerExists(request.OwnerId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.UNKNOWN_OWNER.Code,
			Message:     errors2.UNKNOWN_OWNER.Message,
			Description: fmt.Sprintf("Owner: %s is not known to the identity service", request.OwnerId),
		}, http.StatusUnprocessableEntity)
	}

	key := model.IdentityKey{
		OwnerId:     request.OwnerId,
		Network:     request.Network,
		GroupTag:    request.GroupTag,
		AccountName: request.AccountName,
	}
	existing, err := s.repo.GetProfileByIdentity(key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.upsertExisting(request, existing)
	}
	return s.upsertNew(request, key)
}

func (s *ProfileService) upsertNew(request model.UpsertProfileRequest,
	key model.IdentityKey) (*model.UpsertResult, error) {

	now := time.Now().UTC()
	profile := model.Profile{
		ProfileId:        uuid.New().String(),
		OwnerId:          request.OwnerId,
		Network:          request.Network,
		GroupTag:         request.GroupTag,
		AccountName:      request.AccountName,
		EncryptedPayload: request.EncryptedPayload,
		Metadata:         request.Metadata,
		IsActive:         true,
		Version:          model.InitialVersion,
		LastUsed:         &now,
	}

	inserted, err := s.repo.InsertProfile(profile)
	if err != nil {
		if store.IsUniqueViolation(err) {
			// Another agent created this identity first. Fold the capture
			// into the row that won the race.
			log.GetLogger().Debug("Insert lost an identity race, retrying as update",
				log.String("identity", key.String()))
			current, rerr := s.repo.GetProfileByIdentity(key)
			if rerr != nil {
				return nil, rerr
			}
			if current == nil {
				return nil, errors2.NewServerError(errors2.RESOLVE_IDENTITY, err)
			}
			return s.upsertExisting(request, current)
		}
		return nil, err
	}
	return &model.UpsertResult{
		Action:         model.UpsertActionCreated,
		Profile:        inserted,
		CurrentVersion: inserted.Version,
	}, nil
}

func (s *ProfileService) upsertExisting(request model.UpsertProfileRequest,
	existing *model.Profile) (*model.UpsertResult, error) {

	if !request.Force {
		if request.ExpectedVersion == nil || *request.ExpectedVersion != existing.Version {
			return &model.UpsertResult{
				Action:         model.UpsertActionConflict,
				Profile:        existing,
				CurrentVersion: existing.Version,
			}, nil
		}
	}

	now := time.Now().UTC()
	patch := model.ProfilePatch{
		EncryptedPayload: &request.EncryptedPayload,
		LastUsed:         &now,
	}
	if request.Metadata != nil {
		patch.Metadata = request.Metadata
	}

	updated, err := s.repo.UpdateProfileWithVersion(existing.ProfileId, existing.Version, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Row moved between resolve and write. Report the version it holds
		// now so the agent can merge and retry.
		current, rerr := s.repo.GetProfileById(existing.ProfileId)
		if rerr != nil {
			return nil, rerr
		}
		if current == nil {
			return nil, errors2.NewClientError(errors2.PROFILE_NOT_FOUND, http.StatusNotFound)
		}
		return &model.UpsertResult{
			Action:         model.UpsertActionConflict,
			Profile:        current,
			CurrentVersion: current.Version,
		}, nil
	}
	return &model.UpsertResult{
		Action:         model.UpsertActionUpdated,
		Profile:        updated,
		CurrentVersion: updated.Version,
	}, nil
}

func (s *ProfileService) GetProfile(profileId string) (*model.Profile, error) {

	profile, err := s.repo.GetProfileById(profileId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors2.NewClientError(errors2.PROFILE_NOT_FOUND, http.StatusNotFound)
	}
	return profile, nil
}

// ListProfiles returns a filtered page plus the total match count.
func (s *ProfileService) ListProfiles(filter model.ProfileFilter,
	page model.PageParams) ([]model.Profile, int, error) {

	if page.Limit <= 0 {
		page.Limit = defaultPageSize()
	}
	if page.Limit > maxPageSize() {
		page.Limit = maxPageSize()
	}
	if page.Offset < 0 {
		page.Offset = 0
	}

	profiles, err := s.repo.ListProfiles(filter, page)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountProfiles(filter)
	if err != nil {
		return nil, 0, err
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return profiles, total, nil
}

// UpdateProfile routes a patch through the optimistic update gate. The write
// succeeds only when expectedVersion matches the stored version; a mismatch
// is reported with the current version, never applied partially.
func (s *ProfileService) UpdateProfile(profileId string, expectedVersion int,
	patch model.ProfilePatch) (*model.UpdateResult, error) {

	if expectedVersion < model.InitialVersion {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "expected_version must be a positive integer",
		}, http.StatusBadRequest)
	}

	updated, err := s.repo.UpdateProfileWithVersion(profileId, expectedVersion, patch)
	if err != nil {
		return nil, err
	}
	if updated != nil {
		return &model.UpdateResult{
			Success:        true,
			Profile:        updated,
			CurrentVersion: updated.Version,
		}, nil
	}

	current, err := s.repo.GetProfileById(profileId)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors2.NewClientError(errors2.PROFILE_NOT_FOUND, http.StatusNotFound)
	}
	return &model.UpdateResult{
		Success:        false,
		Profile:        current,
		CurrentVersion: current.Version,
	}, nil
}

func (s *ProfileService) DeleteProfile(profileId string) error {

	deleted, err := s.repo.DeleteProfile(profileId)
	if err != nil {
		return err
	}
	if !deleted {
		return errors2.NewClientError(errors2.PROFILE_NOT_FOUND, http.StatusNotFound)
	}
	return nil
}

// PullDelta serves one page of the delta sync scan. The returned cursor
// resumes exactly after the last delivered row; an empty page echoes the
// input cursor so the client can keep polling from the same position.
func (s *ProfileService) PullDelta(ownerId, network, encodedCursor string,
	limit int) (*model.DeltaPage, error) {

	cursor, err := model.DecodeSyncCursor(encodedCursor)
	if err != nil {
		log.GetLogger().Debug("Rejecting malformed sync cursor", log.Error(err))
		return nil, errors2.NewClientError(errors2.INVALID_CURSOR, http.StatusBadRequest)
	}

	if limit <= 0 {
		limit = defaultPageSize()
	}
	if limit > maxPageSize() {
		limit = maxPageSize()
	}

	profiles, err := s.repo.GetProfilesModifiedAfter(
		store.SyncFilter{OwnerId: ownerId, Network: network}, cursor, limit)
	if err != nil {
		return nil, err
	}

	page := &model.DeltaPage{
		Profiles:   profiles,
		NextCursor: encodedCursor,
	}
	if page.Profiles == nil {
		page.Profiles = []model.Profile{}
	}
	if len(profiles) > 0 {
		last := profiles[len(profiles)-1]
		page.NextCursor = model.EncodeSyncCursor(model.SyncCursor{
			UpdatedAt: last.UpdatedAt,
			ProfileId: last.ProfileId,
		})
	}
	return page, nil
}

// GetSyncStatus answers the cheap probe a cold client makes before deciding
// whether to pull at all.
func (s *ProfileService) GetSyncStatus(ownerId string) (*model.SyncStatus, error) {

	total, err := s.repo.CountProfiles(model.ProfileFilter{OwnerId: ownerId})
	if err != nil {
		return nil, err
	}
	lastSync, err := s.repo.GetLastSyncTimestamp(ownerId)
	if err != nil {
		return nil, err
	}
	return &model.SyncStatus{
		TotalProfiles:     total,
		LastSyncTimestamp: lastSync,
		ServerTimestamp:   time.Now().UTC(),
	}, nil
}

// SearchProfiles ranks profiles against a free-text query. Candidates are
// fetched once and scored in memory.
func (s *ProfileService) SearchProfiles(query, ownerId, networkHint string,
	limit int) ([]model.RankedProfile, error) {

	if query == "" {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Search query must not be empty",
		}, http.StatusBadRequest)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	// No text filter on the fetch: a profile can rank on the network hint
	// or recent use alone, so every owner-scoped candidate must be scored.
	candidates, err := s.repo.ListProfiles(
		model.ProfileFilter{OwnerId: ownerId},
		model.PageParams{Limit: searchCandidateLimit})
	if err != nil {
		return nil, err
	}

	ranked := rankProfiles(candidates, query, networkHint, time.Now().UTC())
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ResolveIdentities maps identity tuples to their stored profiles in one
// round trip. Unknown tuples are simply absent from the result.
func (s *ProfileService) ResolveIdentities(keys []model.IdentityKey) (map[string]model.Profile, error) {

	for _, key := range keys {
		if key.OwnerId == "" || key.Network == "" || key.AccountName == "" {
			return nil, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.BAD_REQUEST.Code,
				Message:     errors2.BAD_REQUEST.Message,
				Description: "Identity keys require owner_id, network and account_name",
			}, http.StatusBadRequest)
		}
	}
	return s.repo.GetProfilesByIdentityKeys(keys)
}

// SyncUpload ingests a batch of captures. Owners are validated in one
// batched call and identities resolved in one query up front; each entry is
// then written independently so one bad capture never sinks the batch.
func (s *ProfileService) SyncUpload(entries []model.SyncUploadEntry) (*model.SyncUploadResult, error) {

	result := &model.SyncUploadResult{Outcomes: []model.SyncUploadOutcome{}}
	if len(entries) == 0 {
		return result, nil
	}

	ownerSet := make(map[string]bool)
	var ownerIds []string
	for _, entry := range entries {
		if entry.OwnerId != "" && !ownerSet[entry.OwnerId] {
			ownerSet[entry.OwnerId] = true
			ownerIds = append(ownerIds, entry.OwnerId)
		}
	}
	validOwners, err := s.owners.ValidateOwners(ownerIds)
	if err != nil {
		return nil, err
	}

	var keys []model.IdentityKey
	for _, entry := range entries {
		if validOwners[entry.OwnerId] && entry.Network != "" && entry.AccountName != "" {
			keys = append(keys, model.IdentityKey{
				OwnerId:     entry.OwnerId,
				Network:     entry.Network,
				GroupTag:    entry.GroupTag,
				AccountName: entry.AccountName,
			})
		}
	}
	resolved, err := s.repo.GetProfilesByIdentityKeys(keys)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		outcome := s.applyUploadEntry(entry, validOwners, resolved)
		result.Outcomes = append(result.Outcomes, outcome)
		switch outcome.Status {
		case model.UploadStatusCreated:
			result.Created++
		case model.UploadStatusUpdated:
			result.Updated++
		case model.UploadStatusConflict:
			result.Conflicts++
		case model.UploadStatusUnknownOwner:
			result.Rejected++
		default:
			result.Errors++
		}
	}
	return result, nil
}

func (s *ProfileService) applyUploadEntry(entry model.SyncUploadEntry,
	validOwners map[string]bool, resolved map[string]model.Profile) model.SyncUploadOutcome {

	key := model.IdentityKey{
		OwnerId:     entry.OwnerId,
		Network:     entry.Network,
		GroupTag:    entry.GroupTag,
		AccountName: entry.AccountName,
	}
	outcome := model.SyncUploadOutcome{Key: key}

	request := model.UpsertProfileRequest{
		OwnerId:          entry.OwnerId,
		Network:          entry.Network,
		GroupTag:         entry.GroupTag,
		AccountName:      entry.AccountName,
		EncryptedPayload: entry.EncryptedPayload,
		Metadata:         entry.Metadata,
		ExpectedVersion:  entry.ExpectedVersion,
		Force:            entry.Force,
	}
	if err := validateUpsertRequest(request); err != nil {
		outcome.Status = model.UploadStatusError
		outcome.Error = err.Error()
		return outcome
	}
	if !validOwners[entry.OwnerId] {
		outcome.Status = model.UploadStatusUnknownOwner
		return outcome
	}

	var upsertResult *model.UpsertResult
	var err error
	if existing, ok := resolved[key.String()]; ok {
		current := existing
		upsertResult, err = s.upsertExisting(request, &current)
	} else {
		upsertResult, err = s.upsertNew(request, key)
	}
	if err != nil {
		log.GetLogger().Warn("Bulk upload entry failed",
			log.String("identity", key.String()), log.Error(err))
		outcome.Status = model.UploadStatusError
		outcome.Error = err.Error()
		return outcome
	}

	// Later entries in the same batch must see this write, not the
	// snapshot taken before the loop.
	if upsertResult.Profile != nil {
		resolved[key.String()] = *upsertResult.Profile
	}

	switch upsertResult.Action {
	case model.UpsertActionCreated:
		outcome.Status = model.UploadStatusCreated
	case model.UpsertActionUpdated:
		outcome.Status = model.UploadStatusUpdated
	default:
		outcome.Status = model.UploadStatusConflict
	}
	outcome.CurrentVersion = upsertResult.CurrentVersion
	return outcome
}

// GetProfileStats returns the aggregate view with non-nil breakdown slices.
func (s *ProfileService) GetProfileStats() (*model.ProfileStats, error) {

	stats, err := s.repo.GetProfileStats()
	if err != nil {
		return nil, err
	}
	if stats.ByNetwork == nil {
		stats.ByNetwork = []model.NetworkCount{}
	}
	if stats.ByGroup == nil {
		stats.ByGroup = []model.GroupCount{}
	}
	return stats, nil
}

func validateUpsertRequest(request model.UpsertProfileRequest) error {

	missing := ""
	switch {
	case request.OwnerId == "":
		missing = "owner_id"
	case request.Network == "":
		missing = "network"
	case request.AccountName == "":
		missing = "account_name"
	case request.EncryptedPayload == "":
		missing = "encrypted_payload"
	}
	if missing != "" {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: fmt.Sprintf("Required field %s is missing", missing),
		}, http.StatusBadRequest)
	}
	return nil
}

func defaultPageSize() int {
	size := config.GetPSSRuntime().Config.Sync.DefaultPageSize
	if size <= 0 {
		return fallbackDeltaPageSize
	}
	return size
}

func maxPageSize() int {
	size := config.GetPSSRuntime().Config.Sync.MaxPageSize
	if size <= 0 {
		return fallbackMaxPageSize
	}
	return size
}
