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

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vaultsync/profile-sync-service/internal/profile/model"
	"github.com/vaultsync/profile-sync-service/internal/profile/provider"
	"github.com/vaultsync/profile-sync-service/internal/system/authn"
	errors2 "github.com/vaultsync/profile-sync-service/internal/system/errors"
	"github.com/vaultsync/profile-sync-service/internal/system/log"
	"github.com/vaultsync/profile-sync-service/internal/system/utils"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {

	return &ProfileHandler{}
}

// GetAllProfiles handles profile listing with optional filters.
func (ph *ProfileHandler) GetAllProfiles(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query()
	filter := model.ProfileFilter{
		OwnerId:  query.Get("owner_id"),
		Network:  query.Get("network"),
		GroupTag: query.Get("group_tag"),
		Search:   query.Get("search"),
	}
	if raw := query.Get("is_active"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.BAD_REQUEST.Code,
				Message:     errors2.BAD_REQUEST.Message,
				Description: "Query parameter is_active must be a boolean",
			}, http.StatusBadRequest))
			return
		}
		filter.IsActive = &isActive
	}
	page := model.PageParams{
		Limit:  intQueryParam(query.Get("limit")),
		Offset: intQueryParam(query.Get("offset")),
	}

	profileService := provider.NewProfilesProvider().GetProfileService()
	profiles, total, err := profileService.ListProfiles(filter, page)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"profiles": profiles,
		"total":    total,
	})
}

// GetProfile handles profile retrieval by id.
func (ph *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {

	profileId := r.PathValue("id")

	profileService := provider.NewProfilesProvider().GetProfileService()
	profile, err := profileService.GetProfile(profileId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, profile)
}

// UpsertProfile handles capture submissions keyed by business identity.
func (ph *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {

	var request model.UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Malformed JSON request body",
		}, http.StatusBadRequest))
		return
	}

	profileService := provider.NewProfilesProvider().GetProfileService()
	result, err := profileService.UpsertProfile(request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	if agent := authn.AgentFromRequest(r); agent != "" {
		log.GetLogger().Debug("Profile upsert",
			log.String("agent", agent), log.String("action", result.Action))
	}

	switch result.Action {
	case model.UpsertActionCreated:
		utils.WriteJSONResponse(w, http.StatusCreated, result)
	case model.UpsertActionConflict:
		utils.WriteJSONResponse(w, http.StatusConflict, result)
	default:
		utils.WriteJSONResponse(w, http.StatusOK, result)
	}
}

type updateProfileRequest struct {
	ExpectedVersion *int               `json:"expected_version"`
	Patch           model.ProfilePatch `json:"patch"`
}

// UpdateProfile handles optimistic patch requests.
func (ph *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {

	profileId := r.PathValue("id")

	var request updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Malformed JSON request body",
		}, http.StatusBadRequest))
		return
	}
	if request.ExpectedVersion == nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "expected_version is required",
		}, http.StatusBadRequest))
		return
	}

	profileService := provider.NewProfilesProvider().GetProfileService()
	result, err := profileService.UpdateProfile(profileId, *request.ExpectedVersion, request.Patch)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if !result.Success {
		utils.WriteJSONResponse(w, http.StatusConflict, result)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, result)
}

// DeleteProfile handles profile deletion.
func (ph *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {

	profileId := r.PathValue("id")

	profileService := provider.NewProfilesProvider().GetProfileService()
	if err := profileService.DeleteProfile(profileId); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type syncPullRequest struct {
	OwnerId string `json:"owner_id"`
	Network string `json:"network"`
	Cursor  string `json:"cursor"`
	Limit   int    `json:"limit"`
}

// SyncPull handles one page of a delta sync pull.
func (ph *ProfileHandler) SyncPull(w http.ResponseWriter, r *http.Request) {

	var request syncPullRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Malformed JSON request body",
		}, http.StatusBadRequest))
		return
	}

	profileService := provider.NewProfilesProvider().GetProfileService()
	page, err := profileService.PullDelta(request.OwnerId, request.Network, request.Cursor, request.Limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, page)
}

// SyncStatus reports whether a client needs to pull at all.
func (ph *ProfileHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {

	profileService := provider.NewProfilesProvider().GetProfileService()
	status, err := profileService.GetSyncStatus(r.URL.Query().Get("owner_id"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, status)
}

type syncUploadRequest struct {
	Profiles []model.SyncUploadEntry `json:"profiles"`
}

// SyncUpload handles bulk capture ingestion.
func (ph *ProfileHandler) SyncUpload(w http.ResponseWriter, r *http.Request) {

	var request syncUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Malformed JSON request body",
		}, http.StatusBadRequest))
		return
	}

	profileService := provider.NewProfilesProvider().GetProfileService()
	result, err := profileService.SyncUpload(request.Profiles)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	if agent := authn.AgentFromRequest(r); agent != "" {
		log.GetLogger().Debug("Bulk upload processed",
			log.String("agent", agent), log.Int("entries", len(request.Profiles)))
	}
	utils.WriteJSONResponse(w, http.StatusOK, result)
}

// SearchProfiles handles relevance-ranked profile search.
func (ph *ProfileHandler) SearchProfiles(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query()

	profileService := provider.NewProfilesProvider().GetProfileService()
	ranked, err := profileService.SearchProfiles(
		query.Get("q"),
		query.Get("owner_id"),
		query.Get("network"),
		intQueryParam(query.Get("limit")))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"results": ranked,
	})
}

type resolveIdentitiesRequest struct {
	Keys []model.IdentityKey `json:"keys"`
}

// ResolveIdentities handles batch identity-to-profile resolution.
func (ph *ProfileHandler) ResolveIdentities(w http.ResponseWriter, r *http.Request) {

	var request resolveIdentitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Malformed JSON request body",
		}, http.StatusBadRequest))
		return
	}

	profileService := provider.NewProfilesProvider().GetProfileService()
	resolved, err := profileService.ResolveIdentities(request.Keys)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"profiles": resolved,
	})
}

// GetProfileStats handles the statistics summary.
func (ph *ProfileHandler) GetProfileStats(w http.ResponseWriter, r *http.Request) {

	profileService := provider.NewProfilesProvider().GetProfileService()
	stats, err := profileService.GetProfileStats()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, stats)
}

func intQueryParam(raw string) int {

	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
