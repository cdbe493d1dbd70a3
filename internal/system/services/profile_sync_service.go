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

package services

import (
	"fmt"
	"net/http"

	"github.com/vaultsync/profile-sync-service/internal/profile/handler"
)

type ProfileSyncService struct {
	profileHandler *handler.ProfileHandler
}

func NewProfileSyncService(mux *http.ServeMux, apiBasePath string) *ProfileSyncService {

	instance := &ProfileSyncService{
		profileHandler: handler.NewProfileHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *ProfileSyncService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("GET %s/profiles", apiBasePath), s.profileHandler.GetAllProfiles)
	mux.HandleFunc(fmt.Sprintf("POST %s/profiles/upsert", apiBasePath), s.profileHandler.UpsertProfile)
	mux.HandleFunc(fmt.Sprintf("POST %s/profiles/resolve", apiBasePath), s.profileHandler.ResolveIdentities)
	mux.HandleFunc(fmt.Sprintf("GET %s/profiles/search", apiBasePath), s.profileHandler.SearchProfiles)
	mux.HandleFunc(fmt.Sprintf("GET %s/profiles/stats", apiBasePath), s.profileHandler.GetProfileStats)
	mux.HandleFunc(fmt.Sprintf("POST %s/profiles/sync/pull", apiBasePath), s.profileHandler.SyncPull)
	mux.HandleFunc(fmt.Sprintf("GET %s/profiles/sync/status", apiBasePath), s.profileHandler.SyncStatus)
	mux.HandleFunc(fmt.Sprintf("POST %s/profiles/sync/upload", apiBasePath), s.profileHandler.SyncUpload)
	mux.HandleFunc(fmt.Sprintf("GET %s/profiles/{id}", apiBasePath), s.profileHandler.GetProfile)
	mux.HandleFunc(fmt.Sprintf("PATCH %s/profiles/{id}", apiBasePath), s.profileHandler.UpdateProfile)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/profiles/{id}", apiBasePath), s.profileHandler.DeleteProfile)
}
