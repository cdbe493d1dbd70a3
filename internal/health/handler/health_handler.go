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
	"net/http"

	"github.com/vaultsync/profile-sync-service/internal/system/database/provider"
	"github.com/vaultsync/profile-sync-service/internal/system/log"
	"github.com/vaultsync/profile-sync-service/internal/system/utils"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {

	return &HealthHandler{}
}

// HandleHealth reports process liveness.
func (hh *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {

	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReadiness reports whether the database is reachable.
func (hh *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		log.GetLogger().Warn("Readiness probe failed to get db client", log.Error(err))
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	defer dbClient.Close()

	if _, err := dbClient.ExecuteQuery("SELECT 1;"); err != nil {
		log.GetLogger().Warn("Readiness probe query failed", log.Error(err))
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}
