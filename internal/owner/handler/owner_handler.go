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

	"github.com/vaultsync/profile-sync-service/internal/owner/provider"
	errors2 "github.com/vaultsync/profile-sync-service/internal/system/errors"
	"github.com/vaultsync/profile-sync-service/internal/system/utils"
)

type OwnerHandler struct{}

func NewOwnerHandler() *OwnerHandler {

	return &OwnerHandler{}
}

type validateOwnersRequest struct {
	OwnerIds []string `json:"owner_ids"`
}

// ValidateOwners handles batch owner existence checks. Unknown ids come
// back as false entries, never as an error.
func (oh *OwnerHandler) ValidateOwners(w http.ResponseWriter, r *http.Request) {

	var request validateOwnersRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Malformed JSON request body",
		}, http.StatusBadRequest))
		return
	}

	ownerService := provider.NewOwnerProvider().GetOwnerService()
	validity, err := ownerService.ValidateOwners(request.OwnerIds)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"owners": validity,
	})
}
