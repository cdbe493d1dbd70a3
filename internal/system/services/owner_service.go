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

	"github.com/vaultsync/profile-sync-service/internal/owner/handler"
)

type OwnerService struct {
	ownerHandler *handler.OwnerHandler
}

func NewOwnerService(mux *http.ServeMux, apiBasePath string) *OwnerService {

	instance := &OwnerService{
		ownerHandler: handler.NewOwnerHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *OwnerService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("POST %s/owners/validate", apiBasePath), s.ownerHandler.ValidateOwners)
}
