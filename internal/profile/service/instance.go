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
	"sync"

	ownerservice "github.com/vaultsync/profile-sync-service/internal/owner/service"
	"github.com/vaultsync/profile-sync-service/internal/profile/store"
)

var (
	instance *ProfileService
	once     sync.Once
)

// GetProfileService returns the shared profile sync service wired to the
// Postgres store and the owner validator.
func GetProfileService() ProfileServiceInterface {

	once.Do(func() {
		instance = NewProfileService(store.NewProfileStore(), ownerservice.GetOwnerService())
	})
	return instance
}
