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
	"time"

	"github.com/vaultsync/profile-sync-service/internal/system/client"
	"github.com/vaultsync/profile-sync-service/internal/system/config"
)

var (
	instance *OwnerService
	once     sync.Once
)

// GetOwnerService returns the shared owner validation service, built from
// the runtime identity service configuration on first use.
func GetOwnerService() OwnerServiceInterface {

	once.Do(func() {
		cfg := config.GetPSSRuntime().Config
		ttl := time.Duration(cfg.Identity.CacheTTLMins) * time.Minute
		instance = NewOwnerService(client.NewIdentityClient(cfg), ttl)
	})
	return instance
}
