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
	"time"

	"github.com/vaultsync/profile-sync-service/internal/system/cache"
	"github.com/vaultsync/profile-sync-service/internal/system/client"
	errors2 "github.com/vaultsync/profile-sync-service/internal/system/errors"
	"github.com/vaultsync/profile-sync-service/internal/system/log"
)

const defaultOwnerCacheTTL = 10 * time.Minute

// OwnerServiceInterface validates owner ids against the external identity
// service, caching positive and negative answers alike.
type OwnerServiceInterface interface {
	OwnerExists(ownerId string) (bool, error)
	ValidateOwners(ownerIds []string) (map[string]bool, error)
}

// OwnerService batches lookups to the identity service. Unknown ids are a
// normal outcome, not an error.
type OwnerService struct {
	identityClient client.IdentityClientInterface
	ownerCache     *cache.Cache
}

func NewOwnerService(identityClient client.IdentityClientInterface, cacheTTL time.Duration) *OwnerService {

	if cacheTTL <= 0 {
		cacheTTL = defaultOwnerCacheTTL
	}
	return &OwnerService{
		identityClient: identityClient,
		ownerCache:     cache.NewCache(cacheTTL),
	}
}

// OwnerExists checks a single owner id.
func (s *OwnerService) OwnerExists(ownerId string) (bool, error) {

	if ownerId == "" {
		return false, nil
	}
	validity, err := s.ValidateOwners([]string{ownerId})
	if err != nil {
		return false, err
	}
	return validity[ownerId], nil
}

// ValidateOwners resolves a batch of owner ids to known/unknown in a single
// upstream call, consulting the cache first. An empty input yields an empty
// map. Every requested id has an entry in the result.
func (s *OwnerService) ValidateOwners(ownerIds []string) (map[string]bool, error) {

	validity := make(map[string]bool)
	if len(ownerIds) == 0 {
		return validity, nil
	}

	var misses []string
	seen := make(map[string]bool)
	for _, ownerId := range ownerIds {
		if ownerId == "" || seen[ownerId] {
			continue
		}
		seen[ownerId] = true
		if cached, ok := s.ownerCache.Get(ownerId); ok {
			validity[ownerId] = cached.(bool)
			continue
		}
		misses = append(misses, ownerId)
	}

	if len(misses) > 0 {
		resolved, err := s.identityClient.ValidateOwners(misses)
		if err != nil {
			log.GetLogger().Warn("Owner validation against identity service failed", log.Error(err))
			return nil, errors2.NewServerError(errors2.OWNER_LOOKUP, err)
		}
		for _, ownerId := range misses {
			valid := resolved[ownerId]
			validity[ownerId] = valid
			s.ownerCache.Set(ownerId, valid)
		}
		log.GetLogger().Debug("Validated owners against identity service",
			log.Int("requested", len(misses)))
	}

	return validity, nil
}
