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

package provider

import (
	"github.com/vaultsync/profile-sync-service/internal/owner/service"
)

// OwnerProviderInterface defines the interface for the owner provider.
type OwnerProviderInterface interface {
	GetOwnerService() service.OwnerServiceInterface
}

// OwnerProvider is the default implementation of the OwnerProviderInterface.
type OwnerProvider struct{}

// NewOwnerProvider creates a new instance of OwnerProvider.
func NewOwnerProvider() OwnerProviderInterface {

	return &OwnerProvider{}
}

// GetOwnerService returns the owner validation service instance.
func (op *OwnerProvider) GetOwnerService() service.OwnerServiceInterface {

	return service.GetOwnerService()
}
