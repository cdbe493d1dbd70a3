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

package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/vaultsync/profile-sync-service/internal/system/config"
	"github.com/vaultsync/profile-sync-service/internal/system/log"
)

// IdentityClientInterface is the consumed surface of the external owner
// identity service.
type IdentityClientInterface interface {
	OwnerExists(ownerId string) (bool, error)
	ValidateOwners(ownerIds []string) (map[string]bool, error)
}

// IdentityClient talks to the owner/identity service over HTTP.
type IdentityClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewIdentityClient creates an IdentityClient from the runtime configuration.
func NewIdentityClient(cfg config.Config) *IdentityClient {

	timeout := time.Duration(cfg.Identity.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	log.GetLogger().Debug("Creating IdentityClient with base URL: " + cfg.Identity.BaseURL)

	tr := &http.Transport{
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     60 * time.Second,
		MaxIdleConns:        100,
		MaxConnsPerHost:     100,
	}

	return &IdentityClient{
		BaseURL: cfg.Identity.BaseURL,
		HTTPClient: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
	}
}

type validateOwnersRequest struct {
	OwnerIds []string `json:"owner_ids"`
}

type validateOwnersResponse struct {
	ValidOwnerIds []string `json:"valid_owner_ids"`
}

// ValidateOwners checks a batch of owner ids in a single round trip and
// returns a membership map. Ids missing from the response are simply absent.
func (c *IdentityClient) ValidateOwners(ownerIds []string) (map[string]bool, error) {

	valid := make(map[string]bool)
	if len(ownerIds) == 0 {
		return valid, nil
	}

	body, err := json.Marshal(validateOwnersRequest{OwnerIds: ownerIds})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal owner validation request")
	}

	url := c.BaseURL + "/owners/validate"
	resp, err := c.HTTPClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "owner validation request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("owner validation returned status %d", resp.StatusCode)
	}

	var parsed validateOwnersResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode owner validation response")
	}

	for _, id := range parsed.ValidOwnerIds {
		valid[id] = true
	}
	return valid, nil
}

// OwnerExists checks a single owner id.
func (c *IdentityClient) OwnerExists(ownerId string) (bool, error) {

	result, err := c.ValidateOwners([]string{ownerId})
	if err != nil {
		return false, err
	}
	return result[ownerId], nil
}

var _ IdentityClientInterface = (*IdentityClient)(nil)
