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

package config

import "sync"

// PSSRuntime holds the runtime configuration for the profile sync server.
type PSSRuntime struct {
	PSSHome string `yaml:"pss_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *PSSRuntime
	once          sync.Once
)

// InitializePSSRuntime initializes the PSSRuntime configuration.
func InitializePSSRuntime(pssHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &PSSRuntime{
			PSSHome: pssHome,
			Config:  *config,
		}
	})

	return nil
}

// GetPSSRuntime returns the PSSRuntime configuration.
func GetPSSRuntime() *PSSRuntime {

	if runtimeConfig == nil {
		panic("PSSRuntime is not initialized")
	}
	return runtimeConfig
}

// OverridePSSRuntime replaces the runtime configuration. Intended for tests.
func OverridePSSRuntime(conf Config) {
	runtimeConfig = &PSSRuntime{
		Config: conf,
	}
}
