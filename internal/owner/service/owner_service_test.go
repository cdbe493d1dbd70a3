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
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vaultsync/profile-sync-service/internal/system/log"
)

func TestMain(m *testing.M) {

	_ = log.Init("DEBUG")
	os.Exit(m.Run())
}

// fakeIdentityClient records batch calls and answers from a fixed set.
type fakeIdentityClient struct {
	known    map[string]bool
	calls    int
	lastSize int
	err      error
}

func (f *fakeIdentityClient) ValidateOwners(ownerIds []string) (map[string]bool, error) {
	f.calls++
	f.lastSize = len(ownerIds)
	if f.err != nil {
		return nil, f.err
	}
	resolved := make(map[string]bool)
	for _, id := range ownerIds {
		if f.known[id] {
			resolved[id] = true
		}
	}
	return resolved, nil
}

func (f *fakeIdentityClient) OwnerExists(ownerId string) (bool, error) {
	resolved, err := f.ValidateOwners([]string{ownerId})
	if err != nil {
		return false, err
	}
	return resolved[ownerId], nil
}

func Test_ValidateOwners(t *testing.T) {

	t.Run("empty input yields empty map without a call", func(t *testing.T) {
		upstream := &fakeIdentityClient{known: map[string]bool{}}
		svc := NewOwnerService(upstream, time.Minute)

		validity, err := svc.ValidateOwners(nil)
		require.NoError(t, err)
		require.Empty(t, validity)
		require.Equal(t, 0, upstream.calls)
	})

	t.Run("unknown owners come back false, not as errors", func(t *testing.T) {
		upstream := &fakeIdentityClient{known: map[string]bool{"u1": true}}
		svc := NewOwnerService(upstream, time.Minute)

		validity, err := svc.ValidateOwners([]string{"u1", "ghost"})
		require.NoError(t, err)
		require.True(t, validity["u1"])
		require.False(t, validity["ghost"])
	})

	t.Run("duplicates are collapsed into one upstream lookup", func(t *testing.T) {
		upstream := &fakeIdentityClient{known: map[string]bool{"u1": true}}
		svc := NewOwnerService(upstream, time.Minute)

		validity, err := svc.ValidateOwners([]string{"u1", "u1", "u1"})
		require.NoError(t, err)
		require.True(t, validity["u1"])
		require.Equal(t, 1, upstream.calls)
		require.Equal(t, 1, upstream.lastSize)
	})

	t.Run("cache short-circuits repeat lookups", func(t *testing.T) {
		upstream := &fakeIdentityClient{known: map[string]bool{"u1": true}}
		svc := NewOwnerService(upstream, time.Minute)

		_, err := svc.ValidateOwners([]string{"u1", "ghost"})
		require.NoError(t, err)
		require.Equal(t, 1, upstream.calls)

		// Both the positive and the negative answer are cached.
		validity, err := svc.ValidateOwners([]string{"u1", "ghost"})
		require.NoError(t, err)
		require.True(t, validity["u1"])
		require.False(t, validity["ghost"])
		require.Equal(t, 1, upstream.calls)
	})

	t.Run("only cache misses reach upstream", func(t *testing.T) {
		upstream := &fakeIdentityClient{known: map[string]bool{"u1": true, "u2": true}}
		svc := NewOwnerService(upstream, time.Minute)

		_, err := svc.ValidateOwners([]string{"u1"})
		require.NoError(t, err)

		_, err = svc.ValidateOwners([]string{"u1", "u2"})
		require.NoError(t, err)
		require.Equal(t, 2, upstream.calls)
		require.Equal(t, 1, upstream.lastSize)
	})

	t.Run("upstream failure propagates", func(t *testing.T) {
		upstream := &fakeIdentityClient{err: fmt.Errorf("identity service unreachable")}
		svc := NewOwnerService(upstream, time.Minute)

		_, err := svc.ValidateOwners([]string{"u1"})
		require.Error(t, err)
	})
}

func Test_OwnerExists(t *testing.T) {

	upstream := &fakeIdentityClient{known: map[string]bool{"u1": true}}
	svc := NewOwnerService(upstream, time.Minute)

	exists, err := svc.OwnerExists("u1")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = svc.OwnerExists("ghost")
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = svc.OwnerExists("")
	require.NoError(t, err)
	require.False(t, exists)
}
