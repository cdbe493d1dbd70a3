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

package model

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_SyncCursorRoundTrip(t *testing.T) {

	updatedAt := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	cursor := SyncCursor{
		UpdatedAt: updatedAt,
		ProfileId: "7f3c9a1e-5b2d-4c8f-9e61-2a4d8b0c3f17",
	}

	encoded := EncodeSyncCursor(cursor)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeSyncCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	require.True(t, decoded.UpdatedAt.Equal(updatedAt))
	require.Equal(t, cursor.ProfileId, decoded.ProfileId)
}

func Test_SyncCursorEmptyString(t *testing.T) {

	decoded, err := DecodeSyncCursor("")
	require.NoError(t, err)
	require.Nil(t, decoded)
}

func Test_SyncCursorMalformed(t *testing.T) {

	cases := []struct {
		name    string
		encoded string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"missing separator", base64.RawURLEncoding.EncodeToString([]byte("no-separator-here"))},
		{"bad timestamp", base64.RawURLEncoding.EncodeToString([]byte("yesterday|some-id"))},
		{"empty id", base64.RawURLEncoding.EncodeToString([]byte("2026-03-14T09:26:53.589793Z|"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeSyncCursor(tc.encoded)
			require.Error(t, err)
			require.Nil(t, decoded)
		})
	}
}

func Test_SyncCursorPreservesNanosecondPrecision(t *testing.T) {

	updatedAt := time.Date(2026, 1, 2, 3, 4, 5, 123456789, time.UTC)
	encoded := EncodeSyncCursor(SyncCursor{UpdatedAt: updatedAt, ProfileId: "p1"})

	decoded, err := DecodeSyncCursor(encoded)
	require.NoError(t, err)
	require.True(t, decoded.UpdatedAt.Equal(updatedAt))
}
