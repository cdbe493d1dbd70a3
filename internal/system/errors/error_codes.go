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

package errors

const errorPrefix = "PSS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	ADD_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Profile insertion failed.",
	}

	GET_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Fetching profile(s) failed.",
	}

	UPDATE_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Profile update failed.",
	}

	DELETE_PROFILE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Profile deletion failed.",
	}

	RESOLVE_IDENTITY = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Resolving profile identity failed.",
	}

	SYNC_PULL = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Delta sync pull failed.",
	}

	PROFILE_STATS = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Computing profile statistics failed.",
	}

	OWNER_LOOKUP = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Owner existence lookup failed.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while un-marshalling JSON.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Parsing token failed.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	PROFILE_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Profile not found.",
		Description: "No profile record found for the given profile_id",
	}

	VERSION_CONFLICT = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Profile version conflict.",
		Description: "The profile was updated elsewhere; re-fetch and retry with the current version.",
	}

	DUPLICATE_IDENTITY = ErrorMessage{
		Code:        errorPrefix + "11004",
		Message:     "Profile identity already exists.",
		Description: "A profile with the same owner, network, group tag and account name already exists.",
	}

	UNKNOWN_OWNER = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Unknown owner.",
		Description: "The referenced owner is not known to the identity service.",
	}

	INVALID_CURSOR = ErrorMessage{
		Code:        errorPrefix + "11006",
		Message:     "Invalid sync cursor.",
		Description: "The supplied sync cursor could not be interpreted.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11007",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}
)
