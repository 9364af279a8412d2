// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"errors"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
	"github.com/sirseerhq/sirseer-rest/internal/giterror"
)

var inspector = giterror.NewErrorChainInspector(giterror.NewInspector())

// mapErrorToExitCode maps errors to the documented exit codes.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Caller mistakes are general errors whatever their message says.
	if errors.Is(err, resterrors.ErrValidation) ||
		errors.Is(err, resterrors.ErrUnknownRoute) ||
		errors.Is(err, resterrors.ErrInvalidRouteTable) {
		return 1
	}

	if inspector.IsAuthError(err) ||
		inspector.IsNotFoundError(err) ||
		inspector.IsRateLimitError(err) {
		return 2
	}

	if inspector.IsNetworkError(err) {
		return 3
	}

	return 1
}
