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

// Package params validates request parameter bags against a route's
// parameter schema and converts values to their wire representation.
//
// Validation is pure: it never touches the network and never mutates
// the message. It walks the route's parameters in declaration order
// and stops at the first failure.
package params

import (
	"fmt"
	"strings"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
	"github.com/sirseerhq/sirseer-rest/internal/routes"
)

// Message is a caller-supplied parameter bag, keyed by parameter name.
// Dotted keys such as "tagger.name" may be given flat or as nested maps.
type Message map[string]any

// Lookup returns the value for key. A dotted key is first looked up
// verbatim, then by walking nested maps.
func (m Message) Lookup(key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}

	var cur any = map[string]any(m)
	for _, part := range strings.Split(key, ".") {
		obj, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Value returns the value for key when it is present and not empty.
func (m Message) Value(key string) (any, bool) {
	v, ok := m.Lookup(key)
	if !ok || isEmpty(v) {
		return nil, false
	}
	return v, true
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case Message:
		return o, true
	default:
		return nil, false
	}
}

// Reason classifies a validation failure.
type Reason int

const (
	// MissingField means a required parameter was absent or empty.
	MissingField Reason = iota
	// PatternMismatch means the value did not match the parameter's pattern.
	PatternMismatch
	// InvalidValue means the value could not be converted to the parameter's kind.
	InvalidValue
)

func (r Reason) String() string {
	switch r {
	case MissingField:
		return "missingField"
	case PatternMismatch:
		return "patternMismatch"
	case InvalidValue:
		return "invalidValue"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

func (r Reason) sentinel() error {
	switch r {
	case MissingField:
		return resterrors.ErrMissingField
	case PatternMismatch:
		return resterrors.ErrPatternMismatch
	default:
		return resterrors.ErrInvalidValue
	}
}

// ValidationError reports the first parameter that failed validation.
// It matches ErrValidation and the sentinel for its Reason.
type ValidationError struct {
	Reason Reason
	Route  string
	Field  string
	Value  any
	// Err holds the conversion failure for InvalidValue.
	Err error
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case MissingField:
		return fmt.Sprintf("%s: missing required parameter %q", e.Route, e.Field)
	case PatternMismatch:
		return fmt.Sprintf("%s: parameter %q value %q does not match pattern", e.Route, e.Field, Format(e.Value))
	default:
		return fmt.Sprintf("%s: invalid value for parameter %q: %v", e.Route, e.Field, e.Err)
	}
}

// Unwrap exposes ErrValidation and the reason sentinel to errors.Is.
func (e *ValidationError) Unwrap() []error {
	errs := []error{resterrors.ErrValidation, e.Reason.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Validate checks msg against the route's parameter specs. It returns
// nil or a *ValidationError for the first failing parameter.
func Validate(route *routes.Route, msg Message) error {
	for _, spec := range route.Params {
		value, present := msg.Value(spec.Key)
		if !present {
			if spec.Required {
				return &ValidationError{Reason: MissingField, Route: route.Name, Field: spec.Key}
			}
			continue
		}

		// The pattern sees the caller's value, so a malformed number is a
		// pattern mismatch rather than a conversion failure.
		if spec.Pattern != nil && !spec.Pattern.MatchString(Format(value)) {
			return &ValidationError{Reason: PatternMismatch, Route: route.Name, Field: spec.Key, Value: value}
		}

		if _, err := Coerce(spec, value); err != nil {
			return &ValidationError{Reason: InvalidValue, Route: route.Name, Field: spec.Key, Value: value, Err: err}
		}
	}
	return nil
}

// isEmpty treats nil and the empty string as absent.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	default:
		return false
	}
}
