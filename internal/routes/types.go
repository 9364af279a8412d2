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

package routes

import (
	"fmt"
	"regexp"
	"strings"
)

// Method is an HTTP verb accepted by the route table.
type Method string

// Supported HTTP methods.
const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPatch  Method = "PATCH"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// HasBody reports whether requests with this method carry a JSON body.
// GET and DELETE send every parameter on the query string.
func (m Method) HasBody() bool {
	switch m {
	case MethodPost, MethodPatch, MethodPut:
		return true
	default:
		return false
	}
}

func parseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(s)); m {
	case MethodGet, MethodPost, MethodPatch, MethodPut, MethodDelete:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported method %q", s)
	}
}

// Kind is the declared type of a request parameter. It drives both
// validation and the wire representation of the value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindJSON
	KindArray
	KindDate
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindJSON:    "json",
	KindArray:   "array",
	KindDate:    "date",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func parseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unsupported parameter kind %q", s)
}

// ParamSpec describes validation for one request parameter.
type ParamSpec struct {
	Key         string
	Kind        Kind
	Required    bool
	Pattern     *regexp.Regexp // nil when the parameter has no pattern
	Description string
}

// Route is a named GitHub API operation. Routes are immutable once the
// table is loaded and are shared read-only by all requests.
type Route struct {
	// Name is "<group>.<operation>", e.g. "issues.getRepoIssue".
	Name      string
	Group     string
	Operation string
	Method    Method
	// Template is the URL path with :field placeholders.
	Template string
	Params   []ParamSpec

	placeholders []string
	index        map[string]int
}

// Placeholders returns the :field names of the URL template in order
// of appearance.
func (r *Route) Placeholders() []string {
	out := make([]string, len(r.placeholders))
	copy(out, r.placeholders)
	return out
}

// IsPlaceholder reports whether key is substituted into the URL path.
func (r *Route) IsPlaceholder(key string) bool {
	for _, p := range r.placeholders {
		if p == key {
			return true
		}
	}
	return false
}

// Param returns the spec for key.
func (r *Route) Param(key string) (ParamSpec, bool) {
	i, ok := r.index[key]
	if !ok {
		return ParamSpec{}, false
	}
	return r.Params[i], true
}

func (r *Route) String() string {
	return fmt.Sprintf("%s %s (%s)", r.Method, r.Template, r.Name)
}

var placeholderPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// parsePlaceholders extracts the :field names of a URL template.
func parsePlaceholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}
