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

// Package request turns a validated parameter bag into a concrete API
// request: URL placeholders are substituted, and the remaining declared
// parameters are routed to the query string or a JSON body depending on
// the HTTP method.
package request

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirseerhq/sirseer-rest/internal/params"
	"github.com/sirseerhq/sirseer-rest/internal/routes"
	"github.com/sirseerhq/sirseer-rest/internal/transport"
)

// MaxPerPage is the largest page size GitHub honours.
const MaxPerPage = 100

// Pagination parameters always travel on the query string.
const (
	pageKey    = "page"
	perPageKey = "per_page"
)

var placeholder = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// Build constructs the request for route from msg. msg is expected to
// have passed params.Validate; Build still reports missing placeholder
// values and conversion failures rather than emitting a broken URL.
//
// Only parameters declared by the route are forwarded. For GET and
// DELETE every non-path parameter goes on the query string. For POST,
// PATCH and PUT page/per_page go on the query string and the rest form
// the JSON body, with dotted keys ("tagger.name") expanded into nested
// objects.
func Build(route *routes.Route, msg params.Message) (*transport.Request, error) {
	path, err := expand(route, msg)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	var body map[string]any

	for _, spec := range route.Params {
		if route.IsPlaceholder(spec.Key) {
			continue
		}
		raw, ok := msg.Value(spec.Key)
		if !ok {
			continue
		}

		value, err := params.Coerce(spec, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: parameter %q: %w", route.Name, spec.Key, err)
		}
		if spec.Key == perPageKey {
			value = capPerPage(value)
		}

		if !route.Method.HasBody() || spec.Key == pageKey || spec.Key == perPageKey {
			query.Set(spec.Key, params.Format(value))
			continue
		}

		if body == nil {
			body = make(map[string]any)
		}
		setPath(body, spec.Key, value)
	}

	req := &transport.Request{
		Method: string(route.Method),
		Path:   path,
	}
	if len(query) > 0 {
		req.Query = query
	}
	if body != nil {
		req.Body = body
	}
	return req, nil
}

// expand substitutes every :field of the route template. Each
// slash-separated segment of a value is escaped on its own so values
// like "heads/feature" keep their path structure.
func expand(route *routes.Route, msg params.Message) (string, error) {
	var firstErr error
	path := placeholder.ReplaceAllStringFunc(route.Template, func(m string) string {
		key := m[1:]
		spec, _ := route.Param(key)

		raw, ok := msg.Value(key)
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: no value for URL placeholder :%s", route.Name, key)
			}
			return m
		}
		value, err := params.Coerce(spec, raw)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: parameter %q: %w", route.Name, key, err)
			}
			return m
		}
		return escapeSegments(params.Format(value))
	})
	if firstErr != nil {
		return "", firstErr
	}
	return path, nil
}

func escapeSegments(s string) string {
	parts := strings.Split(s, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func capPerPage(value any) any {
	n, ok := value.(json.Number)
	if !ok {
		return value
	}
	if i, err := n.Int64(); err == nil && i > MaxPerPage {
		return json.Number(fmt.Sprint(MaxPerPage))
	}
	return value
}

// setPath stores value under a dotted key, creating nested objects.
func setPath(obj map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := obj[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			obj[part] = next
		}
		obj = next
	}
	obj[parts[len(parts)-1]] = value
}
