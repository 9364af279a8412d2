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
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
)

//go:embed routes.yaml
var defaultDocument []byte

//go:embed routes.schema.json
var documentSchema []byte

// document is the YAML shape of a route table.
type document struct {
	Defines struct {
		Params map[string]rawParam `yaml:"params"`
	} `yaml:"defines"`
	Routes []rawRoute `yaml:"routes"`
}

type rawRoute struct {
	Name   string     `yaml:"name"`
	Method string     `yaml:"method"`
	URL    string     `yaml:"url"`
	Params []rawParam `yaml:"params"`
}

// rawParam is either a full definition or a reference (Use) to a shared
// definition with optional overrides. Pointer fields distinguish "not
// set" from the zero value so overrides like required: false apply.
type rawParam struct {
	Use         string  `yaml:"use"`
	Key         string  `yaml:"key"`
	Kind        string  `yaml:"kind"`
	Required    *bool   `yaml:"required"`
	Pattern     *string `yaml:"pattern"`
	Description *string `yaml:"description"`
}

// Table is an immutable, ordered set of routes. It is safe for
// concurrent use.
type Table struct {
	routes []*Route
	byName map[string]*Route
}

// Default returns a table built from the embedded GitHub v3 route
// document. Each call parses the document again, so callers should
// build the table once at startup and pass it where it is needed.
func Default() (*Table, error) {
	return Load(defaultDocument)
}

// LoadFile reads a route document from path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table %s: %w", path, err)
	}
	table, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Load parses a YAML route document. The document is checked against
// the route table JSON schema first, then every route is resolved and
// its invariants enforced:
//   - route names are unique and of the form "<group>.<operation>"
//   - every use reference resolves to a shared definition
//   - every pattern compiles
//   - every :placeholder in the URL template has a required parameter
//
// Any failure is returned wrapped in ErrInvalidRouteTable.
func Load(data []byte) (*Table, error) {
	if err := validateDocument(data); err != nil {
		return nil, invalid("%v", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalid("failed to parse route document: %v", err)
	}

	table := &Table{
		routes: make([]*Route, 0, len(doc.Routes)),
		byName: make(map[string]*Route, len(doc.Routes)),
	}

	for i := range doc.Routes {
		route, err := resolveRoute(&doc.Routes[i], doc.Defines.Params)
		if err != nil {
			return nil, err
		}
		if _, dup := table.byName[route.Name]; dup {
			return nil, invalid("duplicate route %q", route.Name)
		}
		table.byName[route.Name] = route
		table.routes = append(table.routes, route)
	}

	return table, nil
}

// validateDocument checks the raw document against the embedded schema.
func validateDocument(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse route document: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("route document is empty")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(documentSchema))
	if err != nil {
		return fmt.Errorf("failed to load route schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to validate route document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("route document does not match schema: %s", strings.Join(msgs, "; "))
}

func resolveRoute(raw *rawRoute, defines map[string]rawParam) (*Route, error) {
	group, operation, ok := strings.Cut(raw.Name, ".")
	if !ok || group == "" || operation == "" {
		return nil, invalid("route name %q must be <group>.<operation>", raw.Name)
	}

	method, err := parseMethod(raw.Method)
	if err != nil {
		return nil, invalid("route %s: %v", raw.Name, err)
	}

	route := &Route{
		Name:         raw.Name,
		Group:        group,
		Operation:    operation,
		Method:       method,
		Template:     raw.URL,
		Params:       make([]ParamSpec, 0, len(raw.Params)),
		placeholders: parsePlaceholders(raw.URL),
		index:        make(map[string]int, len(raw.Params)),
	}

	for _, rp := range raw.Params {
		spec, err := resolveParam(rp, defines)
		if err != nil {
			return nil, invalid("route %s: %v", raw.Name, err)
		}
		if _, dup := route.index[spec.Key]; dup {
			return nil, invalid("route %s: duplicate parameter %q", raw.Name, spec.Key)
		}
		route.index[spec.Key] = len(route.Params)
		route.Params = append(route.Params, spec)
	}

	for _, name := range route.placeholders {
		spec, ok := route.Param(name)
		if !ok || !spec.Required {
			return nil, invalid("route %s: placeholder :%s has no required parameter", raw.Name, name)
		}
	}

	return route, nil
}

func resolveParam(rp rawParam, defines map[string]rawParam) (ParamSpec, error) {
	merged := rp
	key := rp.Key

	if rp.Use != "" {
		def, ok := defines[rp.Use]
		if !ok {
			return ParamSpec{}, fmt.Errorf("undefined parameter reference %q", rp.Use)
		}
		key = rp.Use
		merged = def
		if rp.Kind != "" {
			merged.Kind = rp.Kind
		}
		if rp.Required != nil {
			merged.Required = rp.Required
		}
		if rp.Pattern != nil {
			merged.Pattern = rp.Pattern
		}
		if rp.Description != nil {
			merged.Description = rp.Description
		}
	}

	if key == "" {
		return ParamSpec{}, fmt.Errorf("parameter without key")
	}

	kind, err := parseKind(merged.Kind)
	if err != nil {
		return ParamSpec{}, fmt.Errorf("parameter %s: %w", key, err)
	}

	spec := ParamSpec{
		Key:  key,
		Kind: kind,
	}
	if merged.Required != nil {
		spec.Required = *merged.Required
	}
	if merged.Description != nil {
		spec.Description = *merged.Description
	}
	if merged.Pattern != nil && *merged.Pattern != "" {
		re, err := regexp.Compile(*merged.Pattern)
		if err != nil {
			return ParamSpec{}, fmt.Errorf("parameter %s: bad pattern: %w", key, err)
		}
		spec.Pattern = re
	}

	return spec, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), resterrors.ErrInvalidRouteTable)
}

// Lookup returns the route registered under name. An unknown name is a
// configuration error wrapping ErrUnknownRoute.
func (t *Table) Lookup(name string) (*Route, error) {
	if route, ok := t.byName[name]; ok {
		return route, nil
	}
	return nil, fmt.Errorf("route %q: %w", name, resterrors.ErrUnknownRoute)
}

// Routes returns all routes in document order.
func (t *Table) Routes() []*Route {
	out := make([]*Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Group returns the routes of one API group in document order.
func (t *Table) Group(group string) []*Route {
	var out []*Route
	for _, r := range t.routes {
		if r.Group == group {
			out = append(out, r)
		}
	}
	return out
}

// Groups returns the sorted names of all API groups.
func (t *Table) Groups() []string {
	seen := make(map[string]struct{})
	for _, r := range t.routes {
		seen[r.Group] = struct{}{}
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}
