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

package normalize

import (
	"strconv"
	"strings"
)

// Meta holds response metadata keyed by lower case header name.
type Meta map[string]string

// RateLimit is the request quota reported by a response.
type RateLimit struct {
	Limit     int
	Remaining int
}

// RateLimit returns the quota headers. ok is false unless both are
// present and numeric.
func (m Meta) RateLimit() (RateLimit, bool) {
	limit, err := strconv.Atoi(m["x-ratelimit-limit"])
	if err != nil {
		return RateLimit{}, false
	}
	remaining, err := strconv.Atoi(m["x-ratelimit-remaining"])
	if err != nil {
		return RateLimit{}, false
	}
	return RateLimit{Limit: limit, Remaining: remaining}, true
}

// Links parses the RFC 5988 link header into rel -> URL.
//
// Format: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func (m Meta) Links() map[string]string {
	links := make(map[string]string)
	for _, part := range strings.Split(m["link"], ",") {
		sections := strings.Split(strings.TrimSpace(part), ";")
		if len(sections) < 2 {
			continue
		}
		target := strings.TrimSpace(sections[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		target = target[1 : len(target)-1]

		for _, attr := range sections[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(attr), "=")
			if !ok || strings.TrimSpace(key) != "rel" {
				continue
			}
			// rel may hold several space separated relation types.
			for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(value), `"`)) {
				if _, seen := links[rel]; !seen {
					links[rel] = target
				}
			}
		}
	}
	return links
}

// Link returns the URL for rel, or "".
func (m Meta) Link(rel string) string {
	return m.Links()[rel]
}

func (m Meta) HasNext() bool     { return m.Link("next") != "" }
func (m Meta) HasPrevious() bool { return m.Link("prev") != "" }
func (m Meta) HasFirst() bool    { return m.Link("first") != "" }
func (m Meta) HasLast() bool     { return m.Link("last") != "" }
