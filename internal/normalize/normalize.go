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

// Package normalize turns raw API response bodies into envelopes: the
// decoded JSON value plus a meta map carrying the rate limit and
// pagination headers of the response.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
)

// Headers copied into Meta when present. Keys are stored lower case.
var metaHeaders = []string{
	"x-ratelimit-limit",
	"x-ratelimit-remaining",
	"link",
}

// metaKey is the object key Meta occupies in an envelope's JSON form.
const metaKey = "meta"

// Envelope is a normalized response.
type Envelope struct {
	// Data is the decoded body. Objects decode to map[string]any,
	// arrays to []any and numbers to json.Number. It is never nil.
	Data any
	Meta Meta
}

// ParseError reports a response body that is not valid JSON.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", resterrors.ErrParseFailure, e.Message)
}

// Unwrap returns ErrParseFailure.
func (e *ParseError) Unwrap() error {
	return resterrors.ErrParseFailure
}

// Normalize decodes body and attaches header metadata. An empty body or
// a falsy value (null, false, 0, "") becomes an empty object. Normalize
// does not retain body or header.
func Normalize(body []byte, header http.Header) (*Envelope, error) {
	data, err := decode(body)
	if err != nil {
		return nil, err
	}
	if falsy(data) {
		data = map[string]any{}
	}

	meta := Meta{}
	if obj, ok := data.(map[string]any); ok {
		if seed, ok := obj[metaKey].(map[string]any); ok {
			for k, v := range seed {
				meta[k] = metaString(v)
			}
			delete(obj, metaKey)
		}
	}
	for _, name := range metaHeaders {
		if value := header.Get(name); value != "" {
			meta[name] = value
		}
	}

	return &Envelope{Data: data, Meta: meta}, nil
}

func decode(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Message: "invalid character after top-level value"}
	}
	return data, nil
}

func falsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

func metaString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case nil:
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// MarshalJSON renders object data with meta merged in as a "meta" key,
// and any other data as {"data": ..., "meta": ...}.
func (e Envelope) MarshalJSON() ([]byte, error) {
	meta := e.Meta
	if meta == nil {
		meta = Meta{}
	}
	if obj, ok := e.Data.(map[string]any); ok {
		merged := make(map[string]any, len(obj)+1)
		for k, v := range obj {
			merged[k] = v
		}
		merged[metaKey] = meta
		return json.Marshal(merged)
	}
	return json.Marshal(struct {
		Data any  `json:"data"`
		Meta Meta `json:"meta"`
	}{e.Data, meta})
}

// Decode re-decodes Data into v, typically a struct or slice of structs.
func (e *Envelope) Decode(v any) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encoding envelope data: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding envelope data: %w", err)
	}
	return nil
}
