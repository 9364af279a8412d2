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

package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirseerhq/sirseer-rest/internal/routes"
)

// Coerce converts value to the wire representation of spec.Kind:
//
//	string  -> string
//	number  -> json.Number
//	boolean -> bool
//	json    -> decoded JSON value (strings and raw bytes are parsed)
//	array   -> []string (strings are split on commas)
//	date    -> RFC 3339 string
func Coerce(spec routes.ParamSpec, value any) (any, error) {
	switch spec.Kind {
	case routes.KindString:
		return toString(value)
	case routes.KindNumber:
		return toNumber(value)
	case routes.KindBoolean:
		return toBool(value)
	case routes.KindJSON:
		return toJSON(value)
	case routes.KindArray:
		return toStrings(value)
	case routes.KindDate:
		return toDate(value)
	default:
		return nil, fmt.Errorf("unsupported kind %s", spec.Kind)
	}
}

// Format renders a coerced value for a URL path segment, a query string
// or a pattern check.
func Format(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ",")
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	}
	if s, err := toString(value); err == nil {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64:
		return strconv.FormatInt(toInt64(v), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(toUint64(v), 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("cannot use %T as string", value)
	}
}

func toNumber(value any) (json.Number, error) {
	switch v := value.(type) {
	case json.Number:
		if _, err := v.Float64(); err != nil {
			return "", fmt.Errorf("%q is not a number", v.String())
		}
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		// json.Valid rejects forms ParseFloat accepts but JSON does
		// not, such as hex floats and Inf.
		if _, err := strconv.ParseFloat(s, 64); err != nil || !json.Valid([]byte(s)) {
			return "", fmt.Errorf("%q is not a number", v)
		}
		return json.Number(s), nil
	case float32:
		return json.Number(strconv.FormatFloat(float64(v), 'f', -1, 32)), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "", fmt.Errorf("%v is not a finite number", v)
		}
		return json.Number(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case int, int8, int16, int32, int64:
		return json.Number(strconv.FormatInt(toInt64(v), 10)), nil
	case uint, uint8, uint16, uint32, uint64:
		return json.Number(strconv.FormatUint(toUint64(v), 10)), nil
	default:
		return "", fmt.Errorf("cannot use %T as number", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%q is not a boolean", v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("cannot use %T as boolean", value)
	}
}

func toJSON(value any) (any, error) {
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	default:
		if _, err := json.Marshal(value); err != nil {
			return nil, fmt.Errorf("value is not JSON serializable: %w", err)
		}
		return value, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: trailing data")
	}
	return out, nil
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, err := toString(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot use %T as array", value)
	}
}

func toDate(value any) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339), nil
	case string:
		if _, err := time.Parse(time.RFC3339, v); err != nil {
			return "", fmt.Errorf("%q is not an ISO 8601 timestamp (YYYY-MM-DDTHH:MM:SSZ)", v)
		}
		return v, nil
	default:
		return "", fmt.Errorf("cannot use %T as date", value)
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	}
	return 0
}
