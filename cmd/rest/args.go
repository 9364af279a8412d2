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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/sirseerhq/sirseer-rest/internal/params"
)

// parseArgs turns command line arguments into a parameter message.
// "key=value" sets a string; "key:=json" sets a decoded JSON value, so
// number:=1347 is a number and labels:='["bug"]' is an array.
func parseArgs(args []string) (params.Message, error) {
	msg := make(params.Message, len(args))
	for _, arg := range args {
		key, value, err := parseArg(arg)
		if err != nil {
			return nil, err
		}
		msg[key] = value
	}
	return msg, nil
}

func parseArg(arg string) (string, any, error) {
	eq := strings.Index(arg, "=")
	if eq <= 0 {
		return "", nil, fmt.Errorf("invalid argument %q. Expected: key=value or key:=json", arg)
	}

	if eq > 0 && arg[eq-1] == ':' {
		key := strings.TrimSpace(arg[:eq-1])
		if key == "" {
			return "", nil, fmt.Errorf("invalid argument %q. Expected: key=value or key:=json", arg)
		}
		value, err := decodeJSON([]byte(arg[eq+1:]))
		if err != nil {
			return "", nil, fmt.Errorf("invalid JSON for %s: %w", key, err)
		}
		return key, value, nil
	}

	key := strings.TrimSpace(arg[:eq])
	if key == "" {
		return "", nil, fmt.Errorf("invalid argument %q. Expected: key=value or key:=json", arg)
	}
	return key, arg[eq+1:], nil
}

// readParamsFile loads a message from a JSON file. Comments and trailing
// commas are accepted. "-" reads stdin.
func readParamsFile(path string, stdin io.Reader) (params.Message, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}

	value, err := decodeJSON(jsonc.ToJSON(data))
	if err != nil {
		return nil, fmt.Errorf("invalid params file %s: %w", path, err)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid params file %s: top level must be an object", path)
	}
	return params.Message(obj), nil
}

// mergeMessages overlays later messages onto earlier ones.
func mergeMessages(msgs ...params.Message) params.Message {
	out := make(params.Message)
	for _, m := range msgs {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
