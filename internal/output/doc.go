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
// Package output writes call results as JSON.
//
// The Writer emits one JSON document per record. In its default mode every
// record occupies a single line (NDJSON), which is what the CLI uses when it
// follows pagination and streams every page of a listing. With WithIndent the
// same Writer pretty-prints each record, which suits a single envelope or a
// built request shown to a person.
//
// HTML escaping is disabled so that Link header values such as
// <https://api.github.com/...>; rel="next" survive unchanged.
//
// Example usage:
//
//	w, err := output.NewFileWriter("issues.ndjson")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	err = client.Pages(ctx, "issues.repoIssues", msg, func(env *normalize.Envelope) error {
//	    return w.Write(env)
//	})
package output
