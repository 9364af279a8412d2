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
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirseerhq/sirseer-rest/internal/params"
)

// ErrNoCheckpoint is returned by LoadCheckpoint when no file exists.
var ErrNoCheckpoint = errors.New("no checkpoint found")

// DefaultDir returns ~/.sirseer/state, or ./.sirseer/state when the
// home directory is not accessible.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".sirseer", "state")
}

// Key identifies a paginated call by route name and parameters. Equal
// messages always yield the same key.
func Key(route string, msg params.Message) string {
	// Maps marshal with sorted keys.
	data, err := json.Marshal(msg)
	if err != nil {
		data = []byte(fmt.Sprint(msg))
	}
	sum := sha256.Sum256(append([]byte(route+"\n"), data...))
	return hex.EncodeToString(sum[:8])
}

// FilePath returns the checkpoint file for key inside dir.
// Returns: <dir>/<key>.state
func FilePath(dir, key string) string {
	return filepath.Join(dir, strings.ReplaceAll(key, string(filepath.Separator), "-")+".state")
}

// SaveCheckpoint atomically writes cp to path with a fresh checksum.
func SaveCheckpoint(cp *Checkpoint, path string) error {
	cp.Version = CurrentVersion

	checksum, err := calculateChecksum(cp)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	cp.Checksum = checksum

	if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create state directory: %w", mkdirErr)
	}

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint: %w", err)
	}
	tempFile := file.Name()
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write temporary checkpoint: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temporary checkpoint: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temporary checkpoint: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads and verifies the checkpoint at path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoCheckpoint, path)
		}
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}

	var cp Checkpoint
	if unmarshalErr := json.Unmarshal(data, &cp); unmarshalErr != nil {
		return nil, fmt.Errorf("checkpoint is corrupted (invalid JSON): %w", unmarshalErr)
	}

	if cp.Version != CurrentVersion {
		return nil, fmt.Errorf("checkpoint version (%d) is incompatible with current version (%d)",
			cp.Version, CurrentVersion)
	}

	calculated, err := calculateChecksum(&cp)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}
	if cp.Checksum != calculated {
		return nil, fmt.Errorf("checkpoint is corrupted (checksum mismatch)")
	}

	return &cp, nil
}

// DeleteCheckpoint removes the checkpoint at path. A missing file is not
// an error.
func DeleteCheckpoint(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// calculateChecksum hashes cp with the checksum field cleared.
func calculateChecksum(cp *Checkpoint) (string, error) {
	c := *cp
	c.Checksum = ""

	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
