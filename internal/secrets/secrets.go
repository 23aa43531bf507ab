// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the Datalab API key from the environment or
// from a directory of plain-text files. Each file in the directory
// represents one secret: the filename is the key name and the file
// contents (trimmed) are the value.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvAPIKey is the primary environment variable for the Datalab key.
	EnvAPIKey = "DATALAB_API_KEY"

	// EnvLegacyAPIKey is the pre-rename variable still honored for
	// existing setups.
	EnvLegacyAPIKey = "MARKER_PDF_KEY"

	// apiKeyFile is the key filename looked up in the secrets directory.
	apiKeyFile = "datalab-api-key"

	// placeholder is the template value shipped in example env files.
	// Treated the same as an unset key.
	placeholder = "your_api_key_here"
)

// ErrNoAPIKey is returned when no usable API key can be found.
var ErrNoAPIKey = errors.New("datalab API key not configured")

// Remediation is printed alongside ErrNoAPIKey so the user knows how
// to fix their setup.
const Remediation = `Set your Datalab API credentials with either:
    DATALAB_API_KEY=your_actual_api_key_here
or the legacy variable:
    MARKER_PDF_KEY=your_actual_api_key_here
or place the key in .secrets/datalab-api-key.`

// ResolveAPIKey returns the Datalab API key, checking the primary
// environment variable, then the legacy alias, then secretsDir. A
// missing key or the documented placeholder value yields ErrNoAPIKey.
func ResolveAPIKey(secretsDir string) (string, error) {
	for _, env := range []string{EnvAPIKey, EnvLegacyAPIKey} {
		if key := strings.TrimSpace(os.Getenv(env)); usable(key) {
			return key, nil
		}
	}

	loaded, err := Load(secretsDir)
	if err != nil {
		return "", err
	}
	if key := loaded[apiKeyFile]; usable(key) {
		return key, nil
	}

	return "", ErrNoAPIKey
}

func usable(key string) bool {
	return key != "" && key != placeholder
}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory or missing files are not errors; Load
// returns an empty map. Unreadable files produce a warning on stderr
// but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	loaded := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			loaded[name] = value
		}
	}

	return loaded, nil
}
