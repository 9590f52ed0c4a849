// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads NCBI credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key and the
// trimmed contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filenames the crawler looks for in the secrets directory.
const (
	KeyEmail  = "ncbi-email"
	KeyAPIKey = "ncbi-api-key"
)

// Secrets maps secret filenames to their values.
type Secrets map[string]string

// Email returns the NCBI contact email, or the empty string.
func (s Secrets) Email() string { return s[KeyEmail] }

// APIKey returns the NCBI API key, or the empty string.
func (s Secrets) APIKey() string { return s[KeyAPIKey] }

// Load reads every file in dir into a Secrets map. A missing directory is
// not an error: the crawler runs without credentials, just rate-limited
// harder by NCBI. Unreadable files produce a warning on stderr but do not
// abort, and dotfiles and subdirectories are skipped.
func Load(dir string) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
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
			secrets[name] = value
		}
	}

	return secrets, nil
}
