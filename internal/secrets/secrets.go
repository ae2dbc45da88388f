// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads registration credentials from a directory of
// plain-text files. Each file in the directory represents one secret: the
// filename is the key name and the file contents (trimmed) are the value.
//
// Supported key files: datacite-user, datacite-password.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doi-jekyll/internal/logging"
	"github.com/pdiddy/doi-jekyll/pkg/types"
)

// Key files read by Credentials.
const (
	UserKey     = "datacite-user"
	PasswordKey = "datacite-password"
)

// DefaultDir is the secrets directory relative to the blog root.
const DefaultDir = ".secrets"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, log logging.Logger) (map[string]string, error) {
	if log == nil {
		log = logging.NoOp()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
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
			log.Warn("could not read secret", "name", name, "error", err.Error())
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Credentials picks the registration account out of loaded secrets.
func Credentials(secrets map[string]string) types.Credentials {
	return types.Credentials{
		User:     secrets[UserKey],
		Password: secrets[PasswordKey],
	}
}
