// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Recognized key files: aws-access-key-id, aws-secret-access-key, aws-session-token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	KeyAWSAccessKeyID     = "aws-access-key-id"
	KeyAWSSecretAccessKey = "aws-secret-access-key"
	KeyAWSSessionToken    = "aws-session-token"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrapf(err, "reading secrets directory %s", dir)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// AWSCredentials are static object-storage credentials.
type AWSCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// AWS extracts static credentials from loaded secrets. It returns nil when no
// key id or secret is present, so the SDK's default chain applies. Having only
// one half of the pair is an error.
func AWS(secrets map[string]string) (*AWSCredentials, error) {
	id := secrets[KeyAWSAccessKeyID]
	key := secrets[KeyAWSSecretAccessKey]
	if id == "" && key == "" {
		return nil, nil
	}
	if id == "" || key == "" {
		return nil, errors.Newf("both %s and %s are required for static AWS credentials", KeyAWSAccessKeyID, KeyAWSSecretAccessKey)
	}
	return &AWSCredentials{
		AccessKeyID:     id,
		SecretAccessKey: key,
		SessionToken:    secrets[KeyAWSSessionToken],
	}, nil
}
