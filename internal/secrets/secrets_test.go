// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyAWSAccessKeyID, "  AKIAEXAMPLE  \n")
				writeFile(t, dir, KeyAWSSecretAccessKey, "wJalrXUtnFEMI\n")
				return dir
			},
			want: map[string]string{
				KeyAWSAccessKeyID:     "AKIAEXAMPLE",
				KeyAWSSecretAccessKey: "wJalrXUtnFEMI",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files and dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyAWSSessionToken, "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, KeyAWSAccessKeyID, "AKIA")
				return dir
			},
			want: map[string]string{
				KeyAWSAccessKeyID: "AKIA",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyAWSAccessKeyID, "AKIA")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				KeyAWSAccessKeyID: "AKIA",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAWS(t *testing.T) {
	tests := []struct {
		name    string
		secrets map[string]string
		want    *AWSCredentials
		wantErr bool
	}{
		{
			name:    "no credentials falls back to default chain",
			secrets: map[string]string{},
		},
		{
			name: "full static credentials",
			secrets: map[string]string{
				KeyAWSAccessKeyID:     "AKIA",
				KeyAWSSecretAccessKey: "secret",
				KeyAWSSessionToken:    "token",
			},
			want: &AWSCredentials{AccessKeyID: "AKIA", SecretAccessKey: "secret", SessionToken: "token"},
		},
		{
			name:    "key id without secret",
			secrets: map[string]string{KeyAWSAccessKeyID: "AKIA"},
			wantErr: true,
		},
		{
			name:    "secret without key id",
			secrets: map[string]string{KeyAWSSecretAccessKey: "secret"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AWS(tt.secrets)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
