// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rg-import/internal/ingesterr"
	"github.com/pdiddy/rg-import/internal/versions"
	"github.com/pdiddy/rg-import/pkg/types"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.SourceConfig
		want    Spec
		wantErr bool
	}{
		{
			name: "remote pair",
			cfg:  types.SourceConfig{Bucket: "rg-harvest", Prefix: "orcid"},
			want: Spec{Kind: KindRemote, Bucket: "rg-harvest", Prefix: "orcid"},
		},
		{
			name: "local folder",
			cfg:  types.SourceConfig{XMLFolder: "/data/xml"},
			want: Spec{Kind: KindLocal, Folder: "/data/xml"},
		},
		{
			name:    "neither",
			cfg:     types.SourceConfig{},
			wantErr: true,
		},
		{
			name:    "both",
			cfg:     types.SourceConfig{Bucket: "b", Prefix: "p", XMLFolder: "/data"},
			wantErr: true,
		},
		{
			name:    "bucket without prefix",
			cfg:     types.SourceConfig{Bucket: "b", XMLFolder: "/data"},
			wantErr: true,
		},
		{
			name:    "prefix without bucket",
			cfg:     types.SourceConfig{Prefix: "p"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ingesterr.ErrConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	store := versions.NewStore(t.TempDir())

	d, err := New(Spec{Kind: KindLocal, Folder: "/data/xml"}, Options{})
	require.NoError(t, err)
	assert.IsType(t, &LocalWalker{}, d)

	remote := Spec{Kind: KindRemote, Bucket: "b", Prefix: "p"}
	d, err = New(remote, Options{Client: &fakeS3{}, Versions: store, SourceName: "orcid"})
	require.NoError(t, err)
	assert.IsType(t, &SnapshotLister{}, d)

	for name, opts := range map[string]Options{
		"no client":      {Versions: store, SourceName: "orcid"},
		"no source name": {Client: &fakeS3{}, Versions: store},
		"no versions":    {Client: &fakeS3{}, SourceName: "orcid"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(remote, opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ingesterr.ErrConfiguration))
		})
	}

	_, err = New(Spec{}, Options{})
	assert.True(t, errors.Is(err, ingesterr.ErrConfiguration))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "local", KindLocal.String())
	assert.Equal(t, "s3", KindRemote.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
