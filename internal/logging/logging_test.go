// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Plain(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{})

	log.Info("Processing file: orcid/a.xml")
	log.Info("stage timing", zap.String("stage", "transform"), zap.Int64("ms", 12))
	log.Info("config", zap.Bool("verbose", false), zap.String("xslt", ""), zap.Strings("labels", []string{"a", "b"}))
	log.Info("took", zap.Duration("elapsed", 1500*time.Millisecond))
	log.Warn("careful", zap.Error(errors.New("disk full")))
	log.Debug("hidden")

	assert.Equal(t,
		"Processing file: orcid/a.xml\n"+
			"stage timing stage=transform ms=12\n"+
			"config verbose=false xslt=\"\" labels=[a b]\n"+
			"took elapsed=1.5s\n"+
			"WARN careful error=\"disk full\"\n",
		buf.String())
}

func TestNew_PlainFieldQuoting(t *testing.T) {
	tests := []struct {
		name  string
		field zap.Field
		want  string
	}{
		{name: "plain string", field: zap.String("stage", "graph.import"), want: "stage=graph.import"},
		{name: "string with space", field: zap.String("path", "my docs/a.xml"), want: `path="my docs/a.xml"`},
		{name: "empty string", field: zap.String("xslt", ""), want: `xslt=""`},
		{name: "string array", field: zap.Strings("labels", []string{"researcher", "orcid"}), want: "labels=[researcher orcid]"},
		{name: "int array", field: zap.Ints("pages", []int{1, 2, 3}), want: "pages=[1 2 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf, Options{}).Info("entry", tt.field)
			assert.Equal(t, "entry "+tt.want+"\n", buf.String())
		})
	}
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{Verbose: true}).Debug("node", zap.String("key", "r/1"))
	assert.Equal(t, "node key=r/1\n", buf.String())
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{JSON: true}).Info("snapshot resolved", zap.String("snapshot", "2021-01-01"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "snapshot resolved", entry["msg"])
	assert.Equal(t, "2021-01-01", entry["snapshot"])
	assert.Equal(t, "info", entry["level"])
}
