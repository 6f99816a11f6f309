// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap loggers used for diagnostics.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Options select the logger's encoding and level.
type Options struct {
	// Verbose enables debug entries.
	Verbose bool
	// JSON switches from plain lines to zap's production JSON encoding.
	JSON bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *zap.Logger {
	level := zap.InfoLevel
	if opts.Verbose {
		level = zap.DebugLevel
	}

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		enc = newPlainEncoder()
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

var pool = buffer.NewPool()

// plainEncoder prints the message followed by key=value fields:
//
//	Processing file: orcid/2021-01-01/a.xml
//	stage timing stage=transform ms=12
//
// Fields attached with Logger.With are not rendered.
type plainEncoder struct {
	zapcore.Encoder
}

func newPlainEncoder() *plainEncoder {
	return &plainEncoder{Encoder: zapcore.NewJSONEncoder(zapcore.EncoderConfig{})}
}

func (enc *plainEncoder) Clone() zapcore.Encoder {
	return &plainEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *plainEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := pool.Get()

	if ent.Level >= zapcore.WarnLevel {
		line.AppendString(ent.Level.CapitalString())
		line.AppendString(" ")
	}
	line.AppendString(ent.Message)

	for _, f := range fields {
		v, ok := fieldValue(f)
		if !ok {
			continue
		}
		line.AppendString(" ")
		line.AppendString(f.Key)
		line.AppendString("=")
		line.AppendString(v)
	}

	line.AppendString("\n")
	return line, nil
}

// fieldValue renders f for a key=value pair. Scalar strings are quoted when
// they hold spaces or separators; arrays and objects print bare, e.g. [a b].
func fieldValue(f zapcore.Field) (string, bool) {
	switch f.Type {
	case zapcore.StringType:
		return quote(f.String), true
	case zapcore.BoolType:
		return fmt.Sprint(f.Integer == 1), true
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return fmt.Sprint(f.Integer), true
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprint(uint64(f.Integer)), true
	case zapcore.DurationType:
		return time.Duration(f.Integer).String(), true
	case zapcore.ErrorType:
		return quote(fmt.Sprint(f.Interface)), true
	case zapcore.SkipType:
		return "", false
	}

	// Arrays, objects and reflected values go through a map encoder.
	m := zapcore.NewMapObjectEncoder()
	f.AddTo(m)
	v, ok := m.Fields[f.Key]
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
