package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quarry/internal/adapters/logger"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Golden(t *testing.T) {
	tests := []struct {
		name       string
		log        func(*logger.Logger)
		goldenName string
	}{
		{
			name:       "info",
			log:        func(l *logger.Logger) { l.Info("starting launch") },
			goldenName: "info_basic",
		},
		{
			name:       "info multiline",
			log:        func(l *logger.Logger) { l.Info("line1\nline2") },
			goldenName: "info_multiline",
		},
		{
			name:       "warn",
			log:        func(l *logger.Logger) { l.Warn("mirror unreachable, trying fallback") },
			goldenName: "warn_basic",
		},
		{
			name:       "plain error",
			log:        func(l *logger.Logger) { l.Error(errors.New("boom")) },
			goldenName: "error_plain",
		},
		{
			name: "joined error",
			log: func(l *logger.Logger) {
				l.Error(errors.Join(
					errors.New("launch failed"),
					errors.New("version manifest unavailable"),
					errors.New("dial tcp: connection refused"),
				))
			},
			goldenName: "error_joined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_ErrorZerrChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(zerr.Wrap(errors.New("connection refused"), "download failed"))

	out := buf.String()
	assert.Contains(t, out, "Error: download failed")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ connection refused")
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("hello")
	lg.Error(errors.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "hello", info["msg"])

	var failure map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &failure))
	assert.Equal(t, "ERROR", failure["level"])
	assert.Equal(t, "boom", failure["error"])
}

func TestLogger_SetJSONKeepsOutput(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.SetJSON(false)

	lg.Info("back to pretty")
	assert.Equal(t, "back to pretty\n", buf.String())
}

func TestCollectErrorEntries(t *testing.T) {
	err := errors.Join(errors.New("outer"), zerr.Wrap(errors.New("root cause"), "middle"))

	entries := logger.CollectErrorEntries(err)
	assert.Equal(t, []logger.ErrorEntry{
		{Message: "outer"},
		{Message: "middle"},
		{Message: "root cause"},
	}, entries)

	formatted := logger.FormatErrorEntries([]logger.ErrorEntry{
		{Message: "first\nsecond"},
		{Message: "cause"},
	})
	assert.Equal(t, "Error: first\n       second\n\n  Caused by:\n    → cause", formatted)
}

func TestCollectErrorEntries_Metadata(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []logger.ErrorEntry
	}{
		{
			name: "metadata on sentinel moves to sentinel entry",
			err:  domain.With(domain.ErrVersionNotFound, "version", "1.20.1"),
			want: []logger.ErrorEntry{
				{Message: domain.ErrVersionNotFound.Error(), Metadata: map[string]any{"version": "1.20.1"}},
			},
		},
		{
			name: "metadata on join moves to first member",
			err: zerr.With(
				errors.Join(domain.ErrRuntimeProvisionFailed, errors.New("http 503")),
				"java_major", 17,
			),
			want: []logger.ErrorEntry{
				{Message: domain.ErrRuntimeProvisionFailed.Error(), Metadata: map[string]any{"java_major": 17}},
				{Message: "http 503"},
			},
		},
		{
			name: "message link keeps its own metadata",
			err:  zerr.With(zerr.Wrap(errors.New("eof"), "read index"), "path", "/tmp/x"),
			want: []logger.ErrorEntry{
				{Message: "read index", Metadata: map[string]any{"path": "/tmp/x"}},
				{Message: "eof"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.CollectErrorEntries(tt.err))
		})
	}
}

func TestFormatErrorEntries_Metadata(t *testing.T) {
	formatted := logger.FormatErrorEntries([]logger.ErrorEntry{
		{Message: "unknown setting", Metadata: map[string]any{"key": "memory", "value": "lots"}},
		{Message: "cause", Metadata: map[string]any{"line": 3}},
	})

	assert.Equal(t, "Error: unknown setting\n"+
		"       key: memory\n"+
		"       value: lots\n"+
		"\n  Caused by:\n"+
		"    → cause\n"+
		"      line: 3", formatted)
}
