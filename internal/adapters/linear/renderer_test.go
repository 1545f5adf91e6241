package linear_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quarry/internal/adapters/linear"
)

func TestRenderer_StageLifecycle(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	require.NoError(t, r.Start(context.Background()))

	r.OnPlanEmit([]string{"directories", "manifest"})
	assert.Contains(t, stderr.String(), "Running 2 stage(s): directories → manifest")

	start := time.Now()
	r.OnTaskStart("span1", "", "manifest", start)
	assert.Contains(t, stderr.String(), "[manifest] Starting...")

	r.OnTaskLog("span1", []byte("Fetching version info...\n"))
	r.OnTaskLog("span1", []byte("Resolved 1.20.1\n"))
	assert.Equal(t, "[manifest] Fetching version info...\n[manifest] Resolved 1.20.1\n", stdout.String())

	r.OnTaskComplete("span1", start.Add(1500*time.Millisecond), nil)
	assert.Contains(t, stderr.String(), "[manifest] ✓ Completed in 1.5s")

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())
}

func TestRenderer_PartialLines(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	r.OnTaskStart("span1", "", "assets", time.Now())
	r.OnTaskLog("span1", []byte("Downloading "))
	assert.Empty(t, stdout.String())

	r.OnTaskLog("span1", []byte("assets (5/10)...\nDownloading assets"))
	assert.Equal(t, "[assets] Downloading assets (5/10)...\n", stdout.String())

	r.OnTaskLog("span1", []byte(" (10/10)..."))
	require.NoError(t, r.Stop())
	assert.Equal(t, "[assets] Downloading assets (5/10)...\n[assets] Downloading assets (10/10)...\n", stdout.String())
}

func TestRenderer_Failure(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	start := time.Now()
	r.OnTaskStart("span1", "", "libraries", start)
	r.OnTaskLog("span1", []byte("Error: download failed"))
	r.OnTaskComplete("span1", start.Add(time.Second), errors.New("download failed"))

	assert.Equal(t, "[libraries] Error: download failed\n", stdout.String())
	assert.Contains(t, stderr.String(), "[libraries] ✗ Failed after 1s: download failed")
}

func TestRenderer_UnknownSpanIsIgnored(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	r.OnTaskLog("missing", []byte("dropped\n"))
	r.OnTaskComplete("missing", time.Now(), nil)

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRenderer_EmptyLinesAreSkipped(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	r.OnTaskStart("span1", "", "java", time.Now())
	r.OnTaskLog("span1", []byte("\n\r\nready\n"))
	assert.Equal(t, "[java] ready\n", stdout.String())
}
