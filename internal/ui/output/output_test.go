package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/quarry/internal/ui/output"
)

func TestColorProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())
	assert.Equal(t, termenv.Ascii, output.ColorProfileANSI())
}

func TestColorProfileANSI(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, output.ColorProfileANSI())
}

func TestNew_WritesToWriter(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := output.New(&buf)

	_, _ = out.WriteString(out.String("plain").Bold().String())
	assert.Equal(t, "plain", buf.String())
}

func TestNewWithProfile_NilWriter(t *testing.T) {
	assert.NotNil(t, output.NewWithProfile(nil, output.ColorProfileANSI))
}
