package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/quarry/internal/adapters/detector"
)

func TestDetectEnvironment_CIForcesLinear(t *testing.T) {
	for _, v := range []string{"true", "1"} {
		t.Run("CI="+v, func(t *testing.T) {
			t.Setenv("CI", v)
			assert.Equal(t, detector.ModeLinear, detector.DetectEnvironment())
		})
	}
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name string
		auto detector.OutputMode
		flag string
		want detector.OutputMode
	}{
		{"empty keeps detection", detector.ModeTUI, "", detector.ModeTUI},
		{"auto keeps detection", detector.ModeLinear, "auto", detector.ModeLinear},
		{"tui forces tui", detector.ModeLinear, "tui", detector.ModeTUI},
		{"linear forces linear", detector.ModeTUI, "linear", detector.ModeLinear},
		{"ci forces linear", detector.ModeTUI, "ci", detector.ModeLinear},
		{"unknown keeps detection", detector.ModeTUI, "fancy", detector.ModeTUI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveMode(tt.auto, tt.flag))
		})
	}
}
