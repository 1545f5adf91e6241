package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestWith_KeepsSentinelIdentity(t *testing.T) {
	err := zerr.With(domain.With(domain.ErrVersionNotFound, "version", "1.20.1"), "source", "list")

	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
	assert.Equal(t, domain.ErrVersionNotFound.Error(), err.Error())

	var z *zerr.Error
	assert.True(t, errors.As(err, &z))
	assert.Equal(t, map[string]any{"version": "1.20.1", "source": "list"}, z.Metadata())
}

func TestWith_SentinelCopyLosesIdentity(t *testing.T) {
	// zerr.With on a sentinel copies it, which is why domain.With wraps first.
	assert.NotErrorIs(t, zerr.With(domain.ErrVersionNotFound, "version", "x"), domain.ErrVersionNotFound)
}
