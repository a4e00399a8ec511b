package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageID(t *testing.T) {
	oid, err := ParseImageID("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", oid.Hex())

	oid, err = ParseImageID("507F1F77BCF86CD799439011")
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", oid.Hex())

	for _, bad := range []string{"", "zzz", "507f1f77bcf86cd79943901", "507f1f77bcf86cd7994390111", "507f1f77bcf86cd79943901g"} {
		_, err := ParseImageID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestValidateImagePayload(t *testing.T) {
	assert.ErrorIs(t, ValidateImagePayload("", 0), ErrImageRequired)
	assert.NoError(t, ValidateImagePayload("aGVsbG8=", 0))
	assert.ErrorIs(t, ValidateImagePayload(strings.Repeat("a", 11), 10), ErrImageTooLarge)
	assert.NoError(t, ValidateImagePayload(strings.Repeat("a", 10), 10))
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("media host upload", cause)

	var up *UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, "media host upload", up.Op)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "media host upload: connection refused")
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(true, "debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger(false, "loud")
	assert.Error(t, err)
}
