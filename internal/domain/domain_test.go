package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApplicationStatus(t *testing.T) {
	for _, s := range []string{"Pending", "Approved", "Rejected"} {
		st, err := ParseApplicationStatus(s)
		require.NoError(t, err)
		assert.Equal(t, ApplicationStatus(s), st)
	}
	for _, s := range []string{"", "approved", "Adopted", " Pending"} {
		_, err := ParseApplicationStatus(s)
		assert.ErrorIs(t, err, ErrInvalidArgument, s)
	}
}

func TestError_UnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", &Error{Kind: ErrConflict, Msg: "User already exists.", Err: cause})

	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "User already exists.", de.Error())
}

func TestError_MessageFallback(t *testing.T) {
	assert.Equal(t, "not found", (&Error{Kind: ErrNotFound}).Error())
	assert.Equal(t, "boom", (&Error{Kind: ErrNotFound, Err: errors.New("boom")}).Error())
}

func TestIdentity(t *testing.T) {
	assert.False(t, Anonymous().Authenticated())
	assert.True(t, Identity{UserID: 7}.Authenticated())
}
