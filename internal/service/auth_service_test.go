package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furrylink/internal/domain"
	"furrylink/internal/policy"
	"furrylink/pkg/utils"
)

func TestSignup_HashesPasswordAndLogsIn(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()

	u, tok, err := f.auth.Signup(ctx, SignupInput{
		Email: "shelter@x.com", Telephone: "555-0100", Password: "s3cret",
		AnimalShelter: true, OrganizationName: strp("Happy Paws"),
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Nil(t, u.FirstName)
	assert.Empty(t, u.PetsAdded)
	assert.NotNil(t, u.PetsAdded)

	stored, err := f.store.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.True(t, utils.CheckPassword("s3cret", stored.PasswordHash))

	uid, ok := f.sessions.Current(ctx, tok)
	assert.True(t, ok)
	assert.Equal(t, u.ID, uid)
}

func TestSignup_Duplicates(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	f.signup(t, "a@x.com", "1")

	_, _, err := f.auth.Signup(ctx, SignupInput{Email: "a@x.com", Telephone: "2", Password: "p"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "User already exists.")

	_, _, err = f.auth.Signup(ctx, SignupInput{Email: "b@x.com", Telephone: "1", Password: "p"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, _, err = f.auth.Signup(ctx, SignupInput{Email: "c@x.com", Telephone: "3"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSignup_PasswordTooLong(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()

	// 40 个字符、80 字节
	_, _, err := f.auth.Signup(ctx, SignupInput{Email: "a@x.com", Telephone: "1", Password: strings.Repeat("é", 40)})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.EqualError(t, err, "Password must be at most 72 bytes.")

	u, err := f.store.Users().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	_, _, err = f.auth.Signup(ctx, SignupInput{Email: "a@x.com", Telephone: "1", Password: strings.Repeat("x", 72)})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	a, _ := f.signup(t, "a@x.com", "1")

	u, tok, err := f.auth.Login(ctx, "a@x.com", "pw-a@x.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, u.ID)
	uid, ok := f.sessions.Current(ctx, tok)
	assert.True(t, ok)
	assert.Equal(t, a.ID, uid)

	_, tok, err = f.auth.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.EqualError(t, err, "Incorrect password.")
	assert.Empty(t, tok)

	_, _, err = f.auth.Login(ctx, "nobody@x.com", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "User does not exist.")
}

func TestCurrentAndLogout(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	a, tok := f.signup(t, "a@x.com", "1")

	got, err := f.auth.Current(ctx, who(a))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = f.auth.Current(ctx, domain.Anonymous())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = f.auth.Current(ctx, domain.Identity{UserID: 999})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	require.NoError(t, f.auth.Logout(ctx, tok))
	_, ok := f.sessions.Current(ctx, tok)
	assert.False(t, ok)
	assert.ErrorIs(t, f.auth.Logout(ctx, tok), domain.ErrUnauthenticated)
	assert.ErrorIs(t, f.auth.Logout(ctx, ""), domain.ErrUnauthenticated)
}
