package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furrylink/internal/core/auth"
	"furrylink/internal/domain"
)

func newManager() (*Manager, *MemoryStore) {
	st := NewMemoryStore()
	return NewManager(st, &auth.JWTer{Secret: []byte("s"), Issuer: "test", TTL: time.Hour}, nil), st
}

func TestManager_CreateCurrentDestroy(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()

	tok, err := m.Create(ctx, 7)
	require.NoError(t, err)

	uid, ok := m.Current(ctx, tok)
	require.True(t, ok)
	assert.Equal(t, uint(7), uid)

	require.NoError(t, m.Destroy(ctx, tok))
	_, ok = m.Current(ctx, tok)
	assert.False(t, ok)

	assert.ErrorIs(t, m.Destroy(ctx, tok), domain.ErrUnauthenticated)
}

func TestManager_CurrentFailsSoft(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, ok := m.Current(ctx, tok)
		assert.False(t, ok, tok)
	}

	// 签名有效但服务端无此会话
	forged, err := m.signer.Issue("unknown-sid", 1)
	require.NoError(t, err)
	_, ok := m.Current(ctx, forged)
	assert.False(t, ok)
}

func TestManager_UIDMismatchRejected(t *testing.T) {
	ctx := context.Background()
	m, st := newManager()

	require.NoError(t, st.Save(ctx, "sid", 1, time.Hour))
	tok, err := m.signer.Issue("sid", 2)
	require.NoError(t, err)
	_, ok := m.Current(ctx, tok)
	assert.False(t, ok)
}

func TestManager_DestroyWithoutSession(t *testing.T) {
	m, _ := newManager()
	assert.ErrorIs(t, m.Destroy(context.Background(), ""), domain.ErrUnauthenticated)
	assert.ErrorIs(t, m.Destroy(context.Background(), "junk"), domain.ErrUnauthenticated)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()

	a, err := m.Create(ctx, 1)
	require.NoError(t, err)
	b, err := m.Create(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, a))
	uid, ok := m.Current(ctx, b)
	assert.True(t, ok)
	assert.Equal(t, uint(1), uid)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	require.NoError(t, st.Save(ctx, "sid", 3, time.Minute))
	uid, ok, err := st.Get(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(3), uid)

	now = now.Add(2 * time.Minute)
	_, ok, err = st.Get(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok)

	existed, err := st.Delete(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, existed)
}
