package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"furrylink/internal/core/auth"
	"furrylink/internal/core/session"
	"furrylink/internal/core/storage"
	"furrylink/internal/domain"
	"furrylink/internal/policy"
	"furrylink/internal/repo/memory"
)

type fixture struct {
	store    *memory.Store
	sessions *session.Manager
	files    *storage.Local
	auth     *AuthService
	users    *UserService
	pets     *PetService
	reviews  *ReviewService
	apps     *ApplicationService
}

func newFixture(t *testing.T, opt policy.Options) *fixture {
	t.Helper()
	log := zap.NewNop()
	st := memory.NewStore()
	mgr := session.NewManager(session.NewMemoryStore(), &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}, log)
	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	pol := policy.New(opt)

	return &fixture{
		store:    st,
		sessions: mgr,
		files:    files,
		auth:     NewAuthService(st, mgr, log),
		users:    NewUserService(st, pol, nil, log),
		pets:     NewPetService(st, files, nil, pol, PetOptions{}, log),
		reviews:  NewReviewService(st, pol, log),
		apps:     NewApplicationService(st, pol, log),
	}
}

func strp(s string) *string { return &s }

func (f *fixture) signup(t *testing.T, email, tel string) (*UserDetail, string) {
	t.Helper()
	u, tok, err := f.auth.Signup(context.Background(), SignupInput{
		FirstName: strp("Ann"), LastName: strp("Lee"),
		Email: email, Telephone: tel, Password: "pw-" + email,
	})
	require.NoError(t, err)
	return u, tok
}

func who(u *UserDetail) domain.Identity { return domain.Identity{UserID: u.ID} }

func photo(name string) *Photo {
	body := []byte("\x89PNG fake image")
	return &Photo{Filename: name, Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func (f *fixture) listPet(t *testing.T, owner *UserDetail) *PetView {
	t.Helper()
	p, err := f.pets.Create(context.Background(), who(owner), NewPet{
		Type: "Dog", Breed: "Beagle", Age: "2", Price: "100", Photo: photo("rex.png"),
	})
	require.NoError(t, err)
	return p
}
