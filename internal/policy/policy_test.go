package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"furrylink/internal/domain"
)

var (
	owner     = domain.Identity{UserID: 1}
	applicant = domain.Identity{UserID: 2}
	stranger  = domain.Identity{UserID: 3}
)

func TestAuthenticatedOnlyOperations(t *testing.T) {
	p := New(Options{})
	checks := map[string]func(domain.Identity) error{
		"create pet":        p.CanCreatePet,
		"post review":       p.CanPostReview,
		"list applications": p.CanListApplications,
		"apply":             p.CanApply,
	}
	for name, fn := range checks {
		assert.ErrorIs(t, fn(domain.Anonymous()), domain.ErrUnauthorized, name)
		assert.NoError(t, fn(stranger), name)
	}
}

func TestCanSetApplicationStatus(t *testing.T) {
	p := New(Options{})
	pet := &domain.Pet{ID: 10, UserID: owner.UserID}
	app := &domain.AdoptionApplication{ID: 5, PetID: pet.ID, UserID: applicant.UserID}

	assert.NoError(t, p.CanSetApplicationStatus(owner, app, pet))
	assert.ErrorIs(t, p.CanSetApplicationStatus(applicant, app, pet), domain.ErrUnauthorized)
	assert.ErrorIs(t, p.CanSetApplicationStatus(stranger, app, pet), domain.ErrUnauthorized)
	assert.ErrorIs(t, p.CanSetApplicationStatus(domain.Anonymous(), app, pet), domain.ErrUnauthorized)
	assert.ErrorIs(t, p.CanSetApplicationStatus(owner, nil, pet), domain.ErrNotFound)
	assert.ErrorIs(t, p.CanSetApplicationStatus(owner, app, nil), domain.ErrUnauthorized)
}

func TestCanDeletePet(t *testing.T) {
	pet := &domain.Pet{ID: 10, UserID: owner.UserID}

	loose := New(Options{})
	assert.NoError(t, loose.CanDeletePet(domain.Anonymous(), pet))
	assert.NoError(t, loose.CanDeletePet(stranger, pet))
	assert.ErrorIs(t, loose.CanDeletePet(owner, nil), domain.ErrNotFound)

	strict := New(Options{StrictOwnership: true})
	assert.NoError(t, strict.CanDeletePet(owner, pet))
	assert.ErrorIs(t, strict.CanDeletePet(stranger, pet), domain.ErrUnauthorized)
	assert.ErrorIs(t, strict.CanDeletePet(domain.Anonymous(), pet), domain.ErrUnauthorized)
}

func TestCanPatchUser(t *testing.T) {
	u := &domain.User{ID: owner.UserID}

	assert.NoError(t, New(Options{}).CanPatchUser(domain.Anonymous(), u))
	assert.ErrorIs(t, New(Options{}).CanPatchUser(owner, nil), domain.ErrNotFound)

	strict := New(Options{StrictOwnership: true})
	assert.NoError(t, strict.CanPatchUser(owner, u))
	assert.ErrorIs(t, strict.CanPatchUser(stranger, u), domain.ErrUnauthorized)
}
