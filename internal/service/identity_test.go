package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/C4st3ll4n/recipe-api/internal/repository"
	"github.com/C4st3ll4n/recipe-api/internal/repository/memory"
	"github.com/C4st3ll4n/recipe-api/internal/service"
)

func newIdentity() (*service.Identity, *memory.Store) {
	st := memory.New()
	return &service.Identity{
		Users:      st.Users(),
		Tokens:     st.Tokens(),
		BcryptCost: bcrypt.MinCost,
	}, st
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	s, _ := newIdentity()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "cook@example.com", "secret1", "Cook")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsStaff)
	assert.False(t, u.IsSuperuser)
	assert.NotEqual(t, "secret1", u.PasswordHash, "password must not be stored in clear")

	got, err := s.Authenticate(ctx, "cook@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.Authenticate(ctx, "cook@example.com", "wrong-password")
	require.NoError(t, err)
	assert.Nil(t, got, "wrong password is a non-match, not an error")

	got, err = s.Authenticate(ctx, "nobody@example.com", "secret1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	s, _ := newIdentity()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "  Cook@Example.COM ", "secret1", "Cook")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", u.Email)

	// a differently-cased spelling still reaches the same account
	got, err := s.Authenticate(ctx, "COOK@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	// and still collides with it
	_, err = s.CreateUser(ctx, "cook@EXAMPLE.com", "secret1", "Other")
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestCreateUserValidation(t *testing.T) {
	s, _ := newIdentity()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "", "secret1", "")
	var fields service.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "email")

	_, err = s.CreateUser(ctx, "cook@example.com", "pw", "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "password")
}

func TestCreateSuperuser(t *testing.T) {
	s, _ := newIdentity()
	ctx := context.Background()

	u, err := s.CreateSuperuser(ctx, "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
	assert.True(t, u.IsSuperuser)
	assert.True(t, u.IsActive)

	var fields service.FieldErrors
	_, err = s.CreateSuperuser(ctx, "", "secret1")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "email")

	_, err = s.CreateSuperuser(ctx, "admin2@example.com", "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "password")
}

func TestIssueTokenIsStable(t *testing.T) {
	s, _ := newIdentity()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "cook@example.com", "secret1", "Cook")
	require.NoError(t, err)

	first, err := s.IssueToken(ctx, u)
	require.NoError(t, err)
	assert.Len(t, first, 40)

	second, err := s.IssueToken(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, first, second, "re-issuing must hand back the same key")
}

func TestIssueTokenPerUser(t *testing.T) {
	s, _ := newIdentity()
	ctx := context.Background()

	a, err := s.CreateUser(ctx, "a@example.com", "secret1", "A")
	require.NoError(t, err)
	b, err := s.CreateUser(ctx, "b@example.com", "secret1", "B")
	require.NoError(t, err)

	ka, err := s.IssueToken(ctx, a)
	require.NoError(t, err)
	kb, err := s.IssueToken(ctx, b)
	require.NoError(t, err)
	assert.NotEqual(t, ka, kb)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newIdentity()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "cook@example.com", "secret1", "Cook")
	require.NoError(t, err)

	name := "Head Chef"
	pass := "newsecret"
	u, err = s.UpdateProfile(ctx, u, &name, &pass)
	require.NoError(t, err)
	assert.Equal(t, "Head Chef", u.Name)

	got, err := s.Authenticate(ctx, "cook@example.com", "newsecret")
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = s.Authenticate(ctx, "cook@example.com", "secret1")
	require.NoError(t, err)
	assert.Nil(t, got, "old password must stop working")

	short := "pw"
	_, err = s.UpdateProfile(ctx, u, nil, &short)
	var fields service.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "password")
}
