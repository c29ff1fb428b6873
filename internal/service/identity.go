// Package service implements domain operations that sit between the
// HTTP handlers and the stores. Identity covers account creation,
// credential verification, token issuance and profile updates.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/C4st3ll4n/recipe-api/internal/model"
	"github.com/C4st3ll4n/recipe-api/internal/repository"
	"github.com/C4st3ll4n/recipe-api/internal/utils"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 5

// FieldErrors is a validation failure carrying one message per field.
// Handlers serialize it as the body of a 400 response.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// Identity bundles the stores and settings behind the account
// operations. All methods take the subject explicitly; there is no
// ambient current-user state.
type Identity struct {
	Users      repository.UserStore
	Tokens     repository.TokenStore
	BcryptCost int
}

// CreateUser registers an active, non-staff account. The email is
// normalized and the password stored only as a bcrypt hash.
func (s *Identity) CreateUser(ctx context.Context, email, password, name string) (*model.User, error) {
	fields := FieldErrors{}
	email = model.NormalizeEmail(email)
	if email == "" {
		fields["email"] = "email is required"
	}
	if len(password) < MinPasswordLength {
		fields["password"] = "password must be at least 5 characters"
	}
	if len(fields) > 0 {
		return nil, fields
	}

	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateSuperuser registers an account with staff and superuser flags
// set. Both email and password are mandatory.
func (s *Identity) CreateSuperuser(ctx context.Context, email, password string) (*model.User, error) {
	fields := FieldErrors{}
	email = model.NormalizeEmail(email)
	if email == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	} else if len(password) < MinPasswordLength {
		fields["password"] = "password must be at least 5 characters"
	}
	if len(fields) > 0 {
		return nil, fields
	}

	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the matching active user when the password
// verifies against the stored hash. A wrong password, unknown email or
// inactive account yields (nil, nil): no match is a result, not an
// error, and the caller decides how to surface it.
func (s *Identity) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.Users.GetByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, nil
	}
	return u, nil
}

// IssueToken returns the user's opaque API token, creating one on first
// use. Issuing again for the same user hands back the identical key
// until the token is invalidated.
func (s *Identity) IssueToken(ctx context.Context, user *model.User) (string, error) {
	if tok, err := s.Tokens.GetByUser(ctx, user.ID); err == nil {
		return tok.Key, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	key, err := utils.NewTokenKey()
	if err != nil {
		return "", err
	}
	tok := &model.AuthToken{UserID: user.ID, Key: key}
	if err := s.Tokens.Create(ctx, tok); err != nil {
		return "", err
	}
	return key, nil
}

// UpdateProfile changes the user's name and/or password. Nil pointers
// leave the corresponding field untouched; email is immutable through
// this path.
func (s *Identity) UpdateProfile(ctx context.Context, user *model.User, name, password *string) (*model.User, error) {
	if name != nil {
		user.Name = *name
	}
	if password != nil {
		if len(*password) < MinPasswordLength {
			return nil, FieldErrors{"password": "password must be at least 5 characters"}
		}
		hash, err := utils.HashPassword(*password, s.BcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
