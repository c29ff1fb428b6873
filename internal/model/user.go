package model

import (
	"strings"
	"time"
)

// User represents an application user record as stored in the `users`
// table. Accounts are identified by email instead of a username. The
// json tags are omitted because these structs are used internally by
// the repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, normalized email address.
//  Name         – display name, may be empty.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account is active.
//  IsStaff      – whether the account may access staff surfaces.
//  IsSuperuser  – whether the account has every permission.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	IsStaff      bool      // users.is_staff
	IsSuperuser  bool      // users.is_superuser
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// AuthToken models a row in the `auth_tokens` table. Each user holds at
// most one token at a time; issuing a token for a user who already has
// one returns the existing key unchanged. The key is stored raw so that
// repeated issuance can hand back the identical credential.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token (unique).
//  Key       – opaque random credential presented by clients.
//  CreatedAt – timestamp of creation.
type AuthToken struct {
	ID        uint64    // auth_tokens.id
	UserID    uint64    // auth_tokens.user_id
	Key       string    // auth_tokens.token
	CreatedAt time.Time // auth_tokens.created_at
}

// NormalizeEmail trims surrounding whitespace and lowercases an email
// address so that lookups and uniqueness checks are case-insensitive.
// Normalization is idempotent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
