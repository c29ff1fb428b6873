// Package repository contains data access logic separated from HTTP
// handlers. This file defines error values reused across stores. These
// sentinels let handlers distinguish failure scenarios: ErrNotFound
// covers both genuinely missing rows and rows owned by another user, so
// cross-owner probes cannot tell the two cases apart.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist or belongs to a
// different owner. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating a user with an email that is
// already registered. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
