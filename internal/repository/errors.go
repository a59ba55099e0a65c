// Package repository contains data access logic separated from HTTP
// handlers.  This file defines sentinel error values reused across the
// repositories so that handlers can translate failure scenarios into the
// right user-facing notice: a duplicate plate redisplays the form with a
// danger flash, a missing row becomes a 404, and so on.
package repository

import "errors"

// ErrNotFound is returned when a referenced customer, vehicle, visit or
// user does not exist.  Handlers translate this into a 404 response.
var ErrNotFound = errors.New("record not found")

// ErrPlateExists is returned when creating or updating a vehicle would
// violate the unique plate constraint.
var ErrPlateExists = errors.New("plate already exists")

// ErrUsernameExists is returned when creating a user with a taken username.
var ErrUsernameExists = errors.New("username already exists")
