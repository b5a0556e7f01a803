package services

import "bankhub/internal/core/domain"

// Actor identifies the authenticated principal performing an operation.
// Handlers build it from the validated token claims; services check it
// against the access policy before any mutation.
type Actor struct {
	UserID uint
	Role   domain.Role
}
