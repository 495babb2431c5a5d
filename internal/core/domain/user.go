package domain

import "github.com/google/uuid"

// User is the authenticated customer making a booking.
type User struct {
	ID uuid.UUID
}
