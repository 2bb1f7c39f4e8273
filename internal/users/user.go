package users

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")
)

// User is the local record for an identity-provider subject.
type User struct {
	ID          uuid.UUID `db:"user_id"`
	SubjectID   string    `db:"subject_id"`
	Email       *string   `db:"email"`
	DisplayName *string   `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
}

// Profile carries the verified claims used to provision a user.
type Profile struct {
	SubjectID   string
	Email       string
	DisplayName string
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
