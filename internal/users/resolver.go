package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Store is what the Resolver needs from persistence.
type Store interface {
	FindBySubject(ctx context.Context, subjectID string) (User, error)
	Insert(ctx context.Context, p Profile) (User, error)
}

// Resolver maps verified subjects to local user ids, creating the row on
// first sight.
type Resolver struct {
	store Store
	log   *slog.Logger
}

func NewResolver(store Store, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{store: store, log: log}
}

// Resolve returns the user id for p.SubjectID. Two first-time calls racing on
// the same subject both end up with the single row the unique constraint
// allows: the loser of the insert re-reads.
func (r *Resolver) Resolve(ctx context.Context, p Profile) (uuid.UUID, error) {
	if p.SubjectID == "" {
		return uuid.Nil, errors.New("empty subject id")
	}

	u, err := r.store.FindBySubject(ctx, p.SubjectID)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return uuid.Nil, fmt.Errorf("lookup user: %w", err)
	}

	u, err = r.store.Insert(ctx, p)
	switch {
	case err == nil:
		r.log.Info("user provisioned", "user_id", u.ID)
		return u.ID, nil
	case errors.Is(err, ErrDuplicate):
		u, err = r.store.FindBySubject(ctx, p.SubjectID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("re-read user: %w", err)
		}
		return u.ID, nil
	default:
		return uuid.Nil, fmt.Errorf("create user: %w", err)
	}
}
