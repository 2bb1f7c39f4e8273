package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const userColumns = `user_id, subject_id, email, display_name, created_at`

type Repo struct {
	DB *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{DB: db}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.SubjectID, &u.Email, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (r *Repo) FindBySubject(ctx context.Context, subjectID string) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE subject_id = $1`, subjectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// Insert creates the user row. A concurrent insert for the same subject
// surfaces as ErrDuplicate.
func (r *Repo) Insert(ctx context.Context, p Profile) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `
		INSERT INTO users (subject_id, email, display_name)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		p.SubjectID, optional(p.Email), optional(p.DisplayName),
	))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return User{}, ErrDuplicate
	}
	return u, err
}
