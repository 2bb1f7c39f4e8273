package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, user_id, account_name, account_type, balance, currency, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (s *Store) ListAccounts(ctx context.Context, userID uuid.UUID) ([]Account, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) CreateAccount(ctx context.Context, userID uuid.UUID, in NewAccount) (Account, error) {
	if err := in.Validate(); err != nil {
		return Account{}, err
	}
	return scanAccount(s.DB.QueryRow(ctx, `
		INSERT INTO accounts (user_id, account_name, account_type, balance, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		userID, in.Name, in.Type, in.Balance, in.Currency,
	))
}

// UpdateAccount applies the Set fields of p. An empty patch only bumps
// updated_at. Balance is never patched here.
func (s *Store) UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, p AccountPatch) (Account, error) {
	set, args := setClause(p.assignments(), 3)
	if set != "" {
		set += ", "
	}
	args = append([]any{accountID, userID}, args...)

	a, err := scanAccount(s.DB.QueryRow(ctx, `
		UPDATE accounts
		SET `+set+`updated_at = NOW()
		WHERE account_id = $1 AND user_id = $2
		RETURNING `+accountColumns,
		args...,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, notFound("account")
	}
	return a, err
}

// DeleteAccount removes the account. Transactions and income streams that
// referenced it are detached by the foreign keys, not deleted.
func (s *Store) DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return notFound("account")
	}
	return nil
}
