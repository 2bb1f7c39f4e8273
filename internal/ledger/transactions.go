package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, f TransactionFilter) ([]Transaction, error) {
	query := `
		SELECT t.transaction_id, t.user_id, t.account_id, a.account_name,
		       t.amount, t.category, t.description, t.transaction_type,
		       t.transaction_date, t.created_at
		FROM transactions t
		LEFT JOIN accounts a ON a.account_id = t.account_id AND a.user_id = t.user_id
		WHERE t.user_id = $1`
	args := []any{userID}

	if f.AccountID != nil {
		args = append(args, *f.AccountID)
		query += fmt.Sprintf(" AND t.account_id = $%d", len(args))
	}
	args = append(args, f.limit())
	query += fmt.Sprintf(" ORDER BY t.transaction_date DESC, t.created_at DESC LIMIT $%d", len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.AccountID,
			&t.AccountName,
			&t.Amount,
			&t.Category,
			&t.Description,
			&t.Type,
			&t.Date,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTransaction applies Effect to the referenced account's balance, then
// inserts the row, in one database transaction. An account the user does not
// own (or that does not exist) matches no row and nothing is written.
func (s *Store) CreateTransaction(ctx context.Context, userID uuid.UUID, in NewTransaction) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}

	var out Transaction
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if in.AccountID != nil {
			name, err := adjustBalance(ctx, tx, userID, *in.AccountID, Effect(in.Type, in.Amount))
			if err != nil {
				return err
			}
			out.AccountName = &name
		}

		return tx.QueryRow(ctx, `
			INSERT INTO transactions (user_id, account_id, amount, category, description, transaction_type, transaction_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING transaction_id, user_id, account_id, amount, category, description, transaction_type, transaction_date, created_at`,
			userID, in.AccountID, in.Amount, in.Category, in.Description, string(in.Type), in.Date,
		).Scan(
			&out.ID,
			&out.UserID,
			&out.AccountID,
			&out.Amount,
			&out.Category,
			&out.Description,
			&out.Type,
			&out.Date,
			&out.CreatedAt,
		)
	})
	if err != nil {
		return Transaction{}, err
	}
	return out, nil
}

// DeleteTransaction removes the row and reverses exactly the effect its
// stored (type, amount) applied, in one database transaction.
func (s *Store) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		var (
			amount    decimal.Decimal
			typ       TxType
			accountID *uuid.UUID
		)
		err := tx.QueryRow(ctx, `
			DELETE FROM transactions
			WHERE transaction_id = $1 AND user_id = $2
			RETURNING amount, transaction_type, account_id`,
			transactionID, userID,
		).Scan(&amount, &typ, &accountID)
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("transaction")
		}
		if err != nil {
			return err
		}
		if accountID == nil {
			return nil
		}

		_, err = adjustBalance(ctx, tx, userID, *accountID, Reversal(typ, amount))
		if errors.Is(err, ErrNotFound) {
			// account was removed after the transaction was written
			return nil
		}
		return err
	})
}

// adjustBalance adds delta to the account row matching (accountID, userID).
// The UPDATE takes the row lock, so concurrent adjustments serialize in the
// database.
func adjustBalance(ctx context.Context, tx pgx.Tx, userID, accountID uuid.UUID, delta decimal.Decimal) (string, error) {
	var name string
	err := tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE account_id = $2 AND user_id = $3
		RETURNING account_name`,
		delta, accountID, userID,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", notFound("account")
	}
	return name, err
}

// requireAccount checks that accountID belongs to userID and holds a key
// share lock on it until the transaction ends. A nil id is always allowed.
func requireAccount(ctx context.Context, tx pgx.Tx, userID uuid.UUID, accountID *uuid.UUID) error {
	if accountID == nil {
		return nil
	}
	var one int
	err := tx.QueryRow(ctx, `
		SELECT 1 FROM accounts
		WHERE account_id = $1 AND user_id = $2
		FOR KEY SHARE`,
		*accountID, userID,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound("account")
	}
	return err
}
