package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Income streams are informational only; nothing here moves money.

const incomeStreamSelect = `
	SELECT i.income_stream_id, i.user_id, i.account_id, a.account_name,
	       i.name, i.amount, i.frequency, i.is_active,
	       i.last_deposit_date, i.next_deposit_date, i.created_at
	FROM income_streams i
	LEFT JOIN accounts a ON a.account_id = i.account_id AND a.user_id = i.user_id`

func scanIncomeStream(row pgx.Row) (IncomeStream, error) {
	var s IncomeStream
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.AccountID,
		&s.AccountName,
		&s.Name,
		&s.Amount,
		&s.Frequency,
		&s.IsActive,
		&s.LastDepositDate,
		&s.NextDepositDate,
		&s.CreatedAt,
	)
	return s, err
}

func (s *Store) ListIncomeStreams(ctx context.Context, userID uuid.UUID) ([]IncomeStream, error) {
	rows, err := s.DB.Query(ctx, incomeStreamSelect+`
		WHERE i.user_id = $1
		ORDER BY i.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]IncomeStream, 0)
	for rows.Next() {
		is, err := scanIncomeStream(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

func (s *Store) getIncomeStream(ctx context.Context, q pgx.Tx, userID, id uuid.UUID) (IncomeStream, error) {
	is, err := scanIncomeStream(q.QueryRow(ctx, incomeStreamSelect+`
		WHERE i.income_stream_id = $1 AND i.user_id = $2`,
		id, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return IncomeStream{}, notFound("income stream")
	}
	return is, err
}

func (s *Store) CreateIncomeStream(ctx context.Context, userID uuid.UUID, in NewIncomeStream) (IncomeStream, error) {
	if err := in.Validate(); err != nil {
		return IncomeStream{}, err
	}

	var out IncomeStream
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := requireAccount(ctx, tx, userID, in.AccountID); err != nil {
			return err
		}

		var id uuid.UUID
		if err := tx.QueryRow(ctx, `
			INSERT INTO income_streams (user_id, account_id, name, amount, frequency, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING income_stream_id`,
			userID, in.AccountID, in.Name, in.Amount, string(in.Frequency), in.IsActive,
		).Scan(&id); err != nil {
			return err
		}

		var err error
		out, err = s.getIncomeStream(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return IncomeStream{}, err
	}
	return out, nil
}

// UpdateIncomeStream assigns only the Set fields of p. A patch with nothing
// set fails with ErrInvalidArgument before touching the database. A linked
// account must belong to the caller.
func (s *Store) UpdateIncomeStream(ctx context.Context, userID, id uuid.UUID, p IncomeStreamPatch) (IncomeStream, error) {
	if err := p.Validate(); err != nil {
		return IncomeStream{}, err
	}

	set, args := setClause(p.assignments(), 3)
	args = append([]any{id, userID}, args...)

	var out IncomeStream
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if p.AccountID.Set {
			if err := requireAccount(ctx, tx, userID, p.AccountID.Value); err != nil {
				return err
			}
		}

		ct, err := tx.Exec(ctx, `
			UPDATE income_streams
			SET `+set+`
			WHERE income_stream_id = $1 AND user_id = $2`,
			args...,
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return notFound("income stream")
		}

		out, err = s.getIncomeStream(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return IncomeStream{}, err
	}
	return out, nil
}

func (s *Store) DeleteIncomeStream(ctx context.Context, userID, id uuid.UUID) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM income_streams WHERE income_stream_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return notFound("income stream")
	}
	return nil
}
