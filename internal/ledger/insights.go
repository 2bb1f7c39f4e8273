package ledger

import (
	"context"

	"github.com/google/uuid"
)

// ListInsights returns the newest insights for the user. Insights are
// generated elsewhere; this store only reads them.
func (s *Store) ListInsights(ctx context.Context, userID uuid.UUID) ([]Insight, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT insight_id, user_id, title, description, insight_type, created_at
		FROM ai_insights
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, InsightLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Insight, 0)
	for rows.Next() {
		var in Insight
		if err := rows.Scan(&in.ID, &in.UserID, &in.Title, &in.Description, &in.Type, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
