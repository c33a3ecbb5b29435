package decisions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new decision route record.
func (r *PGRepo) Create(ctx context.Context, route DecisionRoute) error {
	const query = `
INSERT INTO decision_routes (
    id,
    prompt,
    robot_message,
    recommendations,
    metadata,
    record_type,
    created_at
) VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7)`

	recsJSON, err := json.Marshal(route.Recommendations)
	if err != nil {
		return err
	}

	metadata := route.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	recordType := route.RecordType
	if recordType == "" {
		recordType = "decision_route"
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		route.ID,
		route.Prompt,
		route.RobotMessage,
		recsJSON,
		metaJSON,
		recordType,
		route.CreatedAt,
	)
	return err
}

// GetByID fetches a decision route record by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (DecisionRoute, error) {
	const query = `
SELECT id, prompt, robot_message, recommendations, metadata, record_type, created_at
FROM decision_routes
WHERE id = $1
LIMIT 1`

	var route DecisionRoute
	var recsJSON, metaJSON []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&route.ID,
		&route.Prompt,
		&route.RobotMessage,
		&recsJSON,
		&metaJSON,
		&route.RecordType,
		&route.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DecisionRoute{}, ErrNotFound
		}
		return DecisionRoute{}, err
	}
	if err := json.Unmarshal(recsJSON, &route.Recommendations); err != nil {
		return DecisionRoute{}, err
	}
	if err := json.Unmarshal(metaJSON, &route.Metadata); err != nil {
		return DecisionRoute{}, err
	}
	return route, nil
}

// ListRecent lists decision route records ordered newest-first.
func (r *PGRepo) ListRecent(ctx context.Context, limit, offset int) ([]DecisionRoute, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, prompt, robot_message, recommendations, metadata, record_type, created_at
FROM decision_routes
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DecisionRoute
	for rows.Next() {
		var route DecisionRoute
		var recsJSON, metaJSON []byte
		if err := rows.Scan(
			&route.ID,
			&route.Prompt,
			&route.RobotMessage,
			&recsJSON,
			&metaJSON,
			&route.RecordType,
			&route.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(recsJSON, &route.Recommendations); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(metaJSON, &route.Metadata); err != nil {
			return nil, err
		}
		out = append(out, route)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
