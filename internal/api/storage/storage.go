package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/vtryon/internal/api/domain"
	"github.com/cuongbtq/vtryon/internal/api/model"
	"github.com/cuongbtq/vtryon/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

func (s *Storage) GetModelByID(ctx context.Context, modelID string) (*model.Model, error) {
	var m model.Model
	query := `
		SELECT model_id, name, body_type, image_url, created_at
		FROM models
		WHERE model_id = $1
	`

	err := s.db.GetContext(ctx, &m, query, modelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	return &m, nil
}

type ModelFilter struct {
	BodyType string
	PageSize int
	Cursor   *ModelCursor
}

type ModelCursor struct {
	CreatedAt time.Time
	ModelID   string
}

// ListModels returns up to PageSize+1 rows so callers can detect a next page
func (s *Storage) ListModels(ctx context.Context, filter ModelFilter) ([]model.Model, error) {
	query, args := buildListQuery(filter)

	var models []model.Model
	err := s.db.SelectContext(ctx, &models, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	return models, nil
}

func buildListQuery(filter ModelFilter) (string, []interface{}) {
	query := `
        SELECT model_id, name, body_type, image_url, created_at
        FROM models
        WHERE 1=1
    `
	args := []interface{}{}
	argIdx := 1

	if filter.BodyType != "" {
		query += fmt.Sprintf(" AND body_type = $%d", argIdx)
		args = append(args, filter.BodyType)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, model_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ModelID)
		argIdx += 2
	}

	// Order by created_at DESC, model_id DESC for consistent pagination
	query += " ORDER BY created_at DESC, model_id DESC"

	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	return query, args
}
