package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/resumelens/resumelens/internal/domain/analyses"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const recordColumns = `id, user_id, file_name, file_url, job_title, industry,
       score, analysis, strengths, weaknesses, suggestions, created_at`

// Insert appends a new record. The store assigns the id; records are never
// updated afterwards.
func (r *AnalysisRepository) Insert(ctx context.Context, rec *domain.Record) (domain.RecordID, error) {
	const q = `
INSERT INTO resume_analyses
(id, user_id, file_name, file_url, job_title, industry,
 score, analysis, strengths, weaknesses, suggestions, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?);
`
	id := domain.RecordID(uuid.New().String())
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, q,
		id, rec.UserID, stringOrUnknown(rec.FileName), rec.FileURL,
		rec.JobTitle, rec.Industry,
		rec.Score, rec.Analysis,
		jsonStrings(rec.Strengths), jsonStrings(rec.Weaknesses), jsonSuggestions(rec.Suggestions),
		createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting analysis record: %w", err)
	}
	return id, nil
}

// ListByUser fetches every record owned by userID. The query carries no
// ORDER BY; ordering is applied in memory after the fetch.
func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	const q = `SELECT ` + recordColumns + ` FROM resume_analyses WHERE user_id=?;`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying analysis history: %w", err)
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	domain.SortNewestFirst(out)
	return out, nil
}

// GetByID returns domain.ErrNotFound for an unknown id.
func (r *AnalysisRepository) GetByID(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	const q = `SELECT ` + recordColumns + ` FROM resume_analyses WHERE id=? LIMIT 1;`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}
