package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
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

// Insert appends a new record and returns the id the store assigned.
func (r *AnalysisRepository) Insert(ctx context.Context, rec *domain.Record) (domain.RecordID, error) {
	const q = `
INSERT INTO resume_analyses
(id, user_id, file_name, file_url, job_title, industry,
 score, analysis, strengths, weaknesses, suggestions, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);
`
	id := domain.RecordID(uuid.New().String())
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	fileName := rec.FileName
	if strings.TrimSpace(fileName) == "" {
		fileName = "Unknown"
	}

	_, err := r.db.ExecContext(ctx, q,
		id, rec.UserID, fileName, rec.FileURL,
		rec.JobTitle, rec.Industry,
		rec.Score, rec.Analysis,
		mustJSON(rec.Strengths), mustJSON(rec.Weaknesses), mustJSON(rec.Suggestions),
		createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting analysis record: %w", err)
	}
	return id, nil
}

// ListByUser fetches with no ORDER BY and sorts in memory, same contract as
// the mysql adapter.
func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	const q = `SELECT ` + recordColumns + ` FROM resume_analyses WHERE user_id=$1;`

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

func (r *AnalysisRepository) GetByID(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	const q = `SELECT ` + recordColumns + ` FROM resume_analyses WHERE id=$1 LIMIT 1;`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return []byte("[]")
	}
	return b
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		rec                         domain.Record
		fileName, fileURL, analysis sql.NullString
		jobTitle, industry          sql.NullString
		score                       sql.NullInt64
		strengths, weaknesses       []byte
		suggestions                 []byte
		created                     sql.NullTime
	)
	if err := row.Scan(
		&rec.ID, &rec.UserID, &fileName, &fileURL, &jobTitle, &industry,
		&score, &analysis, &strengths, &weaknesses, &suggestions, &created,
	); err != nil {
		return nil, err
	}

	rec.FileName = "Unknown"
	if strings.TrimSpace(fileName.String) != "" {
		rec.FileName = fileName.String
	}
	rec.FileURL = fileURL.String
	if jobTitle.Valid {
		v := jobTitle.String
		rec.JobTitle = &v
	}
	if industry.Valid {
		v := industry.String
		rec.Industry = &v
	}
	rec.Score = int(score.Int64)
	rec.Analysis = analysis.String
	rec.Strengths = decodeStrings(strengths)
	rec.Weaknesses = decodeStrings(weaknesses)
	rec.Suggestions = decodeSuggestions(suggestions)
	if created.Valid {
		rec.CreatedAt = created.Time
	} else {
		rec.CreatedAt = time.Now().UTC()
	}
	return &rec, nil
}

func decodeStrings(raw []byte) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

func decodeSuggestions(raw []byte) []domain.Suggestion {
	out := []domain.Suggestion{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []domain.Suggestion{}
	}
	return out
}
