package mysql

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/resumelens/resumelens/internal/domain/analyses"
)

// stringOrUnknown returns "Unknown" when the input is empty/whitespace
func stringOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// jsonStrings marshals a string list for a JSON column, nil as []
func jsonStrings(v []string) []byte {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("[]")
	}
	return b
}

func jsonSuggestions(v []domain.Suggestion) []byte {
	if v == nil {
		v = []domain.Suggestion{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("[]")
	}
	return b
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

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row with defensive defaults so partially written or
// legacy rows never break readers: missing file name becomes "Unknown",
// missing score 0, missing lists empty.
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

	rec.FileName = stringOrUnknown(fileName.String)
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
