package analyses

import (
	"context"
	"fmt"
	"log"

	"github.com/resumelens/resumelens/internal/application"
	domain "github.com/resumelens/resumelens/internal/domain/analyses"
)

// Service implements use-cases untuk résumé analysis
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Analyzer  domain.Analyzer
	Artifacts domain.ArtifactStore
	Repo      domain.Repository
	Clock     application.Clock
}

//
// ==== USE CASES ====
//

// Command untuk submit résumé
type SubmitCommand struct {
	UserID   string
	FileName string
	Data     []byte
	JobTitle string
	Industry string
}

// SubmitResult is the single terminal outcome of a submit. Either the
// record was fully persisted (ID and FileURL set), or persistence failed
// and StorageError flags a result that still carries the full analysis.
type SubmitResult struct {
	domain.Record
	StorageError        bool   `json:"storage_error,omitempty"`
	StorageErrorMessage string `json:"storage_error_message,omitempty"`
}

// Submit validasi ukuran → analisa → simpan artifact + record.
// The analysis call is mandatory; the storage steps after it are best
// effort and never discard a successful analysis.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*SubmitResult, error) {
	if cmd.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if len(cmd.Data) > domain.MaxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	res, err := s.Analyzer.Analyze(ctx, domain.AnalyzeRequest{
		FileName: cmd.FileName,
		Data:     cmd.Data,
		JobTitle: cmd.JobTitle,
		Industry: cmd.Industry,
	})
	if err != nil {
		return nil, err
	}

	rec := &domain.Record{
		UserID:      cmd.UserID,
		FileName:    cmd.FileName,
		JobTitle:    optional(cmd.JobTitle),
		Industry:    optional(cmd.Industry),
		Score:       res.Score,
		Analysis:    res.Analysis,
		Strengths:   res.Strengths,
		Weaknesses:  res.Weaknesses,
		Suggestions: res.Suggestions,
		CreatedAt:   s.Clock.Now().UTC(),
	}

	// upload artifact then insert record, in sequence; a failure in either
	// one skips the rest and downgrades to a flagged result
	url, serr := s.Artifacts.Store(ctx, cmd.UserID, cmd.FileName, cmd.Data)
	if serr == nil {
		rec.FileURL = url
		var id domain.RecordID
		if id, serr = s.Repo.Insert(ctx, rec); serr == nil {
			rec.ID = id
			return &SubmitResult{Record: *rec}, nil
		}
	}

	log.Printf("storage step failed user=%s file=%s: %v", cmd.UserID, cmd.FileName, serr)
	degraded := *rec
	degraded.ID = ""
	degraded.FileURL = ""
	return &SubmitResult{
		Record:              degraded,
		StorageError:        true,
		StorageErrorMessage: domain.StorageMessage(serr),
	}, nil
}

// History ambil semua record milik user, newest first
func (s *Service) History(ctx context.Context, userID string) ([]*domain.Record, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required to fetch analysis history")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Get ambil 1 record by id
func (s *Service) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	return s.Repo.GetByID(ctx, id)
}

// Progress bundles the derived views the dashboard renders over one user's
// history: the month-by-month score timeline, the delta between the two
// newest scores and the sub-scores of the latest record.
type Progress struct {
	Timeline         []domain.TimelinePoint `json:"timeline"`
	Delta            int                    `json:"delta"`
	StrengthsRatio   int                    `json:"strengths_ratio"`
	ImprovementScore int                    `json:"improvement_score"`
	TotalAnalyses    int                    `json:"total_analyses"`
}

func (s *Service) Progress(ctx context.Context, userID string) (*Progress, error) {
	records, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	// History arrives newest first, but the chart runs oldest to newest.
	// Reduce the timeline over an ascending copy so the newest record in a
	// month is the one that wins.
	asc := make([]*domain.Record, len(records))
	for i, r := range records {
		asc[len(records)-1-i] = r
	}
	p := &Progress{
		Timeline:      domain.ScoreTimeline(asc),
		Delta:         domain.ScoreDelta(records),
		TotalAnalyses: len(records),
	}
	if len(records) > 0 {
		latest := records[0]
		p.StrengthsRatio = domain.StrengthsRatio(latest)
		p.ImprovementScore = domain.ImprovementScore(latest)
	}
	return p, nil
}

// helper
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
