package analyses

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	// Insert appends a new record and returns the id the store assigned.
	Insert(ctx context.Context, rec *Record) (RecordID, error)

	// ListByUser returns every record owned by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Record, error)

	// GetByID returns ErrNotFound when no record has that id.
	GetByID(ctx context.Context, id RecordID) (*Record, error)
}

// AnalyzeRequest carries the résumé bytes plus optional context fields.
type AnalyzeRequest struct {
	FileName string
	Data     []byte
	JobTitle string
	Industry string
}

// Analyzer port (interface untuk analysis engine)
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*Result, error)
}

// ArtifactStore port (interface untuk penyimpanan file asli)
type ArtifactStore interface {
	// Store uploads the original file and returns a durable download URL.
	Store(ctx context.Context, userID, fileName string, data []byte) (string, error)
}
