package scholarship

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/ctsv"
)

// Source supplies raw scholarship records.
type Source interface {
	FetchScholarships(ctx context.Context) ([]ctsv.RawScholarship, error)
}

// Service exposes scholarship lookups over a Source.
type Service struct {
	source Source
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a scholarship service.
func NewService(source Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source: source,
		logger: logger.With(zap.String("component", "scholarship")),
		now:    time.Now,
	}
}

// List crawls and parses every scholarship record (the read-only HTTP
// listing surface).
func (s *Service) List(ctx context.Context) ([]Scholarship, error) {
	raw, err := s.source.FetchScholarships(ctx)
	if err != nil {
		return nil, err
	}
	parsed := make([]Scholarship, 0, len(raw))
	for _, r := range raw {
		parsed = append(parsed, Parse(r))
	}
	return parsed, nil
}

// Lookup is the capability entry point: crawl, filter by time window and
// status, and return formatted records. Crawl failures degrade to a single
// diagnostic record rather than an error.
func (s *Service) Lookup(ctx context.Context, period, status string) []string {
	raw, err := s.source.FetchScholarships(ctx)
	if err != nil || len(raw) == 0 {
		if err != nil {
			s.logger.Warn("scholarship crawl failed", zap.Error(err))
		}
		return []string{"Lỗi: Không thể crawl dữ liệu học bổng."}
	}

	records := make([]Scholarship, 0, len(raw))
	for _, r := range raw {
		records = append(records, Parse(r))
	}
	return FilterFormatted(records, period, status, s.now())
}
