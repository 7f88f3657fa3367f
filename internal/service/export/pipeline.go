package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
	"github.com/gocomet/ride-ledger/pkg/logger"
	"github.com/google/uuid"
)

// RowSource yields the joined ride rows, ordered by ride id
type RowSource interface {
	ListJoined(ctx context.Context) ([]ride.JoinedRow, error)
}

// Metrics receives export run statistics
type Metrics interface {
	RecordExport(runID string, rides int, formats []string, elapsed time.Duration)
}

// Artifact is one rendered export file held in memory
type Artifact struct {
	Format   string
	Filename string
	Data     []byte
}

// Result describes a finished export run
type Result struct {
	RunID string
	Dir   string
	Rides int
	Files []string
}

// Service renders the ride ledger in every configured format
type Service struct {
	source  RowSource
	writers []Writer
	logger  *logger.Logger
	metrics Metrics
}

// NewService creates an export service. With no writers it uses DefaultWriters.
func NewService(source RowSource, log *logger.Logger, metrics Metrics, writers ...Writer) *Service {
	if len(writers) == 0 {
		writers = DefaultWriters()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		source:  source,
		writers: writers,
		logger:  log.Named("export"),
		metrics: metrics,
	}
}

// Formats returns the format names in output order
func (s *Service) Formats() []string {
	formats := make([]string, 0, len(s.writers))
	for _, w := range s.writers {
		formats = append(formats, w.Format())
	}
	return formats
}

// Render reads the joined rows once and renders every format from that single snapshot
func (s *Service) Render(ctx context.Context) ([]Artifact, int, error) {
	const op = "export.render"

	rows, err := s.source.ListJoined(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, apperrors.WithOp(apperrors.ErrNoData, op)
	}

	artifacts := make([]Artifact, 0, len(s.writers))
	for _, w := range s.writers {
		var buf bytes.Buffer
		if err := w.Write(&buf, rows); err != nil {
			return nil, 0, apperrors.Store(fmt.Sprintf("%s.%s", op, w.Format()), err)
		}
		artifacts = append(artifacts, Artifact{
			Format:   w.Format(),
			Filename: w.Filename(),
			Data:     buf.Bytes(),
		})
	}

	return artifacts, len(rows), nil
}

// Run renders every format and writes the files into dir. Nothing is written
// unless every format rendered, and an empty ledger produces no files.
func (s *Service) Run(ctx context.Context, dir string) (*Result, error) {
	const op = "export.run"
	start := time.Now()
	runID := uuid.New().String()
	log := s.logger.With(logger.String("run_id", runID))

	artifacts, rides, err := s.Render(ctx)
	if err != nil {
		if apperrors.IsEmptyDataset(err) {
			log.Warn("Nothing to export", logger.Op(op))
		} else {
			log.Error("Export render failed", logger.Op(op), logger.Err(err))
		}
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Store(op, err)
	}

	files, err := writeAll(dir, artifacts)
	if err != nil {
		log.Error("Export write failed", logger.Op(op), logger.Err(err))
		return nil, apperrors.Store(op, err)
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordExport(runID, rides, s.Formats(), elapsed)
	}
	log.Info("Export completed",
		logger.String("dir", dir),
		logger.Int("rides", rides),
		logger.Int("files", len(files)),
		logger.Duration("elapsed", elapsed),
	)

	return &Result{
		RunID: runID,
		Dir:   dir,
		Rides: rides,
		Files: files,
	}, nil
}

// writeAll stages every artifact as a temp file, then renames them into place.
// Staged files are removed if any write fails.
func writeAll(dir string, artifacts []Artifact) ([]string, error) {
	staged := make([]string, 0, len(artifacts))
	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for _, a := range artifacts {
		f, err := os.CreateTemp(dir, "."+a.Filename+".*")
		if err != nil {
			cleanup()
			return nil, err
		}
		staged = append(staged, f.Name())
		if _, err := f.Write(a.Data); err != nil {
			_ = f.Close()
			cleanup()
			return nil, err
		}
		if err := f.Close(); err != nil {
			cleanup()
			return nil, err
		}
	}

	files := make([]string, 0, len(artifacts))
	for i, a := range artifacts {
		target := filepath.Join(dir, a.Filename)
		if err := os.Rename(staged[i], target); err != nil {
			cleanup()
			return nil, err
		}
		if err := os.Chmod(target, 0o644); err != nil {
			return nil, err
		}
		files = append(files, target)
	}
	return files, nil
}
