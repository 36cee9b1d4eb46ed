package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/dataprocess/internal/infer"
	"github.com/JonMunkholm/dataprocess/internal/ingest"
	"github.com/JonMunkholm/dataprocess/internal/logging"
	"github.com/JonMunkholm/dataprocess/internal/metrics"
	"github.com/JonMunkholm/dataprocess/internal/store"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single read-and-convert job.
const DefaultTimeout = 5 * time.Minute

// Config tunes the service. Zero fields take their defaults.
type Config struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWaitTime   time.Duration
	Timeout       time.Duration

	// NAValues replaces the default missing-value tokens when non-nil.
	NAValues []string
}

// Service reads uploads, stores the raw tables and converts them on demand.
// It is safe for concurrent use.
type Service struct {
	store   store.Store
	engine  *infer.Engine
	metrics metrics.Backend
	limiter *Limiter
	cfg     Config
}

// NewService wires a service. A nil engine uses infer defaults and a nil
// metrics backend discards everything.
func NewService(st store.Store, engine *infer.Engine, m metrics.Backend, cfg Config) *Service {
	if engine == nil {
		engine = infer.New(infer.DefaultOptions())
	}
	if m == nil {
		m = metrics.Nop{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Service{
		store:   st,
		engine:  engine,
		metrics: m,
		limiter: NewLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		cfg:     cfg,
	}
}

// Limiter exposes the job limiter for status reporting and shutdown.
func (s *Service) Limiter() *Limiter {
	return s.limiter
}

// Engine returns the inference engine the service converts with.
func (s *Service) Engine() *infer.Engine {
	return s.engine
}

// ProcessFile reads an upload, stores it as a new dataset and returns the
// inferred conversion.
func (s *Service) ProcessFile(ctx context.Context, fileName string, r io.Reader) (*Result, error) {
	var res *Result
	err := s.limiter.Do(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()

		raw, err := ingest.Read(ctx, fileName, r, ingest.Options{
			MaxBytes: s.cfg.MaxFileSize,
			NAValues: s.cfg.NAValues,
		})
		if err != nil {
			return fmt.Errorf("%w %q: %w", ErrUnreadableFile, fileName, err)
		}

		ds := store.NewDataset(fileName, raw)
		if err := s.store.Save(ctx, ds); err != nil {
			return fmt.Errorf("save dataset: %w", err)
		}
		logging.WithFields(ctx, "dataset_id", ds.ID.String(), "file", fileName).Info("dataset stored",
			"rows", raw.Rows(),
			"columns", len(raw.Columns),
		)

		res, err = s.convert(ctx, ds, nil, "process")
		return err
	})
	s.countFile(err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ApplyConversion re-converts a stored dataset with explicit directives.
// An empty datasetID selects the latest dataset. Directives naming unknown
// columns or types are rejected before any conversion runs.
func (s *Service) ApplyConversion(ctx context.Context, datasetID string, directives []infer.Directive) (*Result, error) {
	var res *Result
	err := s.limiter.Do(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()

		ds, err := s.loadDataset(ctx, datasetID)
		if err != nil {
			return err
		}
		if err := infer.ValidateDirectives(ds.Table, directives); err != nil {
			return err
		}

		res, err = s.convert(ctx, ds, directives, "apply")
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Dataset returns the plain inference result for a stored dataset.
func (s *Service) Dataset(ctx context.Context, datasetID string) (*Result, error) {
	ds, err := s.loadDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	return s.convert(ctx, ds, nil, "fetch")
}

// ConvertedTable loads a dataset and returns it with its inferred table,
// for renderers that need typed values rather than JSON.
func (s *Service) ConvertedTable(ctx context.Context, datasetID string) (*store.Dataset, *infer.Table, error) {
	ds, err := s.loadDataset(ctx, datasetID)
	if err != nil {
		return nil, nil, err
	}
	return ds, s.engine.InferAndConvert(ds.Table), nil
}

func (s *Service) loadDataset(ctx context.Context, datasetID string) (*store.Dataset, error) {
	if datasetID == "" {
		ds, err := s.store.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("load latest dataset: %w", err)
		}
		return ds, nil
	}

	id, err := uuid.Parse(datasetID)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrInvalidDatasetID, datasetID)
	}
	ds, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", id, err)
	}
	return ds, nil
}

func (s *Service) convert(ctx context.Context, ds *store.Dataset, directives []infer.Directive, op string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	out := s.engine.InferAndConvert(ds.Table, directives...)
	metrics.ObserveSince(s.metrics, metrics.ConvertDurationSeconds, start, metrics.Labels{"op": op})

	for _, col := range out.Columns {
		s.metrics.IncCounter(metrics.ColumnsTotal, 1, metrics.Labels{"type": kindLabel(col)})
	}

	res, err := BuildResult(ds.ID, ds.FileName, out)
	if err != nil {
		return nil, fmt.Errorf("render dataset %s: %w", ds.ID, err)
	}
	return res, nil
}

func (s *Service) countFile(err error) {
	status := "ok"
	switch {
	case err == nil:
	case IsUserFacing(err):
		status = "rejected"
	default:
		status = "error"
	}
	s.metrics.IncCounter(metrics.FilesTotal, 1, metrics.Labels{"status": status})
}

func kindLabel(col *infer.Column) string {
	if col.Categorical {
		return "category"
	}
	return col.Kind.String()
}
