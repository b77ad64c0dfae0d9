package services

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"samarth-platform/internal/models"
	"samarth-platform/internal/nlsql"
	"samarth-platform/internal/repository"
	"samarth-platform/internal/snapshot"
	"samarth-platform/pkg/cache"
	"samarth-platform/pkg/llm"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

// ErrNotSelect is recorded when sanitized model output does not start with
// SELECT and is therefore never executed.
var ErrNotSelect = errors.New("query surface rejects text that does not start with SELECT")

// Citations returns the two static provenance pointers attached to every
// answer.
func Citations(processedDir string) []models.Citation {
	return []models.Citation{
		{Label: "Crop", Path: snapshot.SidecarPath(filepath.Join(processedDir, "crop_clean.parquet"))},
		{Label: "Rainfall", Path: snapshot.SidecarPath(filepath.Join(processedDir, "rainfall_long.parquet"))},
	}
}

// QAService answers natural-language questions by asking the model for SQL
// and running it against the analytical tables.
type QAService struct {
	repo      repository.AnalyticsRepository
	generator llm.Generator
	prompts   nlsql.PromptBuilder
	citations []models.Citation
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector

	fallback bool
	cache    *cache.TTLCache[string]
	newID    func() string
}

// QAOption configures a QAService.
type QAOption func(*QAService)

// WithFallback runs nlsql.FallbackQuery when a generated query cannot be
// executed.
func WithFallback() QAOption {
	return func(s *QAService) { s.fallback = true }
}

// WithCache memoizes sanitized model output by exact question text.
func WithCache(c *cache.TTLCache[string]) QAOption {
	return func(s *QAService) { s.cache = c }
}

// NewQAService creates a new question answering service
func NewQAService(
	repo repository.AnalyticsRepository,
	generator llm.Generator,
	variant nlsql.Variant,
	processedDir string,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
	opts ...QAOption,
) *QAService {
	s := &QAService{
		repo:      repo,
		generator: generator,
		prompts:   nlsql.PromptBuilder{Variant: variant},
		citations: Citations(processedDir),
		logger:    logger,
		metrics:   metricsCollector,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Citations returns the pointers attached to every answer.
func (s *QAService) Citations() []models.Citation {
	out := make([]models.Citation, len(s.citations))
	copy(out, s.citations)
	return out
}

// Answer runs one question cycle. It never returns nil; failures are carried
// in the answer's State and Error.
func (s *QAService) Answer(ctx context.Context, question string) *models.Answer {
	start := time.Now()
	a := models.NewAnswer(s.newID(), question, s.Citations())
	ctx = logging.WithRequestID(ctx, a.RequestID)

	s.logger.Info(ctx, "[QA_START] Question received", logging.Fields{
		"question": question,
		"variant":  s.prompts.Variant.String(),
	})

	defer func() {
		a.Duration = time.Since(start)
		s.metrics.RecordAnswer(string(a.State))
		s.logger.Info(ctx, "[QA_COMPLETE] Question cycle finished", logging.Fields{
			"state":       string(a.State),
			"cached":      a.Cached,
			"fallback":    a.Fallback,
			"rows":        a.Result.Len(),
			"duration_ms": a.Duration.Milliseconds(),
		})
	}()

	if !s.generate(ctx, a) {
		return a
	}
	s.execute(ctx, a)
	return a
}

// generate obtains sanitized SQL for a.Question and advances the cycle to
// Sanitized, or to ModelError with the sentinel as SQL.
func (s *QAService) generate(ctx context.Context, a *models.Answer) bool {
	var (
		sql string
		hit bool
		err error
	)
	if s.cache != nil {
		// The load is shared by concurrent askers and ignores the starter's
		// cancellation. The model client timeout still bounds it.
		loadCtx := context.WithoutCancel(ctx)
		sql, hit, err = s.cache.GetOrLoad(a.Question, func() (string, error) {
			return s.callModel(loadCtx, a.Question)
		})
	} else {
		sql, err = s.callModel(ctx, a.Question)
	}

	switch {
	case hit:
		s.metrics.CacheHitsTotal.Inc()
		a.Cached = true
		advance(a, models.StateSanitized)
	case err != nil:
		if s.cache != nil {
			s.metrics.CacheMissTotal.Inc()
		}
		advance(a, models.StatePromptBuilt, models.StateModelCalled, models.StateModelError)
		a.SQL = nlsql.Sentinel(err)
		a.SetError(err)
		s.logger.Error(ctx, "[QA_MODEL_ERROR] Model call failed", logging.Fields{
			"question": a.Question,
		}, err)
		return false
	default:
		if s.cache != nil {
			s.metrics.CacheMissTotal.Inc()
		}
		advance(a, models.StatePromptBuilt, models.StateModelCalled, models.StateSQLReceived, models.StateSanitized)
	}

	a.SQL = sql
	return true
}

func (s *QAService) callModel(ctx context.Context, question string) (string, error) {
	prompt := s.prompts.Build(question)
	timer := s.metrics.NewTimer(s.metrics.ModelDuration)

	raw, err := s.generator.Generate(ctx, prompt)
	elapsed := timer.ObserveDuration()
	if err != nil {
		s.metrics.RecordModelRequest("error")
		return "", err
	}
	s.metrics.RecordModelRequest("ok")

	sql := nlsql.Sanitize(raw)
	s.logger.Debug(ctx, "[QA_MODEL] Model responded", logging.Fields{
		"duration_ms": elapsed.Milliseconds(),
		"raw_length":  len(raw),
		"sql":         sql,
	})
	return sql, nil
}

// execute gates and runs a.SQL, ending in ResultReady or ParseExecuteError.
func (s *QAService) execute(ctx context.Context, a *models.Answer) {
	if !nlsql.IsSelect(a.SQL) {
		s.fail(ctx, a, ErrNotSelect)
		return
	}

	result, err := s.repo.Execute(ctx, a.SQL)
	if err != nil {
		s.fail(ctx, a, err)
		return
	}

	a.Result = result
	advance(a, models.StateResultReady)
}

func (s *QAService) fail(ctx context.Context, a *models.Answer, err error) {
	advance(a, models.StateParseExecuteError)
	a.SetError(err)

	s.logger.Warn(ctx, "[QA_EXEC_ERROR] Generated SQL not executed", logging.Fields{
		"sql":   a.SQL,
		"error": err.Error(),
	})

	if !s.fallback {
		return
	}
	result, ferr := s.repo.Execute(ctx, nlsql.FallbackQuery)
	if ferr != nil {
		s.logger.Error(ctx, "[QA_FALLBACK_ERROR] Fallback query failed", logging.Fields{}, ferr)
		return
	}
	a.Result = result
	a.Fallback = true
}

// advance walks a through states. The paths used here are all legal, so a
// failure is a programming error.
func advance(a *models.Answer, states ...models.CycleState) {
	for _, st := range states {
		if err := a.Transition(st); err != nil {
			panic(err)
		}
	}
}
