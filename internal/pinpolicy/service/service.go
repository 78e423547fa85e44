package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"pinguard/internal/pinpolicy"
	"pinguard/internal/pinpolicy/metrics"
	dErrors "pinguard/pkg/domain-errors"
	audit "pinguard/pkg/platform/audit"
	"pinguard/pkg/platform/sentinel"
	"pinguard/pkg/requestcontext"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchMaxItems    = 100
	DefaultBatchConcurrency = 8

	tracerName = "pinguard/internal/pinpolicy/service"
)

// AuditPublisher records the outcome of each check. It matches
// publisher.Publisher but is defined here to keep the service independent of
// the audit transport.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// CheckRequest is one PIN to classify together with the personal dates it
// must not encode.
type CheckRequest struct {
	Subject string
	PIN     string
	Dates   pinpolicy.Dates
}

// CheckResult is the verdict for one request.
type CheckResult struct {
	Verdict     pinpolicy.Verdict
	Signals     pinpolicy.Signals
	EvaluatedAt time.Time
}

// Policy describes the active classification rules for callers rendering help text.
type Policy struct {
	AcceptedLengths []int
	MaxSequenceStep int
	Reasons         []pinpolicy.Reason
	BatchMaxItems   int
}

// Service classifies PINs and records what it decided. The PIN itself never
// leaves the call: it is not logged, traced, audited or stored.
type Service struct {
	classifier       *pinpolicy.Classifier
	logger           *slog.Logger
	metrics          *metrics.Metrics
	auditor          AuditPublisher
	tracer           trace.Tracer
	batchMaxItems    int
	batchConcurrency int
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditor(auditor AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithBatchLimits bounds batch size and fan-out. Non-positive values keep the defaults.
func WithBatchLimits(maxItems, concurrency int) Option {
	return func(s *Service) {
		if maxItems > 0 {
			s.batchMaxItems = maxItems
		}
		if concurrency > 0 {
			s.batchConcurrency = concurrency
		}
	}
}

func New(classifier *pinpolicy.Classifier, opts ...Option) *Service {
	if classifier == nil {
		classifier = pinpolicy.NewClassifier()
	}
	s := &Service{
		classifier:       classifier,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:           otel.Tracer(tracerName),
		batchMaxItems:    DefaultBatchMaxItems,
		batchConcurrency: DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the rules this service enforces.
func (s *Service) Policy() Policy {
	return Policy{
		AcceptedLengths: []int{pinpolicy.ShortPINLength, pinpolicy.LongPINLength},
		MaxSequenceStep: s.classifier.MaxSequenceStep(),
		Reasons:         pinpolicy.AllReasons(),
		BatchMaxItems:   s.batchMaxItems,
	}
}

// Check classifies a single PIN. It only fails when the audit record cannot
// be written.
func (s *Service) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	ctx, span := s.tracer.Start(ctx, "pinpolicy.Check")
	defer span.End()

	result, err := s.check(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "audit failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("pin.strength", result.Verdict.Strength.String()),
		attribute.StringSlice("pin.reasons", result.Verdict.ReasonCodes()),
		attribute.Int("pin.length", len(req.PIN)),
	)
	return result, nil
}

// CheckBatch classifies every request concurrently and returns results in
// input order. The whole batch fails if any item's audit record fails.
func (s *Service) CheckBatch(ctx context.Context, reqs []CheckRequest) ([]*CheckResult, error) {
	ctx, span := s.tracer.Start(ctx, "pinpolicy.CheckBatch",
		trace.WithAttributes(attribute.Int("pin.batch_size", len(reqs))))
	defer span.End()

	if len(reqs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "items must not be empty")
	}
	if len(reqs) > s.batchMaxItems {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("batch exceeds maximum of %d items", s.batchMaxItems))
	}
	s.metrics.ObserveBatchSize(len(reqs))

	// Every item in the batch shares one evaluation time.
	ctx = requestcontext.WithTime(ctx, requestcontext.Now(ctx))

	results := make([]*CheckResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			result, err := s.check(gctx, req)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch failed")
		return nil, err
	}

	weak := 0
	for _, r := range results {
		if r.Verdict.IsWeak() {
			weak++
		}
	}
	s.logger.InfoContext(ctx, "pin batch checked",
		"request_id", requestcontext.RequestID(ctx),
		"items", len(results),
		"weak", weak,
	)
	if err := s.emit(ctx, audit.Event{
		Action:   string(audit.EventPINBatchChecked),
		Decision: fmt.Sprintf("%d/%d weak", weak, len(results)),
	}); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	start := time.Now()
	verdict, signals := s.classifier.Evaluate(req.PIN, req.Dates)
	codesList := verdict.ReasonCodes()

	s.metrics.IncrementVerdict(verdict.Strength.String())
	s.metrics.IncrementReasons(codesList)
	s.metrics.IncrementDetectorHits(signals.Names())

	s.logger.InfoContext(ctx, "pin strength checked",
		"request_id", requestcontext.RequestID(ctx),
		"strength", verdict.Strength,
		"reasons", codesList,
		"detectors", signals.Names(),
		"pin_length", len(req.PIN),
	)

	err := s.emit(ctx, audit.Event{
		Subject:  req.Subject,
		Action:   string(audit.EventPINStrengthChecked),
		Decision: verdict.Strength.String(),
		Reason:   strings.Join(codesList, ","),
	})
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	if err != nil {
		return nil, err
	}

	return &CheckResult{
		Verdict:     verdict,
		Signals:     signals,
		EvaluatedAt: requestcontext.Now(ctx),
	}, nil
}

// emit fills request metadata and publishes the event. A saturated async
// buffer is logged and tolerated; any other failure is returned.
func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	event.Caller = requestcontext.Caller(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.Device = requestcontext.DeviceName(ctx)
	event.Timestamp = requestcontext.Now(ctx)

	if err := s.auditor.Emit(ctx, event); err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			s.logger.WarnContext(ctx, "audit event dropped",
				"request_id", event.RequestID,
				"action", event.Action,
			)
			return nil
		}
		s.logger.ErrorContext(ctx, "failed to record audit event",
			"request_id", event.RequestID,
			"action", event.Action,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}
