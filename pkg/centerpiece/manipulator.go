package centerpiece

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkqr/inkqr/pkg/errors"
	"github.com/inkqr/inkqr/pkg/observability"
	"github.com/inkqr/inkqr/pkg/qr"
)

// =============================================================================
// Manipulator Facade
// =============================================================================

// Result is the outcome of one centerpiece application.
type Result struct {
	OperationID string         `json:"operation_id"`
	Mode        Mode           `json:"mode"`
	Matrix      *qr.Matrix     `json:"-"`
	Treatments  []Treatment    `json:"treatments,omitempty"`
	Knockout    *KnockoutStats `json:"knockout,omitempty"`
	Imprint     *ImprintStats  `json:"imprint,omitempty"`
	Duration    time.Duration  `json:"duration"`
}

// Manipulator is the single entry point for centerpiece processing. It
// validates the matrix once, routes between the knockout and imprint
// processors by mode, and reports spans and hooks around each operation.
type Manipulator struct {
	matrix   *qr.Matrix
	provider qr.ModuleTypeProvider
	geo      *Geometry
	conn     qr.Connectivity
	logger   *log.Logger
	sink     observability.MetricsSink
}

// Option configures a Manipulator.
type Option func(*Manipulator)

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manipulator) { m.logger = logger }
}

// WithConnectivity sets the neighborhood used for edge refinement.
func WithConnectivity(conn qr.Connectivity) Option {
	return func(m *Manipulator) { m.conn = conn }
}

// WithMetricsSink routes operation spans to a custom sink.
func WithMetricsSink(sink observability.MetricsSink) Option {
	return func(m *Manipulator) { m.sink = sink }
}

// NewManipulator validates the matrix and builds the facade. The matrix
// invariant is enforced here once so the processors can assume it.
func NewManipulator(m *qr.Matrix, provider qr.ModuleTypeProvider, opts ...Option) (*Manipulator, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "matrix is nil")
	}
	if !qr.IsValidQRSize(m.Size()) {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "size %d is not a valid QR dimension", m.Size())
	}
	if provider == nil {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "module type provider is nil")
	}

	man := &Manipulator{
		matrix:   m,
		provider: provider,
		geo:      NewGeometry(m.Size()),
		conn:     qr.ConnVonNeumann,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(man)
	}
	return man, nil
}

// Geometry exposes the pure reserve calculations for the matrix.
func (m *Manipulator) Geometry() *Geometry { return m.geo }

// Bounds returns the clipped reserve bounding box for a configuration.
func (m *Manipulator) Bounds(cfg Config) Bounds { return m.geo.Bounds(cfg.withDefaults()) }

// Validate runs the configuration heuristics against this matrix.
func (m *Manipulator) Validate(cfg Config, version qr.Version, level qr.ErrorLevel) ValidationResult {
	return NewValidator(m.geo, version, level).ValidateConfig(cfg)
}

// Apply routes a configuration to its processor and returns a new matrix.
// The manipulator's matrix is never modified, so Apply is safe to call
// repeatedly with different configurations.
func (m *Manipulator) Apply(ctx context.Context, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	span := observability.StartSpan("centerpiece."+string(cfg.Mode), m.sink)
	observability.Matrix().OnCenterpieceStart(ctx, string(cfg.Mode))

	res := &Result{OperationID: span.ID(), Mode: cfg.Mode}
	var affected int
	switch cfg.Mode {
	case ModeImprint:
		imprint := NewImprint(m.matrix, m.provider, m.geo, m.logger)
		matrix, treatments, stats := imprint.Apply(cfg)
		res.Matrix, res.Treatments, res.Imprint = matrix, treatments, &stats
		affected = stats.TreatedModules
	default:
		knockout := NewKnockout(m.matrix, m.provider, m.geo, m.conn, m.logger)
		matrix, stats := knockout.Apply(cfg)
		res.Matrix, res.Knockout = matrix, &stats
		affected = stats.DataModulesCleared
	}

	metric := span.End(map[string]any{"mode": string(cfg.Mode), "affected": affected})
	res.Duration = metric.Duration
	observability.Matrix().OnCenterpieceComplete(ctx, string(cfg.Mode), affected, metric.Duration, nil)
	return res, nil
}

// ApplyAndAssess runs Apply followed by pattern preservation analysis and
// the composite scannability estimate for the processed matrix.
func (m *Manipulator) ApplyAndAssess(ctx context.Context, cfg Config, version qr.Version, level qr.ErrorLevel) (*Result, Scanability, error) {
	res, err := m.Apply(ctx, cfg)
	if err != nil {
		return nil, Scanability{}, err
	}

	validator := NewValidator(m.geo, version, level)
	preservation, err := validator.AnalyzePatternPreservation(m.matrix, res.Matrix, m.provider)
	if err != nil {
		return nil, Scanability{}, err
	}

	var stats KnockoutStats
	if res.Knockout != nil {
		stats = *res.Knockout
	}
	assessment := validator.AssessScanability(cfg, stats, preservation)
	observability.Matrix().OnValidation(ctx, assessment.Score)

	if res.Knockout != nil {
		if err := validator.ValidateReserveImpact(stats); err != nil {
			m.logger.Warn("reserve impact exceeds the error-correction budget",
				"cleared", stats.DataModulesCleared, "err", err)
		}
	}
	return res, assessment, nil
}
