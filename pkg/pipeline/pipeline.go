// Package pipeline provides the core rendering pipeline for inkqr.
//
// This package implements the complete encode → analyze → render pipeline
// used by the CLI and by library consumers. Centralizing it keeps caching,
// logging, and option defaults consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Encode: Generate the QR matrix for the input text
//  2. Analyze: Apply the centerpiece (if configured) and cluster data modules
//  3. Render: Produce output artifacts (SVG, JSON report)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Text:    "https://example.com",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkqr/inkqr/pkg/centerpiece"
	"github.com/inkqr/inkqr/pkg/cluster"
	"github.com/inkqr/inkqr/pkg/errors"
	"github.com/inkqr/inkqr/pkg/qr"
	"github.com/inkqr/inkqr/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library
// =============================================================================

const (
	// DefaultErrorLevel balances density against centerpiece headroom.
	DefaultErrorLevel = qr.ErrorLevelMedium

	// DefaultFormat is the terminal artifact of the pipeline.
	DefaultFormat = FormatSVG
)

// Cache TTLs per stage. Encoded matrices are deterministic for a given
// (text, level) pair; analysis and artifacts additionally depend on options
// hashed into their keys, so all three can live long.
const (
	TTLMatrix   = 30 * 24 * time.Hour
	TTLAnalysis = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Format constants for output artifacts.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline execution.
type Options struct {
	// Text is the payload to encode. Required.
	Text string

	// ErrorLevel is the ECC level ("L", "M", "Q", "H"). Defaults to M.
	ErrorLevel qr.ErrorLevel

	// Style is the visual configuration, including centerpiece and cluster
	// settings. The zero value is replaced by render.DefaultStyle().
	Style render.StyleConfig

	// Formats lists the artifacts to produce. Defaults to ["svg"].
	Formats []string

	// Refresh bypasses cache reads (writes still happen).
	Refresh bool

	// Logger receives stage logging. Defaults to the runner's logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and fills defaults in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Text == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "text to encode is required")
	}
	if o.ErrorLevel == "" {
		o.ErrorLevel = DefaultErrorLevel
	}
	if _, err := qr.ParseErrorLevel(string(o.ErrorLevel)); err != nil {
		return err
	}
	if o.Style.ModuleSize == 0 && o.Style.Shape == "" {
		o.Style = render.DefaultStyle()
	}
	if err := o.Style.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidConfig, "unsupported format %q", f)
		}
	}
	return nil
}

// analysisOpts derives the analysis cache key options from the style.
func (o *Options) analysisOpts() cluster.Config {
	cfg := cluster.DefaultConfig()
	if o.Style.Cluster.MinSize > 0 {
		cfg.MinClusterSize = o.Style.Cluster.MinSize
	}
	if o.Style.Cluster.DensityThreshold > 0 {
		cfg.DensityThreshold = o.Style.Cluster.DensityThreshold
	}
	return cfg
}

// =============================================================================
// Results
// =============================================================================

// Stats captures per-stage timings and output measures.
type Stats struct {
	EncodeTime      time.Duration `json:"encode_time"`
	CenterpieceTime time.Duration `json:"centerpiece_time"`
	AnalyzeTime     time.Duration `json:"analyze_time"`
	RenderTime      time.Duration `json:"render_time"`

	MatrixSize   int `json:"matrix_size"`
	ModuleCount  int `json:"module_count"`
	ClusterCount int `json:"cluster_count"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	EncodeHit   bool `json:"encode_hit"`
	AnalysisHit bool `json:"analysis_hit"`
	RenderHit   bool `json:"render_hit"`
}

// Result is the complete output of one pipeline execution.
type Result struct {
	Encoded    *qr.Encoded                `json:"-"`
	Matrix     *qr.Matrix                 `json:"-"` // post-centerpiece matrix
	MatrixHash string                     `json:"matrix_hash"`
	Clusters   []*cluster.Cluster         `json:"clusters,omitempty"`
	Treatments []centerpiece.Treatment    `json:"treatments,omitempty"`
	Knockout   *centerpiece.KnockoutStats `json:"knockout,omitempty"`
	Artifacts  map[string][]byte          `json:"-"`
	Stats      Stats                      `json:"stats"`
	CacheInfo  CacheInfo                  `json:"cache_info"`
}
