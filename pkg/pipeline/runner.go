package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkqr/inkqr/pkg/cache"
	"github.com/inkqr/inkqr/pkg/centerpiece"
	"github.com/inkqr/inkqr/pkg/cluster"
	"github.com/inkqr/inkqr/pkg/observability"
	"github.com/inkqr/inkqr/pkg/qr"
	"github.com/inkqr/inkqr/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it does not store
// pipeline results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer gets a DefaultKeyer; a nil cache gets a NullCache (caching
// disabled); a nil logger gets log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete encode → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Encode
	encodeStart := time.Now()
	enc, encodeHit, err := r.EncodeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Encoded = enc
	result.Stats.EncodeTime = time.Since(encodeStart)
	result.Stats.MatrixSize = enc.Matrix.Size()
	result.CacheInfo.EncodeHit = encodeHit

	opts.Logger.Info("encoded text",
		"size", enc.Matrix.Size(),
		"version", enc.Version.String(),
		"cache_hit", encodeHit,
		"duration", result.Stats.EncodeTime)

	// Stage 2: Centerpiece
	matrix := enc.Matrix
	if opts.Style.Centerpiece.Enabled {
		cpStart := time.Now()
		matrix, err = r.applyCenterpiece(ctx, result, enc, opts)
		if err != nil {
			return nil, fmt.Errorf("centerpiece: %w", err)
		}
		result.Stats.CenterpieceTime = time.Since(cpStart)

		opts.Logger.Info("applied centerpiece",
			"mode", opts.Style.Centerpiece.Mode,
			"duration", result.Stats.CenterpieceTime)
	}
	result.Matrix = matrix
	result.MatrixHash = matrix.Hash()
	result.Stats.ModuleCount = matrix.CountDark()

	// Stage 3: Analyze
	if opts.Style.Cluster.Enabled {
		analyzeStart := time.Now()
		clusters, analysisHit, err := r.AnalyzeWithCacheInfo(ctx, matrix, enc.Version, opts)
		if err != nil {
			return nil, fmt.Errorf("analyze: %w", err)
		}
		result.Clusters = clusters
		result.Stats.AnalyzeTime = time.Since(analyzeStart)
		result.Stats.ClusterCount = len(clusters)
		result.CacheInfo.AnalysisHit = analysisHit

		opts.Logger.Info("analyzed clusters",
			"clusters", len(clusters),
			"cache_hit", analysisHit,
			"duration", result.Stats.AnalyzeTime)
	}

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cache_hit", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// EncodeWithCacheInfo generates the QR matrix with caching and reports
// whether it came from cache.
func (r *Runner) EncodeWithCacheInfo(ctx context.Context, opts Options) (*qr.Encoded, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	key := r.Keyer.MatrixKey(cache.MatrixKeyOpts{
		Text:       opts.Text,
		ErrorLevel: string(opts.ErrorLevel),
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if enc, err := unmarshalEncoded(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "matrix")
				return enc, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "matrix")
	}

	start := time.Now()
	observability.Pipeline().OnEncodeStart(ctx, len(opts.Text), string(opts.ErrorLevel))
	enc, err := qr.Encode(opts.Text, opts.ErrorLevel)
	observability.Pipeline().OnEncodeComplete(ctx, sizeOf(enc), versionOf(enc), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := marshalEncoded(enc); err == nil {
		_ = r.Cache.Set(ctx, key, data, TTLMatrix)
		observability.Cache().OnCacheSet(ctx, "matrix", len(data))
	}
	return enc, false, nil
}

// Encode is a convenience wrapper discarding the cache hit info.
func (r *Runner) Encode(ctx context.Context, opts Options) (*qr.Encoded, error) {
	enc, _, err := r.EncodeWithCacheInfo(ctx, opts)
	return enc, err
}

// applyCenterpiece routes the configured centerpiece mode and records its
// outputs on the result. Returns the matrix the later stages operate on.
func (r *Runner) applyCenterpiece(ctx context.Context, result *Result, enc *qr.Encoded, opts Options) (*qr.Matrix, error) {
	detector, err := qr.NewDetector(enc.Matrix, enc.Version)
	if err != nil {
		return nil, err
	}
	man, err := centerpiece.NewManipulator(enc.Matrix, detector,
		centerpiece.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	res, err := man.Apply(ctx, opts.Style.Centerpiece)
	if err != nil {
		return nil, err
	}
	result.Treatments = res.Treatments
	result.Knockout = res.Knockout
	return res.Matrix, nil
}

// AnalyzeWithCacheInfo clusters the matrix's data modules with caching.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, m *qr.Matrix, version qr.Version, opts Options) ([]*cluster.Cluster, bool, error) {
	cfg := opts.analysisOpts()
	key := r.Keyer.AnalysisKey(m.Hash(), cache.AnalysisKeyOpts{
		MinClusterSize:   cfg.MinClusterSize,
		DensityThreshold: cfg.DensityThreshold,
		Connectivity:     connectivityName(cfg.Connectivity),
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if clusters, err := unmarshalClusters(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "analysis")
				return clusters, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "analysis")
	}

	detector, err := qr.NewDetector(m, version)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnAnalyzeStart(ctx, m.Size())
	clusters, err := cluster.NewAnalyzer(cfg).Process(m, detector)
	observability.Pipeline().OnAnalyzeComplete(ctx, len(clusters), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := marshalClusters(clusters); err == nil {
		_ = r.Cache.Set(ctx, key, data, TTLAnalysis)
		observability.Cache().OnCacheSet(ctx, "analysis", len(data))
	}
	return clusters, false, nil
}

// RenderWithCacheInfo produces all requested artifacts with caching.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	styleData, err := json.Marshal(opts.Style)
	if err != nil {
		return nil, false, fmt.Errorf("serialize style for cache key: %w", err)
	}
	styleHash := cache.Hash(styleData)

	artifactKey := func(format string) string {
		return r.Keyer.ArtifactKey(result.MatrixHash, cache.ArtifactKeyOpts{
			StyleHash: styleHash,
			Format:    format,
		})
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		allCached := true
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, artifactKey(format))
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
		if allCached {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Style.Shape)
	rendered, err := r.renderArtifacts(result, opts)
	total := 0
	for _, data := range rendered {
		total += len(data)
	}
	observability.Pipeline().OnRenderComplete(ctx, opts.Style.Shape, total, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		_ = r.Cache.Set(ctx, artifactKey(format), data, TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// renderArtifacts builds every requested format from the pipeline state.
func (r *Runner) renderArtifacts(result *Result, opts Options) (map[string][]byte, error) {
	detector, err := qr.NewDetector(result.Matrix, result.Encoded.Version)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			svg, err := render.RenderSVG(result.Matrix,
				render.WithStyle(opts.Style),
				render.WithProvider(detector),
				render.WithClusters(result.Clusters),
				render.WithTreatments(result.Treatments),
			)
			if err != nil {
				return nil, err
			}
			artifacts[FormatSVG] = svg
		case FormatJSON:
			report, err := json.MarshalIndent(buildReport(result), "", "  ")
			if err != nil {
				return nil, err
			}
			artifacts[FormatJSON] = report
		}
	}
	return artifacts, nil
}

// Report is the JSON artifact: everything a caller needs to inspect a
// rendering without re-running the pipeline.
type Report struct {
	Text        string                     `json:"text"`
	Version     string                     `json:"version"`
	ErrorLevel  string                     `json:"error_level"`
	MatrixSize  int                        `json:"matrix_size"`
	ModuleCount int                        `json:"module_count"`
	MatrixHash  string                     `json:"matrix_hash"`
	Clusters    []*cluster.Cluster         `json:"clusters,omitempty"`
	Treatments  []centerpiece.Treatment    `json:"treatments,omitempty"`
	Knockout    *centerpiece.KnockoutStats `json:"knockout,omitempty"`
}

func buildReport(result *Result) Report {
	return Report{
		Text:        result.Encoded.Text,
		Version:     result.Encoded.Version.String(),
		ErrorLevel:  string(result.Encoded.ErrorLevel),
		MatrixSize:  result.Matrix.Size(),
		ModuleCount: result.Matrix.CountDark(),
		MatrixHash:  result.MatrixHash,
		Clusters:    result.Clusters,
		Treatments:  result.Treatments,
		Knockout:    result.Knockout,
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func sizeOf(enc *qr.Encoded) int {
	if enc == nil {
		return 0
	}
	return enc.Matrix.Size()
}

func versionOf(enc *qr.Encoded) string {
	if enc == nil {
		return ""
	}
	return enc.Version.String()
}

func connectivityName(c qr.Connectivity) string {
	if c == qr.ConnMoore {
		return "moore"
	}
	return "von_neumann"
}
