// Package pkg provides the core libraries for inkqr QR code styling.
//
// # Overview
//
// inkqr turns text into scannable, styled QR codes. The pkg directory is
// organized into five main areas:
//
//  1. [qr] - Encoding and matrix structure (module-type detection)
//  2. [cluster] - Connected-component analysis of data modules
//  3. [centerpiece] - Reserve geometry, knockout, imprint, validation
//  4. [render] - Module shapes, frames, and SVG assembly
//  5. [pipeline] - Orchestration with caching (encode → analyze → render)
//
// # Architecture
//
// The typical data flow through inkqr:
//
//	Input text
//	     ↓
//	[qr] package (encode + classify modules)
//	     ↓
//	[centerpiece] package (optional logo reserve)
//	     ↓
//	[cluster] package (group data modules for merged paths)
//	     ↓
//	[render] package (shapes, frames, SVG output)
//
// # Quick Start
//
// Render a styled QR code through the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Text: "https://example.com",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("qr.svg", result.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// [qr] - Matrix encoding via yeqown/go-qrcode and position-based module-type
// detection. The Detector classifies every module by its structural role
// (finder, timing, alignment, format, data, ...), independent of the
// module's dark/light state.
//
// [cluster] - Connected-component analysis of same-type active modules with
// density gating, shape classification, and rendering hints for merged
// SVG paths.
//
// [centerpiece] - Center reserve manipulation: geometry (rect, circle,
// squircle), destructive knockout, non-destructive imprint treatments, and
// scanability validation against the error-correction budget.
//
// [render] - SVG assembly: seven module shapes (neighbor-aware where it
// matters), frame clipping, TOML style configuration, and cluster path
// merging. Also renders cluster adjacency graphs via Graphviz.
//
// [pipeline] - Complete encode → analyze → render pipeline used by the CLI
// and library consumers. Stage results are cached (file or Redis backends)
// with content-addressed keys.
//
// Supporting packages: [cache] for the cache backends and key derivation,
// [errors] for coded errors, [observability] for hooks and performance
// monitoring, [buildinfo] for version stamping.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/centerpiece   # Specific package
//
// [qr]: https://pkg.go.dev/github.com/inkqr/inkqr/pkg/qr
// [cluster]: https://pkg.go.dev/github.com/inkqr/inkqr/pkg/cluster
// [centerpiece]: https://pkg.go.dev/github.com/inkqr/inkqr/pkg/centerpiece
// [render]: https://pkg.go.dev/github.com/inkqr/inkqr/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/inkqr/inkqr/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/inkqr/inkqr/pkg/cache
// [errors]: https://pkg.go.dev/github.com/inkqr/inkqr/pkg/errors
// [observability]: https://pkg.go.dev/github.com/inkqr/inkqr/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/inkqr/inkqr/pkg/buildinfo
package pkg
