// Package render turns a classified QR matrix into a styled SVG document.
//
// The entry point is RenderSVG, a functional-options renderer assembling
// background, frame, per-module shapes, unified cluster paths, and imprint
// treatments into one deterministic document. Module shapes implement the
// ModuleShape interface; frames implement cluster.PathClipper so the same
// geometry culls both cluster paths and out-of-frame modules.
//
// Styling is data-driven: a StyleConfig (loadable from a TOML file) selects
// shape, palette, frame, cluster and centerpiece options.
package render
