// Package cluster groups adjacent, same-type active QR modules into
// renderable connected components.
//
// The analyzer walks every active module of the configured types with an
// iterative depth-first search, merges neighbors under 4-way or 8-way
// connectivity, and gates the resulting components on minimum size and
// bounding-box fill density. Accepted clusters carry shape, density and
// connectivity metrics plus rendering hints so a downstream SVG layer can
// decide between one merged path and individual module shapes.
//
// Modules of rejected components stay available for individual rendering:
// callers compute the leftover set as "all active modules minus the union of
// accepted cluster positions", never from traversal state.
//
// # Usage
//
//	a := cluster.NewAnalyzer(cluster.Config{
//	    MinClusterSize:   3,
//	    DensityThreshold: 0.5,
//	    Connectivity:     qr.ConnVonNeumann,
//	})
//	clusters, err := a.Process(m, det, qr.ModuleData)
package cluster
