// Package qr models a QR code as a boolean module matrix and classifies
// every cell into its structural role.
//
// The package is the foundation of the inkqr engine: everything downstream
// (clustering, centerpiece handling, rendering) consumes matrices and module
// types produced here.
//
// # Architecture
//
//   - Matrix: an immutable-by-convention N×N grid of booleans
//     (true = dark module). Callers own their matrices; operations that
//     change module state clone first.
//   - Version: QR symbol version (1..40 regular, M1..M4 Micro QR), parsed
//     from strings or estimated from matrix size.
//   - Detector: classifies (row, col) into finder, separator, timing,
//     alignment, format, version, dark-module, or data regions, and answers
//     neighbor queries under 4-way or 8-way connectivity.
//
// Classification is a pure function of (row, col, matrix size, version); it
// never consults module on/off state, so a detector built once stays valid
// for any same-size matrix derived from the original.
//
// # Usage
//
//	m, err := qr.Encode("https://example.com", qr.ErrorLevelQuart)
//	if err != nil {
//	    return err
//	}
//	det, err := qr.NewDetector(m.Matrix, m.Version)
//	if err != nil {
//	    return err
//	}
//	mt, _ := det.ModuleTypeAt(0, 0) // qr.ModuleFinder
package qr
