// Package centerpiece reserves a region of a QR matrix for a logo or
// graphic overlay and applies it safely.
//
// Two mutually exclusive modes exist per invocation:
//
//   - Knockout clears data modules inside the reserve (relying on error
//     correction to recover the lost data), refining the boundary so no
//     jagged single-module protrusions remain.
//   - Imprint never changes a module: it computes per-module visual
//     treatments (opacity, size, blur) for the render layer to de-emphasize
//     the reserved area while keeping the symbol fully scannable.
//
// Geometry (bounds, containment, safe reserve sizing from version and
// error-correction level) is pure calculation; the Manipulator façade routes
// between the processors, enforces the matrix invariant for the whole
// subsystem, and wraps operations in metric spans.
//
// Structural patterns (finder, timing, alignment, format, version, dark
// module, separators) are never cleared; validation reports when a requested
// configuration would endanger them or exceed the error-correction budget.
// Safety findings are advisory: the caller decides whether to shrink the
// centerpiece or proceed, and nothing here silently rewrites a requested
// configuration.
package centerpiece
