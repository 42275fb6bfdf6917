package qr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inkqr/inkqr/pkg/errors"
)

// =============================================================================
// Version - QR Symbol Version
// =============================================================================

// Version identifies a QR symbol version: 1..40 for regular symbols or
// M1..M4 for Micro QR. The zero value is "unknown" and triggers estimation
// from matrix size where a version is needed.
type Version struct {
	Number int  // 1..40 (regular) or 1..4 (micro)
	Micro  bool // true for Micro QR (M1..M4)
}

// IsZero reports whether the version is unset.
func (v Version) IsZero() bool { return v.Number == 0 }

// String renders the version in its canonical form ("7" or "M2").
func (v Version) String() string {
	if v.IsZero() {
		return "unknown"
	}
	if v.Micro {
		return fmt.Sprintf("M%d", v.Number)
	}
	return strconv.Itoa(v.Number)
}

// Size returns the matrix dimension for the version:
// 4v+17 for regular symbols, 2v+9 for Micro QR.
func (v Version) Size() int {
	if v.Micro {
		return 2*v.Number + 9
	}
	return 4*v.Number + 17
}

// ParseVersion accepts "1".."40" or "M1".."M4" (case-insensitive).
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, errors.New(errors.ErrCodeInvalidVersion, "version cannot be empty")
	}
	if len(s) >= 2 && (s[0] == 'M' || s[0] == 'm') {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 1 || n > 4 {
			return Version{}, errors.New(errors.ErrCodeInvalidVersion, "invalid Micro QR version %q (want M1..M4)", s)
		}
		return Version{Number: n, Micro: true}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrCodeInvalidVersion, err, "invalid version %q", s)
	}
	return NewVersion(n)
}

// NewVersion builds a regular (non-micro) version, validating the 1..40 range.
func NewVersion(n int) (Version, error) {
	if n < 1 || n > 40 {
		return Version{}, errors.New(errors.ErrCodeInvalidVersion, "version %d out of range 1..40", n)
	}
	return Version{Number: n}, nil
}

// EstimateVersion derives a version from a matrix dimension:
// (size-21)/4 + 1 for regular sizes, version 1 otherwise. Micro QR sizes map
// to their M-version. This mirrors the estimate used when the upstream QR
// library does not report a version.
func EstimateVersion(size int) Version {
	if microSizes[size] {
		return Version{Number: (size - 9) / 2, Micro: true}
	}
	if size >= 21 {
		return Version{Number: (size-21)/4 + 1}
	}
	return Version{Number: 1}
}

// =============================================================================
// Error Correction Levels
// =============================================================================

// ErrorLevel is a QR error-correction level.
type ErrorLevel string

// The four standard recovery tiers.
const (
	ErrorLevelLow     ErrorLevel = "L" // ~7% recovery
	ErrorLevelMedium  ErrorLevel = "M" // ~15% recovery
	ErrorLevelQuart   ErrorLevel = "Q" // ~25% recovery
	ErrorLevelHighest ErrorLevel = "H" // ~30% recovery
)

// RecoveryCapacity returns the fraction of total modules the level can
// recover. Unknown levels fall back to the most conservative tier (L).
func (l ErrorLevel) RecoveryCapacity() float64 {
	switch l {
	case ErrorLevelLow:
		return 0.07
	case ErrorLevelMedium:
		return 0.15
	case ErrorLevelQuart:
		return 0.25
	case ErrorLevelHighest:
		return 0.30
	default:
		return 0.07
	}
}

// ParseErrorLevel accepts "L", "M", "Q", "H" (case-insensitive).
func ParseErrorLevel(s string) (ErrorLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L":
		return ErrorLevelLow, nil
	case "M":
		return ErrorLevelMedium, nil
	case "Q":
		return ErrorLevelQuart, nil
	case "H":
		return ErrorLevelHighest, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "invalid error correction level %q (want L, M, Q or H)", s)
	}
}
