package qr

import (
	qrcode "github.com/yeqown/go-qrcode/v2"

	"github.com/inkqr/inkqr/pkg/errors"
)

// =============================================================================
// Encoding - Upstream QR Generation
// =============================================================================

// Encoded bundles the generated matrix with the metadata the rest of the
// engine needs.
type Encoded struct {
	Matrix     *Matrix
	Version    Version
	ErrorLevel ErrorLevel
	Text       string
}

// Encode generates a QR symbol for text at the given error-correction level
// and captures it as a boolean matrix. Generation itself is delegated to the
// host QR library; this package only harvests the module grid.
func Encode(text string, level ErrorLevel) (*Encoded, error) {
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "text to encode cannot be empty")
	}

	qrc, err := qrcode.NewWith(text,
		qrcode.WithEncodingMode(qrcode.EncModeByte),
		libErrorLevel(level),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncode, err, "encode %q", text)
	}

	collector := &matrixCollector{}
	if err := qrc.Save(collector); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncode, err, "collect matrix for %q", text)
	}
	if collector.matrix == nil {
		return nil, errors.New(errors.ErrCodeEncode, "QR library produced no matrix for %q", text)
	}

	return &Encoded{
		Matrix:     collector.matrix,
		Version:    EstimateVersion(collector.matrix.Size()),
		ErrorLevel: level,
		Text:       text,
	}, nil
}

// libErrorLevel maps an error level to the host library's encode option.
// The library keeps its level type unexported, so the option constructor is
// the exchange format.
func libErrorLevel(level ErrorLevel) qrcode.EncodeOption {
	switch level {
	case ErrorLevelLow:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case ErrorLevelMedium:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	case ErrorLevelQuart:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case ErrorLevelHighest:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	}
}

// matrixCollector implements the QR library's Writer interface and captures
// the module grid instead of drawing it.
type matrixCollector struct {
	matrix *Matrix
}

func (c *matrixCollector) Write(mat qrcode.Matrix) error {
	size := mat.Width()
	cells := make([][]bool, size)
	for i := range cells {
		cells[i] = make([]bool, size)
	}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		if y < size && x < size {
			cells[y][x] = v.IsSet()
		}
	})

	m, err := NewMatrix(cells)
	if err != nil {
		return err
	}
	c.matrix = m
	return nil
}

func (c *matrixCollector) Close() error { return nil }
