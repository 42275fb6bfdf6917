package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/inkqr/inkqr/pkg/cluster"
	"github.com/inkqr/inkqr/pkg/qr"
)

// =============================================================================
// Cache Serialization
// =============================================================================

// matrixPayload is the cached form of an encoded matrix. Rows serialize as
// '1'/'0' strings to keep entries compact and diffable.
type matrixPayload struct {
	Size    int      `json:"size"`
	Rows    []string `json:"rows"`
	Version string   `json:"version"`
	Level   string   `json:"error_level"`
	Text    string   `json:"text"`
}

func marshalEncoded(e *qr.Encoded) ([]byte, error) {
	n := e.Matrix.Size()
	rows := make([]string, n)
	buf := make([]byte, n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if e.Matrix.At(row, col) {
				buf[col] = '1'
			} else {
				buf[col] = '0'
			}
		}
		rows[row] = string(buf)
	}
	return json.Marshal(matrixPayload{
		Size:    n,
		Rows:    rows,
		Version: e.Version.String(),
		Level:   string(e.ErrorLevel),
		Text:    e.Text,
	})
}

func unmarshalEncoded(data []byte) (*qr.Encoded, error) {
	var p matrixPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if len(p.Rows) != p.Size {
		return nil, fmt.Errorf("matrix payload has %d rows, want %d", len(p.Rows), p.Size)
	}

	cells := make([][]bool, p.Size)
	for row, s := range p.Rows {
		if len(s) != p.Size {
			return nil, fmt.Errorf("matrix payload row %d has %d cells, want %d", row, len(s), p.Size)
		}
		cells[row] = make([]bool, p.Size)
		for col := 0; col < p.Size; col++ {
			cells[row][col] = s[col] == '1'
		}
	}
	m, err := qr.NewMatrix(cells)
	if err != nil {
		return nil, err
	}

	version, err := qr.ParseVersion(p.Version)
	if err != nil {
		version = qr.EstimateVersion(p.Size)
	}
	level, err := qr.ParseErrorLevel(p.Level)
	if err != nil {
		return nil, err
	}
	return &qr.Encoded{Matrix: m, Version: version, ErrorLevel: level, Text: p.Text}, nil
}

func marshalClusters(cs []*cluster.Cluster) ([]byte, error) {
	return json.Marshal(cs)
}

func unmarshalClusters(data []byte) ([]*cluster.Cluster, error) {
	var cs []*cluster.Cluster
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}
