package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkqr/inkqr/pkg/errors"
)

func writeStyle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "style.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadStyleOverridesDefaults(t *testing.T) {
	path := writeStyle(t, `
shape = "rounded"
foreground = "#1a1a2e"

[frame]
shape = "circle"

[centerpiece]
enabled = true
shape = "circle"
size = 0.2
mode = "imprint"
`)

	cfg, err := LoadStyle(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Shape != ShapeNameRounded {
		t.Errorf("shape = %s", cfg.Shape)
	}
	if cfg.Foreground != "#1a1a2e" {
		t.Errorf("foreground = %s", cfg.Foreground)
	}
	// Unmentioned fields keep their defaults.
	if cfg.ModuleSize != 10 || cfg.Border != 4 || cfg.Background != "#ffffff" {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
	if cfg.Frame.Shape != FrameNameCircle {
		t.Errorf("frame = %s", cfg.Frame.Shape)
	}
	if !cfg.Centerpiece.Enabled || cfg.Centerpiece.Size != 0.2 {
		t.Errorf("centerpiece = %+v", cfg.Centerpiece)
	}
}

func TestLoadStyleRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"bad shape", `shape = "blob"`, errors.ErrCodeInvalidShape},
		{"bad frame", "[frame]\nshape = \"hexagon\"", errors.ErrCodeInvalidStyle},
		{"bad module size", `module_size = -1.0`, errors.ErrCodeInvalidStyle},
		{"bad centerpiece", "[centerpiece]\nenabled = true\nsize = 0.9", errors.ErrCodeInvalidConfig},
		{"bad toml", `shape = [`, errors.ErrCodeInvalidStyle},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadStyle(writeStyle(t, tc.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tc.code {
				t.Errorf("code = %s, want %s", got, tc.code)
			}
		})
	}
}

func TestLoadStyleMissingFile(t *testing.T) {
	if _, err := LoadStyle("/nonexistent/style.toml"); err == nil {
		t.Error("missing file must fail")
	}
}

func TestDefaultStyleValid(t *testing.T) {
	if err := DefaultStyle().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestFinderColorInheritsForeground(t *testing.T) {
	cfg := DefaultStyle()
	if cfg.finder() != cfg.Foreground {
		t.Error("empty finder color should inherit foreground")
	}
	cfg.FinderColor = "#123456"
	if cfg.finder() != "#123456" {
		t.Error("explicit finder color should win")
	}
}
