package cli

import (
	"io"
	"testing"

	"github.com/inkqr/inkqr/pkg/pipeline"
	"github.com/inkqr/inkqr/pkg/qr"
	"github.com/inkqr/inkqr/pkg/render"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"render":     false,
		"inspect":    false,
		"validate":   false,
		"clusters":   false,
		"shapes":     false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != pipeline.FormatSVG {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
	got := parseFormats("svg,json")
	if len(got) != 2 || got[0] != "svg" || got[1] != "json" {
		t.Errorf("parseFormats(\"svg,json\") = %v", got)
	}
}

func TestLoadStyleOverride(t *testing.T) {
	style, err := loadStyle("", func(s *render.StyleConfig) {
		s.Shape = render.ShapeNameCircle
		s.ModuleSize = 8
	})
	if err != nil {
		t.Fatal(err)
	}
	if style.Shape != render.ShapeNameCircle || style.ModuleSize != 8 {
		t.Errorf("override not applied: %+v", style)
	}
	// Untouched fields keep their defaults.
	if style.Border != render.DefaultStyle().Border {
		t.Errorf("border changed: %d", style.Border)
	}
}

func TestLoadStyleRejectsInvalidOverride(t *testing.T) {
	if _, err := loadStyle("", func(s *render.StyleConfig) {
		s.Shape = "hexagon"
	}); err == nil {
		t.Fatal("invalid shape should fail validation")
	}
}

func TestBuildPipelineOptions(t *testing.T) {
	opts := &renderOpts{shape: "rounded", moduleSize: 12, border: -1, level: "q"}
	pipelineOpts, err := buildPipelineOptions("hello", "svg,json", opts)
	if err != nil {
		t.Fatal(err)
	}
	if pipelineOpts.Text != "hello" {
		t.Errorf("text = %q", pipelineOpts.Text)
	}
	if pipelineOpts.ErrorLevel != "Q" {
		t.Errorf("level = %q", pipelineOpts.ErrorLevel)
	}
	if pipelineOpts.Style.Shape != "rounded" || pipelineOpts.Style.ModuleSize != 12 {
		t.Errorf("style overrides not applied: %+v", pipelineOpts.Style)
	}
	if len(pipelineOpts.Formats) != 2 {
		t.Errorf("formats = %v", pipelineOpts.Formats)
	}
}

func TestModuleRole(t *testing.T) {
	tests := []struct {
		mt   qr.ModuleType
		want string
	}{
		{qr.ModuleFinder, "function"},
		{qr.ModuleTiming, "function"},
		{qr.ModuleFormat, "function"},
		{qr.ModuleData, "data"},
	}
	for _, tc := range tests {
		if got := moduleRole(tc.mt); got != tc.want {
			t.Errorf("moduleRole(%s) = %q, want %q", tc.mt, got, tc.want)
		}
	}
}

func TestShapeDescriptionsCoverAllShapes(t *testing.T) {
	for _, name := range render.ShapeNames() {
		if shapeDescriptions[name] == "" {
			t.Errorf("shape %q has no description", name)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tc := range tests {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
