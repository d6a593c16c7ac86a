package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	// Force plain output so the assertions see the words, not color codes.
	orig := colorEnabled
	colorEnabled = false
	defer func() { colorEnabled = orig }()

	tests := []struct {
		name   string
		report SizeReport
		want   string
	}{
		{
			name:   "reduced",
			report: FromSizes(1000, 400),
			want:   "reduced 60.0%",
		},
		{
			name:   "gained",
			report: FromSizes(1000, 1250),
			want:   "gained 25.0%",
		},
		{
			name:   "unchanged",
			report: FromSizes(500, 500),
			want:   "unchanged",
		},
		{
			name:   "unavailable",
			report: SizeReport{},
			want:   "size unavailable",
		},
		{
			name:   "empty input with output is a gain",
			report: FromSizes(0, 500),
			want:   "gained",
		},
		{
			name:   "empty input and empty output unchanged",
			report: FromSizes(0, 0),
			want:   "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.report.Render()
			if !strings.Contains(got, tt.want) {
				t.Errorf("Render() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestUnavailableIsNeverNumeric(t *testing.T) {
	orig := colorEnabled
	colorEnabled = false
	defer func() { colorEnabled = orig }()

	got := SizeReport{}.Render()
	if strings.Contains(got, "%") || strings.Contains(got, "0") {
		t.Errorf("invalid report rendered numerically: %q", got)
	}
}

func TestEmptyInputNeverRendersUnchanged(t *testing.T) {
	orig := colorEnabled
	colorEnabled = false
	defer func() { colorEnabled = orig }()

	got := FromSizes(0, 500).Render()
	if strings.Contains(got, "unchanged") {
		t.Errorf("zero-byte input with output rendered as unchanged: %q", got)
	}
	if !strings.Contains(got, "500") {
		t.Errorf("output size missing from render: %q", got)
	}
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	before := filepath.Join(dir, "before.bin")
	after := filepath.Join(dir, "after.bin")

	if err := os.WriteFile(before, make([]byte, 200), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(after, make([]byte, 50), 0o644); err != nil {
		t.Fatal(err)
	}

	r := Compare(before, after)
	if !r.Valid {
		t.Fatal("expected valid report")
	}
	if r.Before != 200 || r.After != 50 {
		t.Errorf("Compare() = %+v, want before=200 after=50", r)
	}
	if r.Delta() != 75 {
		t.Errorf("Delta() = %v, want 75", r.Delta())
	}
}

func TestCompareMissingFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.bin")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if r := Compare(existing, filepath.Join(dir, "missing.bin")); r.Valid {
		t.Error("expected invalid report when after is missing")
	}
	if r := Compare(filepath.Join(dir, "missing.bin"), existing); r.Valid {
		t.Error("expected invalid report when before is missing")
	}
}
