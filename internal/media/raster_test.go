package media

import (
	"testing"
)

func TestTargetExt(t *testing.T) {
	r := NewRaster(RasterOptions{MaxDimension: 1440})

	tests := []struct {
		name  string
		depth int
		want  string
	}{
		{
			name:  "root level is lossy",
			depth: 1,
			want:  ".avif",
		},
		{
			name:  "icon depth is lossless",
			depth: 2,
			want:  ".png",
		},
		{
			name:  "deep photo is lossy",
			depth: 3,
			want:  ".avif",
		},
		{
			name:  "deeper still lossy",
			depth: 5,
			want:  ".avif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.TargetExt(tt.depth)
			if got != tt.want {
				t.Errorf("TargetExt(%d) = %q, want %q", tt.depth, got, tt.want)
			}
		})
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name       string
		w, h, max  int
		wantW      int
		wantH      int
		wantResize bool
	}{
		{
			name: "within bounds untouched",
			w:    800, h: 600, max: 1440,
			wantW: 800, wantH: 600, wantResize: false,
		},
		{
			name: "exactly at ceiling untouched",
			w:    1440, h: 1440, max: 1440,
			wantW: 1440, wantH: 1440, wantResize: false,
		},
		{
			name: "wide image constrained by width",
			w:    2880, h: 1440, max: 1440,
			wantW: 1440, wantH: 720, wantResize: true,
		},
		{
			name: "tall image constrained by height",
			w:    1000, h: 4000, max: 1440,
			wantW: 360, wantH: 1440, wantResize: true,
		},
		{
			name: "square oversize",
			w:    3000, h: 3000, max: 1440,
			wantW: 1440, wantH: 1440, wantResize: true,
		},
		{
			name: "zero max disables resizing",
			w:    9000, h: 9000, max: 0,
			wantW: 9000, wantH: 9000, wantResize: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, resize := fitWithin(tt.w, tt.h, tt.max)
			if w != tt.wantW || h != tt.wantH || resize != tt.wantResize {
				t.Errorf("fitWithin(%d, %d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.w, tt.h, tt.max, w, h, resize, tt.wantW, tt.wantH, tt.wantResize)
			}
		})
	}
}

func TestFitWithinPreservesAspectRatio(t *testing.T) {
	w, h, _ := fitWithin(3840, 2160, 1440)
	if w > 1440 || h > 1440 {
		t.Errorf("fitWithin produced dimension over ceiling: %dx%d", w, h)
	}

	// Within integer rounding of the source ratio.
	srcRatio := 3840.0 / 2160.0
	gotRatio := float64(w) / float64(h)
	if diff := srcRatio - gotRatio; diff > 0.01 || diff < -0.01 {
		t.Errorf("aspect ratio drifted: source %.4f, got %.4f", srcRatio, gotRatio)
	}
}
