package vector

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

const mediaType = "image/svg+xml"

// Options is the fixed minification policy for SVG assets.
type Options struct {
	// Passes is the number of optimization passes. A pass that yields no
	// further shrink ends the loop early.
	Passes int
	// Precision is the number of significant digits kept in path and
	// coordinate data.
	Precision int
}

// Strategist minifies SVG files in place of a transcode; the output format
// is always SVG.
type Strategist struct {
	opts Options
	m    *minify.M
}

// New creates an SVG strategist with the given policy.
func New(opts Options) *Strategist {
	if opts.Passes < 1 {
		opts.Passes = 1
	}
	m := minify.New()
	m.Add(mediaType, &svg.Minifier{Precision: opts.Precision})
	return &Strategist{opts: opts, m: m}
}

// Transcode reads the input SVG, optimizes it for the configured number of
// passes, and writes the result to target.
func (s *Strategist) Transcode(_ context.Context, input, target string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	out, err := s.Minify(data)
	if err != nil {
		return fmt.Errorf("failed to optimize %s: %w", input, err)
	}

	if err := os.WriteFile(target, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// Minify runs the configured multi-pass optimization over raw SVG text.
func (s *Strategist) Minify(data []byte) ([]byte, error) {
	out := data
	for i := 0; i < s.opts.Passes; i++ {
		next, err := s.m.Bytes(mediaType, out)
		if err != nil {
			return nil, err
		}
		if len(next) >= len(out) && !bytes.Equal(next, out) {
			// A pass should never grow the document; keep the smaller form.
			break
		}
		stable := bytes.Equal(next, out)
		out = next
		if stable {
			break
		}
	}
	return out, nil
}
