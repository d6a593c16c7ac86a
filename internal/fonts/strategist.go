package fonts

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Stryxus/WebTools/internal/logging"
)

// TranscodeTTF reads a TrueType font, rewraps it as WOFF2 and writes the
// result to target. Each stage reports its own failure so a log line tells
// you whether the source or the destination was the problem.
func TranscodeTTF(ctx context.Context, input, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		logging.Error("Failed to read font %s: %v", input, err)
		return fmt.Errorf("read font: %w", err)
	}

	packed, err := ConvertTTF(data)
	if err != nil {
		logging.Error("Failed to convert font %s: %v", input, err)
		return fmt.Errorf("convert font: %w", err)
	}

	if err := os.WriteFile(target, packed, 0644); err != nil {
		logging.Error("Failed to write font %s: %v", target, err)
		return fmt.Errorf("write font: %w", err)
	}
	return nil
}

// CopyWOFF2 mirrors an already web-ready font into the output tree unchanged.
func CopyWOFF2(ctx context.Context, input, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := os.Open(input)
	if err != nil {
		logging.Error("Failed to read font %s: %v", input, err)
		return fmt.Errorf("read font: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		logging.Error("Failed to write font %s: %v", target, err)
		return fmt.Errorf("write font: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		logging.Error("Failed to write font %s: %v", target, err)
		return fmt.Errorf("write font: %w", err)
	}
	return dst.Close()
}
