package encoder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/Stryxus/WebTools/internal/logging"
)

// runFFmpeg executes ffmpeg with the given arguments, capturing stderr so a
// failed run surfaces the encoder's own diagnostics.
func runFFmpeg(ctx context.Context, args []string) error {
	full := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)
	logging.Debug("Running: ffmpeg %v", full)

	cmd := exec.CommandContext(ctx, "ffmpeg", full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
