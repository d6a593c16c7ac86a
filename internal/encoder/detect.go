package encoder

import (
	"context"
	"os/exec"
	"strings"

	"github.com/Stryxus/WebTools/internal/logging"
)

// VideoEncoder names an ffmpeg AV1 encoder implementation.
type VideoEncoder string

const (
	EncoderNvenc    VideoEncoder = "av1_nvenc"
	EncoderAMF      VideoEncoder = "av1_amf"
	EncoderQSV      VideoEncoder = "av1_qsv"
	EncoderSoftware VideoEncoder = "libsvtav1"
)

// Lister reports the encoders an ffmpeg build supports. The production
// implementation shells out; tests substitute canned listings.
type Lister interface {
	ListEncoders(ctx context.Context) (string, error)
}

type ffmpegLister struct{}

func (ffmpegLister) ListEncoders(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders").Output()
	return string(out), err
}

// NewLister returns the ffmpeg-backed Lister.
func NewLister() Lister {
	return ffmpegLister{}
}

// Probe queries the encoder listing and picks the AV1 encoder to use. It is
// run per job, not cached, so a driver that appears or disappears between
// jobs is picked up. A failed probe is treated as a software-only build.
func Probe(ctx context.Context, lister Lister) VideoEncoder {
	listing, err := lister.ListEncoders(ctx)
	if err != nil {
		logging.Warn("Could not query ffmpeg encoders, assuming software AV1: %v", err)
		return EncoderSoftware
	}
	return SelectVideoEncoder(listing)
}

// SelectVideoEncoder picks the best available AV1 encoder from an ffmpeg
// -encoders listing. Hardware encoders win over the software path in the
// order NVENC, AMF, QSV; anything unlisted falls back to SVT-AV1.
func SelectVideoEncoder(listing string) VideoEncoder {
	for _, enc := range []VideoEncoder{EncoderNvenc, EncoderAMF, EncoderQSV} {
		if strings.Contains(listing, string(enc)) {
			return enc
		}
	}
	return EncoderSoftware
}
