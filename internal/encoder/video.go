package encoder

import (
	"context"
	"strconv"

	"github.com/Stryxus/WebTools/internal/logging"
)

// VideoOptions carries the AV1 encode settings. Quality is interpreted per
// encoder as CQ, QP or CRF; lower is better.
type VideoOptions struct {
	Quality int
}

// Video transcodes video inputs to AV1 in an MP4 container, using whichever
// encoder the running ffmpeg build offers at the time of each job.
type Video struct {
	opts   VideoOptions
	lister Lister
}

func NewVideo(opts VideoOptions, lister Lister) *Video {
	return &Video{opts: opts, lister: lister}
}

func (v *Video) Transcode(ctx context.Context, input, target string) error {
	enc := Probe(ctx, v.lister)
	logging.Debug("Encoding %s with %s", input, enc)
	return runFFmpeg(ctx, v.args(input, target, enc))
}

// args builds the full ffmpeg argument list. Rate control flags differ per
// vendor, so each encoder gets its own quality arguments.
func (v *Video) args(input, target string, enc VideoEncoder) []string {
	q := strconv.Itoa(v.opts.Quality)
	a := []string{"-i", input, "-c:v", string(enc)}

	switch enc {
	case EncoderNvenc:
		a = append(a, "-preset", "p5", "-tune", "hq", "-cq", q, "-b:v", "0")
	case EncoderAMF:
		a = append(a, "-rc", "cqp", "-qp_i", q, "-qp_p", q)
	case EncoderQSV:
		a = append(a, "-global_quality", q)
	default:
		a = append(a, "-preset", "6", "-crf", q)
	}

	a = append(a,
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		target,
	)
	return a
}
