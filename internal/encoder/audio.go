package encoder

import (
	"context"
	"strconv"
)

// AudioOptions carries the AAC encode settings.
type AudioOptions struct {
	Bitrate    string
	SampleRate int
	Cutoff     int
}

// Audio transcodes any supported audio input to stereo AAC-LC in an MP4
// container, keeping the source's metadata tags.
type Audio struct {
	opts AudioOptions
}

func NewAudio(opts AudioOptions) *Audio {
	return &Audio{opts: opts}
}

func (a *Audio) args(input, target string) []string {
	return []string{
		"-i", input,
		"-map_metadata", "0",
		"-c:a", "aac",
		"-b:a", a.opts.Bitrate,
		"-ar", strconv.Itoa(a.opts.SampleRate),
		"-ac", "2",
		"-cutoff", strconv.Itoa(a.opts.Cutoff),
		target,
	}
}

func (a *Audio) Transcode(ctx context.Context, input, target string) error {
	return runFFmpeg(ctx, a.args(input, target))
}
