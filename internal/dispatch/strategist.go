package dispatch

import (
	"context"

	"github.com/Stryxus/WebTools/internal/assetkind"
	"github.com/Stryxus/WebTools/internal/encoder"
	"github.com/Stryxus/WebTools/internal/fonts"
	"github.com/Stryxus/WebTools/internal/media"
	"github.com/Stryxus/WebTools/internal/pathmap"
	"github.com/Stryxus/WebTools/internal/startup"
	"github.com/Stryxus/WebTools/internal/vector"
)

// Strategist is one asset pipeline: it decides where an input's output goes
// and produces that output. Reports is false for pipelines that never change
// the payload, where a size comparison would only state the obvious.
type Strategist interface {
	TargetPath(input string) (string, error)
	Transcode(ctx context.Context, input, target string) error
	Reports() bool
}

// rasterStrategist picks its output extension per file, since the raster
// format decision depends on how deep the input sits in the source tree.
type rasterStrategist struct {
	mapper *pathmap.Mapper
	raster *media.Raster
}

func (s *rasterStrategist) TargetPath(input string) (string, error) {
	base, err := s.mapper.Output(input)
	if err != nil {
		return "", err
	}
	depth, err := s.mapper.Depth(input)
	if err != nil {
		return "", err
	}
	return base + s.raster.TargetExt(depth), nil
}

func (s *rasterStrategist) Transcode(ctx context.Context, input, target string) error {
	return s.raster.Transcode(ctx, input, target)
}

func (s *rasterStrategist) Reports() bool { return true }

// fixedStrategist covers every pipeline whose output extension is a constant.
type fixedStrategist struct {
	mapper    *pathmap.Mapper
	ext       string
	transcode func(ctx context.Context, input, target string) error
	reports   bool
}

func (s *fixedStrategist) TargetPath(input string) (string, error) {
	base, err := s.mapper.Output(input)
	if err != nil {
		return "", err
	}
	return base + s.ext, nil
}

func (s *fixedStrategist) Transcode(ctx context.Context, input, target string) error {
	return s.transcode(ctx, input, target)
}

func (s *fixedStrategist) Reports() bool { return s.reports }

// NewStrategists builds the production pipeline set from the loaded config.
// The lister lets the video pipeline probe available encoders per job.
func NewStrategists(cfg *startup.Config, mapper *pathmap.Mapper, lister encoder.Lister) map[assetkind.Kind]Strategist {
	raster := media.NewRaster(media.RasterOptions{
		MaxDimension:   cfg.RasterMaxDimension,
		AvifQuality:    cfg.AvifQuality,
		PNGCompression: cfg.PNGCompression,
	})
	svg := vector.New(vector.Options{
		Passes:    cfg.SVGPasses,
		Precision: cfg.SVGPrecision,
	})
	audio := encoder.NewAudio(encoder.AudioOptions{
		Bitrate:    cfg.AudioBitrate,
		SampleRate: cfg.AudioSampleRate,
		Cutoff:     cfg.AudioCutoff,
	})
	video := encoder.NewVideo(encoder.VideoOptions{Quality: cfg.VideoQuality}, lister)

	return map[assetkind.Kind]Strategist{
		assetkind.KindRaster:    &rasterStrategist{mapper: mapper, raster: raster},
		assetkind.KindVector:    &fixedStrategist{mapper: mapper, ext: ".svg", transcode: svg.Transcode, reports: true},
		assetkind.KindAudio:     &fixedStrategist{mapper: mapper, ext: ".m4a", transcode: audio.Transcode, reports: true},
		assetkind.KindVideo:     &fixedStrategist{mapper: mapper, ext: ".mp4", transcode: video.Transcode, reports: true},
		assetkind.KindFontTTF:   &fixedStrategist{mapper: mapper, ext: ".woff2", transcode: fonts.TranscodeTTF, reports: true},
		assetkind.KindFontWOFF2: &fixedStrategist{mapper: mapper, ext: ".woff2", transcode: fonts.CopyWOFF2, reports: false},
	}
}
