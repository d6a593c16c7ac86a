package assetkind

import (
	"path/filepath"
	"strings"
)

// Kind is the classification of a file into exactly one transcode pipeline.
type Kind string

const (
	// KindRaster represents a raster image (photo or icon).
	KindRaster Kind = "raster"
	// KindVector represents an SVG vector image.
	KindVector Kind = "vector"
	// KindAudio represents an audio file.
	KindAudio Kind = "audio"
	// KindVideo represents a video file.
	KindVideo Kind = "video"
	// KindFontTTF represents a TrueType font awaiting conversion.
	KindFontTTF Kind = "font-ttf"
	// KindFontWOFF2 represents an already compressed web font.
	KindFontWOFF2 Kind = "font-woff2"
	// KindIgnored represents everything the pipeline does not touch.
	KindIgnored Kind = "ignored"
)

// RasterExtensions maps file extensions to whether they are raster images.
var RasterExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".gif":  true,
}

// VectorExtensions maps file extensions to whether they are vector images.
var VectorExtensions = map[string]bool{
	".svg": true,
}

// AudioExtensions maps file extensions to whether they are audio files.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
}

// VideoExtensions maps file extensions to whether they are video files.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
	".m4v":  true,
}

// FontTTFExtensions maps file extensions to whether they are TrueType fonts.
var FontTTFExtensions = map[string]bool{
	".ttf": true,
}

// FontWOFF2Extensions maps file extensions to whether they are WOFF2 fonts.
var FontWOFF2Extensions = map[string]bool{
	".woff2": true,
}

// Classify returns the Kind for a given path, determined solely from the
// lowercased file extension. Unknown or extensionless paths are ignored.
func Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case RasterExtensions[ext]:
		return KindRaster
	case VectorExtensions[ext]:
		return KindVector
	case AudioExtensions[ext]:
		return KindAudio
	case VideoExtensions[ext]:
		return KindVideo
	case FontTTFExtensions[ext]:
		return KindFontTTF
	case FontWOFF2Extensions[ext]:
		return KindFontWOFF2
	default:
		return KindIgnored
	}
}

// IsWatched reports whether a path belongs to any known category. It is the
// pure filter applied at the watch-subscription boundary so unrelated
// filesystem churn never reaches the dispatcher.
func IsWatched(path string) bool {
	return Classify(path) != KindIgnored
}
