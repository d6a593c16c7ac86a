package startup

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/Stryxus/WebTools/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// Config holds all pipeline configuration. It is populated once at startup
// and never mutated afterwards; every component receives it by value or
// reads individual fields at construction time.
type Config struct {
	// SourceDir is the watched input tree.
	SourceDir string
	// OutputDir is the root of the mirrored output tree.
	OutputDir string
	// CacheDir is provisioned at startup but currently unused. It is the
	// mount point for a future skip-if-unchanged encode cache.
	CacheDir string

	MetricsPort    string
	MetricsEnabled bool

	// Raster image policy
	RasterMaxDimension int
	AvifQuality        int
	PNGCompression     int

	// Vector policy
	SVGPasses    int
	SVGPrecision int

	// Audio policy
	AudioBitrate    string
	AudioSampleRate int
	AudioCutoff     int

	// Video policy
	VideoQuality int
}

// LoadConfig loads and validates configuration from environment variables.
func LoadConfig() (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	sourceDir := getEnv("SOURCE_DIR", "src")
	outputDir := getEnv("OUTPUT_DIR", "dist")
	cacheDir := getEnv("CACHE_DIR", "cache")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	logging.Info("  SOURCE_DIR:       %s", sourceDir)
	logging.Info("  OUTPUT_DIR:       %s", outputDir)
	logging.Info("  CACHE_DIR:        %s", cacheDir)
	logging.Info("  METRICS_PORT:     %s", metricsPort)
	logging.Info("  METRICS_ENABLED:  %v", metricsEnabled)
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	var err error
	sourceDir, err = filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory path: %w", err)
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory path: %w", err)
	}
	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}

	if info, err := os.Stat(sourceDir); err != nil {
		return nil, fmt.Errorf("source directory is not accessible: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", sourceDir)
	}

	config := &Config{
		SourceDir:          sourceDir,
		OutputDir:          outputDir,
		CacheDir:           cacheDir,
		MetricsPort:        metricsPort,
		MetricsEnabled:     metricsEnabled,
		RasterMaxDimension: getEnvInt("RASTER_MAX_DIMENSION", 1440),
		AvifQuality:        getEnvInt("AVIF_QUALITY", 60),
		PNGCompression:     getEnvInt("PNG_COMPRESSION", 9),
		SVGPasses:          getEnvInt("SVG_PASSES", 2),
		SVGPrecision:       getEnvInt("SVG_PRECISION", 3),
		AudioBitrate:       getEnv("AUDIO_BITRATE", "112k"),
		AudioSampleRate:    getEnvInt("AUDIO_SAMPLE_RATE", 44100),
		AudioCutoff:        getEnvInt("AUDIO_CUTOFF", 18000),
		VideoQuality:       getEnvInt("VIDEO_QUALITY", 32),
	}

	return config, nil
}

// EnsureDirs provisions the base output and cache directories. A failure
// here is the one startup condition that aborts the whole run.
func EnsureDirs(config *Config) error {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Source directory (absolute): %s", config.SourceDir)
	logging.Info("  Output directory (absolute): %s", config.OutputDir)
	logging.Info("  Cache directory (absolute):  %s", config.CacheDir)

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := testWriteAccess(config.OutputDir); err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}
	logging.Info("  [OK] Output directory is writable")

	if err := os.MkdirAll(config.CacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	logging.Info("  [OK] Cache directory ready")

	return nil
}

// LogFFmpegAvailability warns at startup when the external encoder is
// missing; audio and video jobs will fail per-job rather than at startup.
func LogFFmpegAvailability() {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ENCODER SETUP")
	logging.Info("------------------------------------------------------------")

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		logging.Warn("  FFmpeg not found in PATH: %v", err)
		logging.Warn("  Audio and video jobs will fail until it is installed")
		return
	}
	logging.Info("  [OK] FFmpeg is available")
}

// LogPipelineStarted logs successful pipeline start.
func LogPipelineStarted(config *Config) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("PIPELINE STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Watching: %s", config.SourceDir)
	logging.Info("  Output:   %s", config.OutputDir)
	if config.MetricsEnabled {
		logging.Info("  Metrics:  http://localhost:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("  Metrics:  DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	logging.Info("============================================================")
	logging.Info("WebTools asset optimizer %s (%s)", Version, Commit)
	logging.Info("  built %s with %s, %s/%s", BuildTime, GoVersion, runtime.GOOS, runtime.GOARCH)
	logging.Info("============================================================")
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("  failed to remove test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("  Invalid %s value %q, using default: %v", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("  Invalid %s value %q, using default: %d", key, value, fallback)
		return fallback
	}
	return parsed
}
