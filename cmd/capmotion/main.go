package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/capmotion/internal/config"
	"github.com/ivlev/capmotion/internal/engine"
	"github.com/ivlev/capmotion/internal/system"
)

var buildVersion = "dev"

func main() {
	configPtr := flag.String("config", "", "Path to an optional YAML defaults file; explicit flags win")
	transcriptPtr := flag.String("transcript", "", "Path to the transcript JSON (whisper-style segments and words)")
	stylePtr := flag.String("style", "", "Path to the style/animation config (YAML or JSON)")
	videoPtr := flag.String("video", "", "Path to the source video the captions are overlaid on")
	outputPtr := flag.String("output", "", "Path to the output video (default: <video>_captioned.mp4)")
	widthPtr := flag.Int("width", 1080, "Frame width")
	heightPtr := flag.Int("height", 1920, "Frame height")
	fpsPtr := flag.Int("fps", 30, "Frames per second")
	presetPtr := flag.String("preset", "", "Format preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 = auto; x264/nvenc: CRF 1-51, VideoToolbox: bitrate = Q*100kbit/s)")
	closePtr := flag.Duration("close-timeout", 30*time.Second, "How long to wait for the encoder to finish on shutdown")
	statsPtr := flag.Bool("stats", false, "Report resource usage and write benchmark.log")
	logLevelPtr := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	logger := newLogger(*logLevelPtr)
	system.InitResourceLimits(logger)

	width, height := *widthPtr, *heightPtr
	resolutionSet := flagWasSet("width") || flagWasSet("height")
	switch *presetPtr {
	case "16:9":
		width, height = 1920, 1080
		resolutionSet = true
	case "9:16":
		width, height = 1080, 1920
		resolutionSet = true
	case "4:5":
		width, height = 1080, 1350
		resolutionSet = true
	case "":
	default:
		logger.Error("unknown preset", "preset", *presetPtr)
		os.Exit(2)
	}

	cfg := &config.Config{
		TranscriptPath: *transcriptPtr,
		StylePath:      *stylePtr,
		SourceVideo:    *videoPtr,
		OutputPath:     *outputPtr,
		Width:          width,
		Height:         height,
		FPS:            *fpsPtr,
		ResolutionSet:  resolutionSet,
		FPSSet:         flagWasSet("fps"),
		Quality:        *qualityPtr,
		CloseTimeout:   *closePtr,
		ShowStats:      *statsPtr,
		BuildVersion:   buildVersion,
	}

	if *configPtr != "" {
		if err := cfg.ApplyDefaults(*configPtr); err != nil {
			logger.Error("defaults file", "error", err)
			os.Exit(2)
		}
	}

	if cfg.TranscriptPath == "" || cfg.StylePath == "" || cfg.SourceVideo == "" {
		flag.Usage()
		os.Exit(2)
	}

	if cfg.OutputPath == "" {
		base := filepath.Base(cfg.SourceVideo)
		ext := filepath.Ext(base)
		cfg.OutputPath = filepath.Join(filepath.Dir(cfg.SourceVideo),
			strings.TrimSuffix(base, ext)+"_captioned.mp4")
	}

	if cfg.Encoder == "" {
		cfg.Encoder = system.BestH264Encoder()
		if cfg.Encoder != "libx264" {
			logger.Info("hardware encoder detected", "encoder", cfg.Encoder)
		}
	}
	if cfg.Quality == 0 {
		cfg.Quality = system.DefaultQuality(cfg.Encoder)
	}

	project := engine.NewProject(cfg, logger)
	if err := project.Run(); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Done: %s\n", cfg.OutputPath)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
