package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the root run configuration, constructed once in main and passed
// by reference into each component. There is no global configuration.
type Config struct {
	TranscriptPath string
	StylePath      string
	SourceVideo    string
	OutputPath     string

	Width  int
	Height int
	FPS    int

	// Set when the caller gave these explicitly, so style-file values
	// do not override them.
	ResolutionSet bool
	FPSSet        bool

	Encoder string // h264_videotoolbox, h264_nvenc, libx264
	Quality int

	CloseTimeout time.Duration

	ShowStats    bool
	BuildVersion string
}

// Validate reports every configuration problem at once, before any rendering
// work begins.
func (c *Config) Validate() error {
	var errs []error

	if c.TranscriptPath == "" {
		errs = append(errs, errors.New("transcript path is required"))
	}
	if c.StylePath == "" {
		errs = append(errs, errors.New("style path is required"))
	}
	if c.SourceVideo == "" {
		errs = append(errs, errors.New("source video path is required"))
	}
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output path is required"))
	}

	if c.FPS <= 0 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps %d out of range (1-240)", c.FPS))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("resolution %dx%d must be positive", c.Width, c.Height))
	}
	// yuv420p output needs even dimensions.
	if c.Width%2 != 0 || c.Height%2 != 0 {
		errs = append(errs, fmt.Errorf("resolution %dx%d must be even", c.Width, c.Height))
	}

	switch c.Encoder {
	case "h264_videotoolbox":
		if c.Quality <= 0 {
			errs = append(errs, fmt.Errorf("quality %d invalid for %s", c.Quality, c.Encoder))
		}
	case "h264_nvenc", "libx264", "":
		if c.Quality < 1 || c.Quality > 51 {
			errs = append(errs, fmt.Errorf("quality %d out of range (1-51)", c.Quality))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown encoder %q", c.Encoder))
	}

	if c.CloseTimeout < 0 {
		errs = append(errs, errors.New("close timeout must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
