package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type wireDefaults struct {
	Transcript   string  `yaml:"transcript"`
	Style        string  `yaml:"style"`
	Video        string  `yaml:"video"`
	Output       string  `yaml:"output"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FPS          int     `yaml:"fps"`
	Encoder      string  `yaml:"encoder"`
	Quality      int     `yaml:"quality"`
	CloseTimeout float64 `yaml:"closeTimeout"` // seconds
	Stats        bool    `yaml:"stats"`
}

// ApplyDefaults loads a YAML defaults file and fills in any field the config
// does not already set. Explicit values, from flags or a previous file, win.
func (c *Config) ApplyDefaults(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}

	var w wireDefaults
	if err := yaml.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}

	if c.TranscriptPath == "" {
		c.TranscriptPath = w.Transcript
	}
	if c.StylePath == "" {
		c.StylePath = w.Style
	}
	if c.SourceVideo == "" {
		c.SourceVideo = w.Video
	}
	if c.OutputPath == "" {
		c.OutputPath = w.Output
	}
	if !c.ResolutionSet && w.Width > 0 && w.Height > 0 {
		c.Width, c.Height = w.Width, w.Height
		c.ResolutionSet = true
	}
	if !c.FPSSet && w.FPS > 0 {
		c.FPS = w.FPS
		c.FPSSet = true
	}
	if c.Encoder == "" {
		c.Encoder = w.Encoder
	}
	if c.Quality == 0 {
		c.Quality = w.Quality
	}
	if c.CloseTimeout == 0 && w.CloseTimeout > 0 {
		c.CloseTimeout = time.Duration(w.CloseTimeout * float64(time.Second))
	}
	if w.Stats {
		c.ShowStats = true
	}
	return nil
}
