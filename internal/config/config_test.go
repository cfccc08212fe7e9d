package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		TranscriptPath: "transcript.json",
		StylePath:      "style.yaml",
		SourceVideo:    "in.mp4",
		OutputPath:     "out.mp4",
		Width:          1080,
		Height:         1920,
		FPS:            30,
		Encoder:        "libx264",
		Quality:        23,
		CloseTimeout:   30 * time.Second,
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing transcript", func(c *Config) { c.TranscriptPath = "" }, "transcript"},
		{"missing style", func(c *Config) { c.StylePath = "" }, "style"},
		{"missing video", func(c *Config) { c.SourceVideo = "" }, "video"},
		{"missing output", func(c *Config) { c.OutputPath = "" }, "output"},
		{"zero fps", func(c *Config) { c.FPS = 0 }, "fps"},
		{"fps too high", func(c *Config) { c.FPS = 500 }, "fps"},
		{"zero width", func(c *Config) { c.Width = 0 }, "resolution"},
		{"odd height", func(c *Config) { c.Height = 1921 }, "even"},
		{"unknown encoder", func(c *Config) { c.Encoder = "av1_magic" }, "encoder"},
		{"quality out of range", func(c *Config) { c.Quality = 99 }, "quality"},
		{"negative timeout", func(c *Config) { c.CloseTimeout = -time.Second }, "timeout"},
	}

	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: accepted", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.TranscriptPath = ""
	cfg.FPS = 0
	cfg.Width = 1081

	err := cfg.Validate()
	if err == nil {
		t.Fatal("broken config accepted")
	}
	msg := err.Error()
	for _, want := range []string{"transcript", "fps", "even"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestValidateVideotoolboxQuality(t *testing.T) {
	cfg := validConfig()
	cfg.Encoder = "h264_videotoolbox"
	cfg.Quality = 75
	if err := cfg.Validate(); err != nil {
		t.Errorf("videotoolbox bitrate quality rejected: %v", err)
	}
	cfg.Quality = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero videotoolbox quality accepted")
	}
}
