package engine

import (
	"testing"

	"github.com/ivlev/capmotion/internal/config"
	"github.com/ivlev/capmotion/internal/style"
)

func TestApplyStyleOverrides(t *testing.T) {
	st := &style.Config{Width: 720, Height: 1280, FPS: 24}

	p := NewProject(&config.Config{Width: 1080, Height: 1920, FPS: 30}, nil)
	p.applyStyleOverrides(st)
	if p.Config.Width != 720 || p.Config.Height != 1280 {
		t.Errorf("style resolution not applied: %dx%d", p.Config.Width, p.Config.Height)
	}
	if p.Config.FPS != 24 {
		t.Errorf("style fps not applied: %d", p.Config.FPS)
	}
}

func TestApplyStyleOverridesExplicitFlagsWin(t *testing.T) {
	st := &style.Config{Width: 720, Height: 1280, FPS: 24}

	p := NewProject(&config.Config{
		Width: 1080, Height: 1920, FPS: 30,
		ResolutionSet: true, FPSSet: true,
	}, nil)
	p.applyStyleOverrides(st)
	if p.Config.Width != 1080 || p.Config.Height != 1920 || p.Config.FPS != 30 {
		t.Errorf("explicit flags overridden: %dx%d @ %d", p.Config.Width, p.Config.Height, p.Config.FPS)
	}
}

func TestApplyStyleOverridesPartialStyle(t *testing.T) {
	// A style file without resolution or fps leaves the config alone.
	p := NewProject(&config.Config{Width: 1080, Height: 1920, FPS: 30}, nil)
	p.applyStyleOverrides(&style.Config{})
	if p.Config.Width != 1080 || p.Config.Height != 1920 || p.Config.FPS != 30 {
		t.Errorf("empty style mutated config: %dx%d @ %d", p.Config.Width, p.Config.Height, p.Config.FPS)
	}
}
