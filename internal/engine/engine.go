package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/capmotion/internal/caption"
	"github.com/ivlev/capmotion/internal/config"
	"github.com/ivlev/capmotion/internal/render"
	"github.com/ivlev/capmotion/internal/style"
	"github.com/ivlev/capmotion/internal/surface"
	"github.com/ivlev/capmotion/internal/system"
	"github.com/ivlev/capmotion/internal/transcript"
	"github.com/ivlev/capmotion/internal/video"
)

const progressEvery = 120

// Project ties the whole pipeline together: transcript and style on one
// side, an encoder subprocess on the other, frames flowing in between.
type Project struct {
	Config *config.Config
	logger *slog.Logger
}

func NewProject(cfg *config.Config, logger *slog.Logger) *Project {
	if logger == nil {
		logger = slog.Default()
	}
	return &Project{Config: cfg, logger: logger}
}

func (p *Project) Run() error {
	startTime := time.Now()
	cfg := p.Config

	st, err := style.Load(cfg.StylePath, p.logger)
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}
	p.applyStyleOverrides(st)

	if err := cfg.Validate(); err != nil {
		return err
	}

	tr, err := transcript.Load(cfg.TranscriptPath)
	if err != nil {
		return fmt.Errorf("transcript: %w", err)
	}
	if err := transcript.Normalize(tr, p.logger); err != nil {
		return err
	}

	videoDur, err := system.MediaDuration(cfg.SourceVideo)
	if err != nil {
		return fmt.Errorf("source video: %w", err)
	}

	canvas, err := surface.NewCanvas(cfg.Width, cfg.Height, st.Style.FontFile)
	if err != nil {
		return fmt.Errorf("canvas: %w", err)
	}

	resolver := caption.NewResolver(tr.Segments, st.Animations)
	producer := render.NewProducer(canvas, cfg.Width, cfg.Height, resolver, st.Style, p.logger)

	writer := video.NewStreamWriter(video.Options{
		Width:        cfg.Width,
		Height:       cfg.Height,
		FPS:          cfg.FPS,
		SourceVideo:  cfg.SourceVideo,
		OutputPath:   cfg.OutputPath,
		Encoder:      cfg.Encoder,
		Quality:      cfg.Quality,
		CloseTimeout: cfg.CloseTimeout,
	}, p.logger)

	if err := writer.Start(); err != nil {
		return err
	}

	totalFrames := producer.TotalFrames(videoDur, cfg.FPS)
	p.logger.Info("encoding started",
		"segments", len(tr.Segments),
		"frames", totalFrames,
		"resolution", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"fps", cfg.FPS,
		"encoder", cfg.Encoder)

	g, ctx := errgroup.WithContext(context.Background())
	framesDone := make(chan struct{})

	if cfg.ShowStats {
		g.Go(func() error {
			ticker := time.NewTicker(5 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-framesDone:
					return nil
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if s, err := system.Snapshot(); err == nil {
						p.logger.Info("resources",
							"rss_mb", fmt.Sprintf("%.1f", s.RSSMB()),
							"cpu_pct", fmt.Sprintf("%.1f", s.CPUPercent),
							"sys_mem_pct", fmt.Sprintf("%.1f", s.SysMemPercent))
					}
				}
			}
		})
	}

	g.Go(func() error {
		defer close(framesDone)
		fps := float64(cfg.FPS)
		for f := 0; f < totalFrames; f++ {
			now := float64(f) / fps
			if err := writer.Write(producer.FrameAt(now)); err != nil {
				return fmt.Errorf("frame %d: %w", f, err)
			}
			if f > 0 && f%progressEvery == 0 {
				p.logger.Info("progress",
					"frame", f,
					"total", totalFrames,
					"pct", fmt.Sprintf("%.1f", float64(f)/float64(totalFrames)*100))
			}
		}
		return nil
	})

	runErr := g.Wait()
	closeErr := writer.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return closeErr
	}

	totalTime := time.Since(startTime)
	effFPS := float64(writer.FramesWritten()) / totalTime.Seconds()
	finished := []any{
		"frames", writer.FramesWritten(),
		"took", totalTime.Round(10 * time.Millisecond),
		"effective_fps", fmt.Sprintf("%.1f", effFPS),
		"output", cfg.OutputPath,
	}
	if s, serr := system.Snapshot(); serr == nil {
		finished = append(finished, "rss_mb", fmt.Sprintf("%.1f", s.RSSMB()))
	}
	p.logger.Info("encoding finished", finished...)

	if cfg.ShowStats {
		p.writeBenchmark(writer.FramesWritten(), totalTime, effFPS)
	}
	return nil
}

// applyStyleOverrides lets the style file set resolution and frame rate
// when the caller left them at defaults.
func (p *Project) applyStyleOverrides(st *style.Config) {
	cfg := p.Config
	if st.Width > 0 && st.Height > 0 && !cfg.ResolutionSet {
		cfg.Width, cfg.Height = st.Width, st.Height
	}
	if st.FPS > 0 && !cfg.FPSSet {
		cfg.FPS = st.FPS
	}
}

func (p *Project) writeBenchmark(frames int64, total time.Duration, effFPS float64) {
	entry := fmt.Sprintf("[%s] Build: %s | Transcript: %s | Frames: %d | Total: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.TranscriptPath),
		frames,
		total.Seconds(),
		effFPS,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		p.logger.Warn("benchmark log", "error", err)
		return
	}
	defer f.Close()
	f.WriteString(entry)
}
