package system

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
)

// InitResourceLimits raises the open-file limit so long renders with piped
// subprocesses do not run out of descriptors.
func InitResourceLimits(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("could not read file limit", "error", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("could not raise file limit", "error", err)
	} else {
		logger.Debug("open file limit raised", "limit", rLimit.Cur)
	}
}

// MediaDuration probes a media file's duration in seconds with ffprobe.
func MediaDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration); err != nil {
		return 0, fmt.Errorf("ffprobe %q: parse duration: %w", path, err)
	}
	return duration, nil
}

// BestH264Encoder picks the best available h264 encoder: VideoToolbox
// (macOS) first, then NVENC, then software libx264.
func BestH264Encoder() string {
	hardware := []string{"h264_videotoolbox", "h264_nvenc"}

	cmd := exec.Command("ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, enc := range hardware {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// DefaultQuality maps an encoder to a sensible quality knob when the user
// did not pick one.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // bitrate = quality*100 kbit/s
	case "h264_nvenc":
		return 28
	default:
		return 23 // x264 CRF
	}
}
