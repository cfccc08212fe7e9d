package video

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// State is the encoder stream lifecycle. Failed is terminal and reachable
// from every state but Closed.
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateRunning
	StateClosing
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrFrameSize reports a write whose buffer does not match width*height*4.
var ErrFrameSize = errors.New("frame buffer size mismatch")

// ErrEncoderFailed wraps every fatal encoder subprocess failure: startup
// exits, non-zero exit status, and close timeouts.
var ErrEncoderFailed = errors.New("encoder failed")

// Options configures the encoder subprocess and the writer's backpressure.
type Options struct {
	FFmpegPath  string // defaults to "ffmpeg"
	Width       int
	Height      int
	FPS         int
	SourceVideo string // second input; captions are overlaid onto it
	OutputPath  string
	Encoder     string // h264_videotoolbox, h264_nvenc, or libx264
	Quality     int    // CRF for x264, -cq for nvenc, bitrate/100kbit for videotoolbox

	// MaxPendingWrites bounds how many frames may be accepted but not yet
	// flushed to the subprocess pipe. Writes past the bound block until a
	// slot frees. Defaults to 10.
	MaxPendingWrites int

	// StartGrace is how long the subprocess must survive after spawn before
	// Start succeeds. Defaults to 500ms.
	StartGrace time.Duration

	// CloseTimeout bounds the closing phase; past it the subprocess is
	// force-killed and Close fails. Defaults to 30s.
	CloseTimeout time.Duration
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.FFmpegPath == "" {
		out.FFmpegPath = "ffmpeg"
	}
	if out.MaxPendingWrites <= 0 {
		out.MaxPendingWrites = 10
	}
	if out.StartGrace <= 0 {
		out.StartGrace = 500 * time.Millisecond
	}
	if out.CloseTimeout <= 0 {
		out.CloseTimeout = 30 * time.Second
	}
	return out
}

// StreamWriter feeds raw RGBA frames to an encoder subprocess over its input
// pipe. Writes are consumed strictly serially, in write order, by a single
// pump goroutine; the OS pipe's blocking write is the drain-wait, so the
// producer can never run more than MaxPendingWrites frames ahead of the
// encoder.
type StreamWriter struct {
	opts      Options
	logger    *slog.Logger
	frameSize int

	mu            sync.Mutex
	state         State
	pumpErr       error
	written       int64
	pendingClosed bool

	cmd        *exec.Cmd
	procExit   chan error
	procReaped bool
	stderr     *lineRing

	pending chan []byte
	slots   chan struct{}
	pumped  chan struct{}
	pool    sync.Pool
}

// NewStreamWriter builds a writer; Start must be called before Write.
func NewStreamWriter(opts Options, logger *slog.Logger) *StreamWriter {
	if logger == nil {
		logger = slog.Default()
	}
	o := opts.withDefaults()
	w := &StreamWriter{
		opts:      o,
		logger:    logger,
		frameSize: o.Width * o.Height * 4,
		state:     StateNotStarted,
		stderr:    newLineRing(32),
	}
	w.pool.New = func() any { return make([]byte, w.frameSize) }
	return w
}

// Start spawns the encoder subprocess and begins accepting writes. It fails
// when the process cannot be spawned or exits within the grace period.
func (w *StreamWriter) Start() error {
	w.mu.Lock()
	if w.state != StateNotStarted {
		state := w.state
		w.mu.Unlock()
		return fmt.Errorf("video: start in state %s", state)
	}
	w.state = StateStarting
	w.mu.Unlock()

	args := w.buildArgs()
	w.logger.Debug("starting encoder", "path", w.opts.FFmpegPath, "args", strings.Join(args, " "))

	cmd := exec.Command(w.opts.FFmpegPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return w.fail(fmt.Errorf("video: stdin pipe: %w", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return w.fail(fmt.Errorf("video: stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		return w.fail(fmt.Errorf("video: spawn %s: %w", w.opts.FFmpegPath, err))
	}
	w.cmd = cmd

	go w.collectStderr(stderr)

	w.procExit = make(chan error, 1)
	go func() { w.procExit <- cmd.Wait() }()

	// The subprocess must outlive the grace period; an immediate exit means
	// the argument set or the inputs are broken.
	select {
	case err := <-w.procExit:
		w.markReaped()
		return w.fail(fmt.Errorf("video: %w during startup: %v\n%s", ErrEncoderFailed, err, w.stderr.String()))
	case <-time.After(w.opts.StartGrace):
	}

	w.begin(stdin)
	return nil
}

// begin transitions to Running with the given sink. Split from Start so
// tests can drive the writer against a mock stream.
func (w *StreamWriter) begin(sink io.WriteCloser) {
	w.pending = make(chan []byte, w.opts.MaxPendingWrites)
	w.slots = make(chan struct{}, w.opts.MaxPendingWrites)
	w.pumped = make(chan struct{})

	w.mu.Lock()
	w.state = StateRunning
	w.mu.Unlock()

	go w.pump(sink)
}

// pump is the single consumer of the pending queue. It writes frames to the
// pipe in arrival order and releases one backpressure slot per completed
// write, so completions occur in write order.
func (w *StreamWriter) pump(sink io.WriteCloser) {
	defer close(w.pumped)
	for buf := range w.pending {
		_, err := sink.Write(buf)
		w.pool.Put(buf) //nolint:staticcheck // fixed-size frame buffers
		if err != nil {
			// Record the failure before freeing any slot, so a write that
			// unblocks because of it sees the error instead of queueing.
			w.setPumpErr(fmt.Errorf("video: write frame: %w", err))
			<-w.slots
			// Drain remaining frames so blocked producers unstick.
			for range w.pending {
				<-w.slots
			}
			break
		}
		<-w.slots
		w.mu.Lock()
		w.written++
		w.mu.Unlock()
	}
	if err := sink.Close(); err != nil {
		w.setPumpErr(fmt.Errorf("video: close input stream: %w", err))
	}
}

// Write queues one frame for the encoder. The buffer is copied before Write
// returns, so callers may reuse it immediately. Write blocks while
// MaxPendingWrites frames are outstanding.
func (w *StreamWriter) Write(frame []byte) error {
	w.mu.Lock()
	// A failed stream reports its original error, not the state it left
	// the writer in.
	if w.pumpErr != nil {
		err := w.pumpErr
		w.mu.Unlock()
		return err
	}
	if w.state != StateRunning {
		state := w.state
		w.mu.Unlock()
		return fmt.Errorf("video: write in state %s", state)
	}
	w.mu.Unlock()

	if len(frame) != w.frameSize {
		return fmt.Errorf("%w: got %d bytes, want %d (%dx%dx4)",
			ErrFrameSize, len(frame), w.frameSize, w.opts.Width, w.opts.Height)
	}

	w.slots <- struct{}{} // backpressure: blocks while the bound is reached

	// The stream may have failed while this write was blocked on the bound;
	// queueing the frame now would drop it silently.
	w.mu.Lock()
	pumpErr := w.pumpErr
	w.mu.Unlock()
	if pumpErr != nil {
		<-w.slots
		return pumpErr
	}

	buf := w.pool.Get().([]byte)
	copy(buf, frame)
	w.pending <- buf
	return nil
}

// Close signals end-of-input, waits for the queue to drain and the
// subprocess to exit, and reports a non-zero exit or a close timeout as a
// hard failure carrying the captured diagnostic tail. A writer that already
// failed mid-run is still torn down, and the original failure is returned.
func (w *StreamWriter) Close() error {
	w.mu.Lock()
	switch w.state {
	case StateClosed:
		w.mu.Unlock()
		return nil
	case StateRunning, StateFailed:
	default:
		state := w.state
		w.mu.Unlock()
		return w.fail(fmt.Errorf("video: close in state %s", state))
	}
	if w.state == StateRunning {
		w.state = StateClosing
	}
	alreadyClosed := w.pendingClosed
	w.pendingClosed = true
	reaped := w.procReaped
	w.mu.Unlock()

	if w.pending != nil && !alreadyClosed {
		close(w.pending)
	}
	if w.pumped != nil {
		<-w.pumped
	}

	w.mu.Lock()
	stored := w.pumpErr
	w.mu.Unlock()

	if w.cmd != nil && !reaped {
		select {
		case err := <-w.procExit:
			w.markReaped()
			// A non-zero exit after a stream failure is a symptom of it;
			// the stream failure stays the reported error.
			if err != nil && stored == nil {
				return w.fail(fmt.Errorf("video: %w: exit: %v\n%s", ErrEncoderFailed, err, w.stderr.String()))
			}
		case <-time.After(w.opts.CloseTimeout):
			w.cmd.Process.Kill()
			<-w.procExit
			w.markReaped()
			return w.fail(fmt.Errorf("video: %w: did not exit within %s, killed\n%s",
				ErrEncoderFailed, w.opts.CloseTimeout, w.stderr.String()))
		}
	}

	w.mu.Lock()
	err := w.pumpErr
	if err != nil {
		w.state = StateFailed
	} else {
		w.state = StateClosed
	}
	w.mu.Unlock()
	return err
}

// FramesWritten reports frames flushed to the subprocess pipe so far.
func (w *StreamWriter) FramesWritten() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// State returns the current lifecycle state.
func (w *StreamWriter) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *StreamWriter) fail(err error) error {
	w.mu.Lock()
	w.state = StateFailed
	if w.pumpErr == nil {
		w.pumpErr = err
	}
	w.mu.Unlock()
	return err
}

// markReaped records that the single buffered procExit value was consumed,
// so later Close calls do not wait on an already-reaped process.
func (w *StreamWriter) markReaped() {
	w.mu.Lock()
	w.procReaped = true
	w.mu.Unlock()
}

func (w *StreamWriter) setPumpErr(err error) {
	w.mu.Lock()
	if w.pumpErr == nil {
		w.pumpErr = err
	}
	w.state = StateFailed
	w.mu.Unlock()
}

func (w *StreamWriter) collectStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w.stderr.Push(scanner.Text())
	}
}

// buildArgs declares the raw caption stream, the source video, the overlay
// filter, and the output encoding.
func (w *StreamWriter) buildArgs() []string {
	o := w.opts
	args := []string{
		"-y",
		// Input 0: raw caption frames on stdin.
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", o.Width, o.Height),
		"-framerate", fmt.Sprintf("%d", o.FPS),
		"-i", "-",
		// Input 1: the source video the captions sit on.
		"-i", o.SourceVideo,
		"-filter_complex", "[1:v][0:v]overlay=0:0:format=auto[vout]",
		"-map", "[vout]",
		"-map", "1:a?",
		"-c:a", "copy",
		"-r", fmt.Sprintf("%d", o.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", o.Encoder,
	}

	switch o.Encoder {
	case "h264_videotoolbox":
		args = append(args, "-b:v", fmt.Sprintf("%dk", o.Quality*100))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", o.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", o.Quality), "-preset", "medium")
	}

	return append(args, o.OutputPath)
}
