package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docker/go-units"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// Spinner animates a status line on stderr while a long step runs.
//
// A Spinner is also an io.Writer that discards what it is given and counts
// it. Tee a download through it and the status line shows the transferred
// size next to the label.
type Spinner struct {
	label string
	bytes atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	start  sync.Once
	stop   sync.Once

	stopped     atomic.Bool
	interrupted atomic.Bool

	mu    sync.Mutex
	drawn int
}

// newSpinner returns a spinner that also stops when ctx is done.
func newSpinner(ctx context.Context, label string) *Spinner {
	if ctx == nil {
		ctx = context.Background()
	}
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		label:  label,
		ctx:    sctx,
		cancel: cancel,
		exited: make(chan struct{}),
	}
}

// Start begins drawing. Calling it more than once has no effect.
func (s *Spinner) Start() {
	s.start.Do(func() { go s.run() })
}

func (s *Spinner) run() {
	defer close(s.exited)
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) draw(frame string) {
	text := s.status()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(uiOut, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
	s.drawn = max(s.drawn, len(text)+2)
}

// status is the label, followed by the byte count once anything was written.
func (s *Spinner) status() string {
	n := s.bytes.Load()
	if n == 0 {
		return s.label
	}
	return fmt.Sprintf("%s (%s)", s.label, units.HumanSize(float64(n)))
}

// Write counts p toward the displayed size.
func (s *Spinner) Write(p []byte) (int, error) {
	s.bytes.Add(int64(len(p)))
	return len(p), nil
}

// Bytes returns the number of bytes written so far.
func (s *Spinner) Bytes() int64 {
	return s.bytes.Load()
}

// Stop ends the animation and erases the status line. It is safe to call
// more than once and without Start.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.interrupted.Store(s.ctx.Err() != nil)
		s.stopped.Store(true)
		s.cancel()
		s.start.Do(func() { close(s.exited) })
		<-s.exited

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.drawn > 0 {
			fmt.Fprintf(uiOut, "\r%s\r", strings.Repeat(" ", s.drawn))
		}
	})
}

// Succeed stops the spinner and prints msg as a success line.
func (s *Spinner) Succeed(msg string) {
	s.Stop()
	printSuccess("%s", msg)
}

// Fail stops the spinner and prints msg as an error line.
func (s *Spinner) Fail(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the context ended the spinner before Stop did.
func (s *Spinner) Cancelled() bool {
	if s.stopped.Load() {
		return s.interrupted.Load()
	}
	return s.ctx.Err() != nil
}
