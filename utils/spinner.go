package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Spinner shows a progress indicator while the image is processed.
// It stays silent when its writer is not a terminal.
type Spinner struct {
	w        io.Writer
	enabled  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewSpinner instantiates a Spinner writing to stderr.
func NewSpinner() *Spinner {
	return &Spinner{w: os.Stderr, enabled: IsTerminal(os.Stderr)}
}

// Start starts the process indicator.
func (s *Spinner) Start(message string) {
	if !s.enabled {
		return
	}
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		for {
			for _, r := range `-\|/` {
				select {
				case <-s.stopChan:
					fmt.Fprint(s.w, "\r\x1b[K")
					return
				default:
					fmt.Fprintf(s.w, "\r%s%s %c%s", message, SuccessColor, r, DefaultColor)
					time.Sleep(time.Millisecond * 100)
				}
			}
		}
	}()
}

// Stop stops the process indicator and waits for it to clear its line.
func (s *Spinner) Stop() {
	if s.stopChan == nil {
		return
	}
	close(s.stopChan)
	<-s.done
	s.stopChan = nil
}
