package qr

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/hivetax/hivetax-platform/internal/errors"
)

// FrameSource is the camera collaborator: a stream of captured frames plus a
// Close that releases the underlying device.
type FrameSource interface {
	Frames() <-chan image.Image
	Close() error
}

// ScanSession drains a frame source, decoding each frame until one yields
// text. Results are delivered via the callback; the caller never blocks.
// Stop (or context cancellation, or source exhaustion) releases the frame
// source exactly once, including on error paths.
type ScanSession struct {
	source   FrameSource
	decoder  Decoder
	onResult func(text string)

	stopOnce sync.Once
	done     chan struct{}

	mu  sync.Mutex
	err error
}

func NewScanSession(source FrameSource, decoder Decoder, onResult func(text string)) *ScanSession {
	return &ScanSession{
		source:   source,
		decoder:  decoder,
		onResult: onResult,
		done:     make(chan struct{}),
	}
}

// Start begins draining frames in the background and returns immediately.
func (s *ScanSession) Start(ctx context.Context) {
	go func() {
		defer s.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case frame, ok := <-s.source.Frames():
				if !ok {
					// The camera stopped producing frames before any symbol
					// was read. Manual code entry stays available, so this
					// is reported, never fatal.
					s.setErr(errors.CaptureError("Camera stream ended before a code was read"))
					return
				}

				text, err := s.decoder.DecodeFrame(frame)
				if err != nil {
					// Frames without a decodable symbol are expected; keep
					// scanning until one sticks.
					continue
				}

				s.onResult(text)

				return
			}
		}
	}()
}

// Stop ends the session and releases the camera resource. Safe to call more
// than once and from any goroutine.
func (s *ScanSession) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)

		if err := s.source.Close(); err != nil {
			slog.Warn("Failed to release frame source", slog.String("error", err.Error()))
		}
	})
}

// Done is closed once the session has finished, for callers that need to
// wait for teardown in tests.
func (s *ScanSession) Done() <-chan struct{} {
	return s.done
}

func (s *ScanSession) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// Err reports why the session ended without a result. Nil after a successful
// decode or a deliberate Stop/cancellation.
func (s *ScanSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}
