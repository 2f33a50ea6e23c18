package portal

import (
	"context"
	"errors"
	"fmt"
)

// GenerateMode selects how the AI backend produces an image.
type GenerateMode uint8

// Generation modes.
const (
	// PromptToImage generates from the prompt alone.
	PromptToImage GenerateMode = iota
	// ImageToImage re-renders InputImage guided by the prompt.
	ImageToImage
	// Inpaint repaints InputImage only where MaskImage has coverage.
	Inpaint
)

// GenerateRequest is the handoff contract between the document core
// and an external image generator.
type GenerateRequest struct {
	Mode   GenerateMode
	Prompt string

	// InputImage is required for ImageToImage and Inpaint.
	InputImage *Pixmap
	// MaskImage is required for Inpaint.
	MaskImage *Pixmap

	Width    int
	Height   int
	Steps    int
	Guidance float64
	// Strength is the denoising strength for ImageToImage, in [0, 1].
	Strength float64

	// Progress, when non-nil, is called between inference steps with
	// (step, total). Called from the worker goroutine.
	Progress func(step, total int)
}

// Generator is an external image generation backend. Generate blocks
// until the image is ready, checking ctx between inference steps;
// cancellation returns an error wrapping ErrCancelled.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Pixmap, error)
}

// GenerateEvent is one message from the generation worker to the UI
// thread. Exactly one terminal event (Done or Err non-zero) is sent,
// preceded by zero or more progress events.
type GenerateEvent struct {
	Step  int
	Total int
	Done  *Pixmap
	Err   error
}

// RunGeneration starts req on gen in a worker goroutine and returns a
// channel of events. The worker never touches the document; the host
// dispatches events on the UI thread and inserts the result via a
// Paste command.
//
// A nil generator yields a single ErrBackendMissing event.
func RunGeneration(ctx context.Context, gen Generator, req GenerateRequest) <-chan GenerateEvent {
	events := make(chan GenerateEvent, 16)
	if gen == nil {
		events <- GenerateEvent{Err: ErrBackendMissing}
		close(events)
		return events
	}

	// Progress callbacks arrive on the worker; forward each one as a
	// message for the UI thread, then call the caller's own callback
	// (which therefore also runs on the worker).
	userProgress := req.Progress
	req.Progress = func(step, total int) {
		select {
		case events <- GenerateEvent{Step: step, Total: total}:
		default:
			// A slow UI drops progress ticks rather than stalling
			// the worker.
		}
		if userProgress != nil {
			userProgress(step, total)
		}
	}

	go func() {
		defer close(events)
		img, err := gen.Generate(ctx, req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				err = fmt.Errorf("generate: %w", ErrCancelled)
			}
			events <- GenerateEvent{Err: err}
			return
		}
		events <- GenerateEvent{Done: img}
	}()
	return events
}
