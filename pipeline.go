package conifer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/arborlux/conifer/internal/log"
)

// Errors returned by the pipeline lifecycle.
var (
	ErrAlreadyStarted = errors.New("conifer: pipeline already started")
	ErrNoSource       = errors.New("conifer: pipeline has no frame source")
	ErrNoRecognizer   = errors.New("conifer: pipeline has no recognizer")
)

// Frame is an opaque camera frame handle passed from a Source to a
// Recognizer. The pipeline closes every frame after recognition.
type Frame interface {
	Close() error
}

// Source produces camera frames. Next blocks until a frame is
// available or ctx is done; returning io.EOF ends the pipeline
// cleanly. Close must release the underlying media stream.
type Source interface {
	Next(ctx context.Context) (Frame, error)
	Close() error
}

// Recognizer is the hand-tracking model, treated as a black box that
// turns a frame into a GestureFrame. Close must release the inference
// session.
type Recognizer interface {
	Recognize(ctx context.Context, frame Frame) (GestureFrame, error)
	Close() error
}

// Pipeline runs gesture inference as a background task. It
// self-throttles by only requesting the next frame after the previous
// inference completes (single outstanding request, no overlap), and it
// never blocks the render tick: each derived signal is published into
// the controller's signal cell and picked up whenever the next tick
// runs.
type Pipeline struct {
	source  Source
	rec     Recognizer
	interp  *Interpreter
	ctrl    *Controller
	started bool
	done    chan struct{}
}

// NewPipeline wires a source, recognizer, and interpreter to a
// controller. Start launches the background task.
func NewPipeline(source Source, rec Recognizer, interp *Interpreter, ctrl *Controller) *Pipeline {
	return &Pipeline{
		source: source,
		rec:    rec,
		interp: interp,
		ctrl:   ctrl,
		done:   make(chan struct{}),
	}
}

// Start launches the inference task. It returns an error if the
// pipeline is missing a collaborator or was already started; a failed
// start is terminal for the session, and the render tick simply
// receives no further gesture commands.
func (p *Pipeline) Start(ctx context.Context) error {
	if p.started {
		return ErrAlreadyStarted
	}
	if p.source == nil {
		return ErrNoSource
	}
	if p.rec == nil {
		return ErrNoRecognizer
	}
	p.started = true

	log.Info("gesture pipeline started")
	go p.run(ctx)
	return nil
}

// Done is closed once the inference task has fully torn down,
// including releasing the source and recognizer.
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}

// run is the inference loop. Per-frame errors are swallowed and
// surfaced only as a controller status string; the loop retries on the
// next frame. Cancellation releases the camera stream and inference
// session before returning.
func (p *Pipeline) run(ctx context.Context) {
	defer close(p.done)
	defer func() {
		if err := p.rec.Close(); err != nil {
			log.Warn("recognizer close", "err", err)
		}
		if err := p.source.Close(); err != nil {
			log.Warn("source close", "err", err)
		}
		log.Info("gesture pipeline stopped")
	}()

	for {
		frame, err := p.source.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				p.ctrl.SetStatus("gesture pipeline stopped")
				return
			case errors.Is(err, io.EOF):
				p.ctrl.SetStatus("gesture source ended")
				return
			default:
				p.ctrl.SetStatus(fmt.Sprintf("frame capture: %v", err))
				continue
			}
		}

		gf, err := p.rec.Recognize(ctx, frame)
		if cerr := frame.Close(); cerr != nil {
			log.Debug("frame close", "err", cerr)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				p.ctrl.SetStatus("gesture pipeline stopped")
				return
			}
			p.ctrl.SetStatus(fmt.Sprintf("inference: %v", err))
			continue
		}

		p.ctrl.Publish(p.interp.Interpret(gf))

		select {
		case <-ctx.Done():
			p.ctrl.SetStatus("gesture pipeline stopped")
			return
		default:
		}
	}
}
