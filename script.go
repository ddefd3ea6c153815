package conifer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// scriptStep represents a single action in a gesture script.
type scriptStep struct {
	// Action is one of "hand", "palm", "fist", "lost", "wait".
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`     // wrist horizontal position, default 0.5
	Pinch  float64 `json:"pinch,omitempty"` // fingertip distance, default 0.2 (open)
	Score  float64 `json:"score,omitempty"` // classification confidence, default 0.9
	Frames int     `json:"frames,omitempty"`
}

// gestureScript is the top-level JSON structure for a gesture script.
type gestureScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptPlayer replays a JSON gesture script as deterministic
// GestureFrames, for demos and automated testing of the full pipeline.
// It implements both Source and Recognizer, so a single player can be
// handed to NewPipeline as the frame source and the model.
type ScriptPlayer struct {
	steps     []scriptStep
	cursor    int
	remaining int
	interval  time.Duration
	realtime  bool
	now       time.Duration
	last      GestureFrame
	done      bool
}

// LoadGestureScript parses a JSON gesture script.
//
// Script actions: "palm" and "fist" present a hand plus the matching
// classification, "hand" presents a bare hand, "lost" presents an
// empty frame, and "wait" repeats the previous frame. Each step plays
// for its "frames" count (default 1).
func LoadGestureScript(jsonData []byte) (*ScriptPlayer, error) {
	var script gestureScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	return &ScriptPlayer{
		steps:    script.Steps,
		interval: time.Second / 30,
	}, nil
}

// SetFrameInterval sets the timestamp spacing between frames
// (default 1/30 s).
func (p *ScriptPlayer) SetFrameInterval(d time.Duration) {
	if d > 0 {
		p.interval = d
	}
}

// SetRealtime makes Next sleep one frame interval per frame, so a
// replayed script paces like a live camera instead of spinning.
func (p *ScriptPlayer) SetRealtime(enabled bool) {
	p.realtime = enabled
}

// Done reports whether every step has been played.
func (p *ScriptPlayer) Done() bool {
	return p.done
}

// NextFrame synthesizes the next frame of the script. ok is false once
// the script is exhausted.
func (p *ScriptPlayer) NextFrame() (frame GestureFrame, ok bool) {
	if p.done {
		return GestureFrame{}, false
	}
	if p.remaining == 0 {
		if p.cursor >= len(p.steps) {
			p.done = true
			return GestureFrame{}, false
		}
		st := p.steps[p.cursor]
		p.cursor++
		p.remaining = st.Frames
		if p.remaining <= 0 {
			p.remaining = 1
		}
		p.last = synthesizeFrame(st)
	}
	p.remaining--
	p.now += p.interval
	frame = p.last
	frame.Timestamp = p.now
	return frame, true
}

// synthesizeFrame builds the GestureFrame a step describes. "wait" is
// handled by the caller (it replays the previous frame).
func synthesizeFrame(st scriptStep) GestureFrame {
	if st.Action == "lost" {
		return GestureFrame{}
	}

	x := st.X
	if x == 0 {
		x = 0.5
	}
	pinch := st.Pinch
	if pinch == 0 {
		pinch = 0.2
	}
	score := st.Score
	if score == 0 {
		score = 0.9
	}

	frame := GestureFrame{Hands: []Hand{SyntheticHand(x, pinch)}}
	switch st.Action {
	case "palm":
		frame.Gestures = []Classification{{Label: LabelOpenPalm, Score: score}}
	case "fist":
		frame.Gestures = []Classification{{Label: LabelClosedFist, Score: score}}
	}
	return frame
}

// scriptedFrame is the no-op Frame handle the player emits as a Source.
type scriptedFrame struct{}

func (scriptedFrame) Close() error { return nil }

// Next implements Source. It returns io.EOF once the script is
// exhausted, which ends the pipeline cleanly.
func (p *ScriptPlayer) Next(ctx context.Context) (Frame, error) {
	if p.done {
		return nil, io.EOF
	}
	if p.realtime {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.interval):
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scriptedFrame{}, nil
}

// Recognize implements Recognizer by playing the next scripted frame.
func (p *ScriptPlayer) Recognize(ctx context.Context, _ Frame) (GestureFrame, error) {
	if err := ctx.Err(); err != nil {
		return GestureFrame{}, err
	}
	frame, ok := p.NextFrame()
	if !ok {
		return GestureFrame{}, io.EOF
	}
	return frame, nil
}

// Close implements both Source and Recognizer; the player holds no
// resources.
func (p *ScriptPlayer) Close() error { return nil }
