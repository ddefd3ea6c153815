package conifer

import (
	"math"
	"time"
)

// Hand landmark indices, matching the 21-point hand topology produced
// by common hand-tracking models. Landmark coordinates are normalized
// image space: x in [0, 1] with 0 at the image left, y in [0, 1] with 0
// at the top, z roughly depth.
const (
	LandmarkWrist    = 0
	LandmarkThumbTip = 4
	LandmarkIndexTip = 8
	NumLandmarks     = 21
)

// Gesture labels recognized by the interpreter. Other labels are
// ignored.
const (
	LabelOpenPalm   = "Open_Palm"   // issues a CHAOS command
	LabelClosedFist = "Closed_Fist" // issues a FORMED command
)

// Hand is one detected hand: a fixed-size ordered landmark set in
// normalized image space.
type Hand struct {
	Landmarks [NumLandmarks]Vec3
}

// PinchDistance returns the Euclidean distance between the thumb tip
// and index fingertip in normalized landmark space.
func (h *Hand) PinchDistance() float64 {
	return h.Landmarks[LandmarkThumbTip].Dist(h.Landmarks[LandmarkIndexTip])
}

// Classification is one classified gesture label with its confidence
// score in [0, 1].
type Classification struct {
	Label string
	Score float64
}

// GestureFrame is the recognition result for one camera frame: zero or
// more hands, zero or more classified gestures, and a monotonically
// increasing timestamp.
type GestureFrame struct {
	Hands     []Hand
	Gestures  []Classification
	Timestamp time.Duration
}

// SyntheticHand builds a hand with its wrist at horizontal position x
// and the thumb tip and index fingertip separated by pinchDistance.
// Used by gesture scripts, examples, and tests; real frames come from a
// Recognizer.
func SyntheticHand(x, pinchDistance float64) Hand {
	var h Hand
	for i := range h.Landmarks {
		h.Landmarks[i] = Vec3{X: x, Y: 0.5}
	}
	h.Landmarks[LandmarkThumbTip] = Vec3{X: x, Y: 0.5 - pinchDistance/2}
	h.Landmarks[LandmarkIndexTip] = Vec3{X: x, Y: 0.5 + pinchDistance/2}
	return h
}

// InterpreterConfig tunes the gesture-to-control mapping. Zero fields
// take defaults from withDefaults.
type InterpreterConfig struct {
	// Deadzone is the horizontal offset magnitude below which rotation
	// velocity is forced to zero (hand centered means no rotation).
	Deadzone float64
	// Sensitivity scales the deadzone-adjusted offset into a rotation
	// velocity. The sign convention is pinned by Interpret: a hand left
	// of center (positive raw offset) rotates negative.
	Sensitivity float64
	// MinConfidence is the score a classification must exceed to issue
	// a scene-state command.
	MinConfidence float64
	// PinchClose is the distance below which RELEASED transitions to
	// PINCHING. PinchOpen is the strictly larger distance above which
	// PINCHING transitions back. The gap between them is the hysteresis
	// band; a distance oscillating inside it produces no events.
	PinchClose float64
	PinchOpen  float64
	// Throttle, when positive, rate-limits rotation-velocity updates to
	// one per interval; between updates the previous velocity is held.
	// A performance knob, not a correctness requirement.
	Throttle time.Duration
}

func (c InterpreterConfig) withDefaults() InterpreterConfig {
	if c.Deadzone <= 0 {
		c.Deadzone = 0.05
	}
	if c.Sensitivity <= 0 {
		c.Sensitivity = 1.5
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = 0.4
	}
	if c.PinchClose <= 0 {
		c.PinchClose = 0.05
	}
	if c.PinchOpen <= c.PinchClose {
		c.PinchOpen = c.PinchClose + 0.03
	}
	return c
}

// Interpreter derives a ControlSignal from successive GestureFrames.
// The only long-lived state is the pinch hysteresis flag, the held
// rotation velocity, and the last velocity-update timestamp used for
// throttling.
type Interpreter struct {
	cfg InterpreterConfig

	pinching     bool
	lastVelocity float64
	lastEmit     time.Duration
	emitted      bool
}

// NewInterpreter creates an interpreter with defaults applied.
func NewInterpreter(cfg InterpreterConfig) *Interpreter {
	return &Interpreter{cfg: cfg.withDefaults()}
}

// Config returns the interpreter's effective (default-filled) config.
func (in *Interpreter) Config() InterpreterConfig {
	return in.cfg
}

// Pinching reports the current hysteresis state.
func (in *Interpreter) Pinching() bool {
	return in.pinching
}

// Interpret consumes one recognition result and returns the derived
// control signal for that frame.
//
// A frame with no hand emits zero velocity and, if the interpreter was
// PINCHING, a forced PinchEnd; losing the hand must never leave a stuck
// pinch.
func (in *Interpreter) Interpret(frame GestureFrame) ControlSignal {
	var sig ControlSignal

	if len(frame.Hands) == 0 {
		in.lastVelocity = 0
		if in.pinching {
			in.pinching = false
			sig.Pinch = PinchEnd
		}
		return sig
	}
	hand := &frame.Hands[0]

	// One command per frame: the best classification above threshold.
	label := in.bestLabel(frame.Gestures)
	switch label {
	case LabelOpenPalm:
		sig.Command = StateChaos
		sig.HasCommand = true
	case LabelClosedFist:
		sig.Command = StateFormed
		sig.HasCommand = true
	}

	sig.RotationVelocity = in.rotationVelocity(hand, frame.Timestamp)

	// Pinch hysteresis. Entering requires the closing threshold and no
	// concurrent fist (a closing fist passes through pinch distances);
	// leaving requires the strictly larger opening threshold.
	dist := hand.PinchDistance()
	if !in.pinching {
		if dist < in.cfg.PinchClose && label != LabelClosedFist {
			in.pinching = true
			sig.Pinch = PinchStart
		}
	} else if dist > in.cfg.PinchOpen {
		in.pinching = false
		sig.Pinch = PinchEnd
	}

	return sig
}

// bestLabel returns the highest-scoring label above the confidence
// threshold, or "".
func (in *Interpreter) bestLabel(gestures []Classification) string {
	best := ""
	bestScore := in.cfg.MinConfidence
	for _, g := range gestures {
		if g.Score > bestScore {
			best = g.Label
			bestScore = g.Score
		}
	}
	return best
}

// rotationVelocity maps the primary landmark's horizontal position to a
// signed velocity: offset from image center, deadzone-clamped, deadzone
// subtracted from the magnitude (so velocity ramps from zero at the
// band edge), scaled and negated.
func (in *Interpreter) rotationVelocity(hand *Hand, ts time.Duration) float64 {
	if in.cfg.Throttle > 0 && in.emitted && ts-in.lastEmit < in.cfg.Throttle {
		return in.lastVelocity
	}

	raw := 0.5 - hand.Landmarks[LandmarkWrist].X
	v := 0.0
	if math.Abs(raw) > in.cfg.Deadzone {
		v = -math.Copysign((math.Abs(raw)-in.cfg.Deadzone)*in.cfg.Sensitivity, raw)
	}

	in.lastVelocity = v
	in.lastEmit = ts
	in.emitted = true
	return v
}
