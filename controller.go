package conifer

import "sync/atomic"

// PinchEdge is a one-shot pinch transition event. Each hysteresis
// transition emits exactly one edge, never a level signal.
type PinchEdge uint8

const (
	PinchNone  PinchEdge = iota // no transition this frame
	PinchStart                  // RELEASED -> PINCHING
	PinchEnd                    // PINCHING -> RELEASED
)

// ControlSignal is the ephemeral per-frame output of the gesture
// interpreter: a continuous rotation velocity, an optional scene-state
// command, and a pinch edge.
type ControlSignal struct {
	// RotationVelocity is the signed rotation speed in radians per
	// second derived from horizontal hand offset.
	RotationVelocity float64
	// Command is the requested scene state; only meaningful when
	// HasCommand is true.
	Command    SceneState
	HasCommand bool
	// Pinch is the debounced pinch transition, if any.
	Pinch PinchEdge
}

// Controller holds the authoritative SceneState and rotation speed. It
// is the single source of truth the transition engine reads each tick.
//
// Signals cross from the inference task to the render tick through a
// single-writer/single-reader cell: the gesture task publishes, the
// render tick drains at the start of its update. Staleness is fine —
// reading the previous frame's signal is expected degradation, not a
// bug.
type Controller struct {
	state         SceneState
	rotationSpeed float64
	angle         float64

	signal atomic.Pointer[ControlSignal]
	status atomic.Pointer[string]

	onPinch func(PinchEdge)
}

// NewController creates a controller in StateChaos with zero rotation.
func NewController() *Controller {
	return &Controller{}
}

// State returns the current scene state.
func (c *Controller) State() SceneState {
	return c.state
}

// SetState sets the scene state directly, bypassing gesture input.
func (c *Controller) SetState(s SceneState) {
	c.state = s
}

// Toggle flips between CHAOS and FORMED.
func (c *Controller) Toggle() {
	if c.state == StateChaos {
		c.state = StateFormed
	} else {
		c.state = StateChaos
	}
}

// RotationSpeed returns the current rotation velocity in radians per
// second. It holds its last value when gesture input stops arriving.
func (c *Controller) RotationSpeed() float64 {
	return c.rotationSpeed
}

// Angle returns the accumulated scene rotation in radians.
func (c *Controller) Angle() float64 {
	return c.angle
}

// OnPinch registers a callback fired from the render tick whenever a
// pinch edge is drained. Typical use: cycling photo focus on
// PinchStart.
func (c *Controller) OnPinch(fn func(PinchEdge)) {
	c.onPinch = fn
}

// Publish stores a signal for the render tick to drain. Called by the
// gesture task; there must be exactly one concurrent writer.
func (c *Controller) Publish(sig ControlSignal) {
	c.signal.Store(&sig)
}

// drain consumes the most recently published signal, applies it, and
// advances the rotation angle. Called once per tick by Engine.Update.
func (c *Controller) drain(dt float64) {
	if sig := c.signal.Swap(nil); sig != nil {
		c.rotationSpeed = sig.RotationVelocity
		if sig.HasCommand {
			c.state = sig.Command
		}
		if sig.Pinch != PinchNone && c.onPinch != nil {
			c.onPinch(sig.Pinch)
		}
	}
	c.angle += c.rotationSpeed * dt
}

// SetStatus records a human-readable pipeline status string (terminal
// init failures, per-frame inference errors). Safe to call from the
// gesture task.
func (c *Controller) SetStatus(s string) {
	c.status.Store(&s)
}

// Status returns the last recorded pipeline status, or "" if none.
func (c *Controller) Status() string {
	if s := c.status.Load(); s != nil {
		return *s
	}
	return ""
}
