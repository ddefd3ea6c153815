// Package conifer is a dual-state scene engine for gesture-driven
// ornament displays, built for [Ebitengine].
//
// Conifer animates large populations of decorative entities (foliage
// points, baubles, seasonal elements, fairy lights, photo panels)
// between two macroscopic configurations: a scattered CHAOS cloud and
// an assembled FORMED tree shape. Per-entity kinematics use
// framerate-independent damped interpolation, so switching state
// mid-transition smoothly redirects every entity from wherever it
// currently is, with no discontinuity.
//
// # Quick start
//
// Build an [Engine], drive it once per frame, and read transforms out:
//
//	engine := conifer.NewEngine(conifer.Config{})
//	ctrl := engine.Controller()
//
//	func (g *Game) Update() error {
//		engine.Update(1.0 / float64(ebiten.TPS()))
//		return nil
//	}
//
// The bundled [Renderer] projects the entity populations onto an
// ebiten screen, but the engine itself only produces position,
// rotation, and intensity values; any renderer can consume them.
//
// # Gestures
//
// Hand-tracking output enters as [GestureFrame] records, one per
// camera frame. An [Interpreter] turns them into a [ControlSignal]:
// an open palm scatters the scene, a closed fist assembles it,
// horizontal hand offset maps to rotation velocity through a deadzone,
// and thumb-to-index distance drives a hysteresis-debounced pinch.
//
// A [Pipeline] runs recognition as a background task with
// single-outstanding-request back-pressure and publishes each signal
// into the [Controller], which the render tick drains at the start of
// its own update. Camera capture lives in the conifer/capture
// subpackage (via [gocv]); the recognition model itself is supplied by
// the caller behind the [Recognizer] interface.
//
// # Key features
//
// Conifer includes cone-silhouette target generation, a batched
// 15k-point foliage field with a shared eased progress scalar (easing
// via [gween]), per-entity ornament pools with wobble and spin, fairy
// light twinkle intensities, outward-facing photo panels, scripted
// gesture playback for tests and demos, and a photo listing/upload
// service in conifer/photoserver.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [gocv]: https://gocv.io
package conifer
