// Package capture bridges a gocv webcam to the conifer gesture
// pipeline. It only acquires frames; recognition stays behind the
// conifer.Recognizer interface.
package capture

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/arborlux/conifer"
)

// ErrNoFrame is returned when the device produced no frame; the
// pipeline treats it as a per-frame error and retries.
var ErrNoFrame = errors.New("capture: no frame from device")

// WebcamFrame wraps a gocv.Mat as a conifer.Frame. Recognizers that
// know about gocv can get at the pixels via Mat.
type WebcamFrame struct {
	mat gocv.Mat
}

// Mat returns the underlying image matrix. Valid until Close.
func (f *WebcamFrame) Mat() *gocv.Mat {
	return &f.mat
}

// Close releases the frame's pixel buffer.
func (f *WebcamFrame) Close() error {
	return f.mat.Close()
}

// Webcam is a conifer.Source backed by a gocv video capture device.
type Webcam struct {
	dev      *gocv.VideoCapture
	deviceID int
}

// Open opens the capture device with the given ID (0 is the default
// camera). The caller owns the stream until Close.
func Open(deviceID int) (*Webcam, error) {
	dev, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open capture device %d: %w", deviceID, err)
	}
	return &Webcam{dev: dev, deviceID: deviceID}, nil
}

// Next grabs the next frame. The read itself is synchronous — the
// pipeline's single-outstanding-request scheduling provides the only
// throttling needed.
func (w *Webcam) Next(ctx context.Context) (conifer.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mat := gocv.NewMat()
	if !w.dev.Read(&mat) || mat.Empty() {
		_ = mat.Close()
		return nil, ErrNoFrame
	}
	return &WebcamFrame{mat: mat}, nil
}

// Close releases the camera stream.
func (w *Webcam) Close() error {
	return w.dev.Close()
}
