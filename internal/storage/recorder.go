package storage

import "github.com/san-kum/sortviz/internal/driver"

// Recorder is a driver observer that keeps every frame for Save.
type Recorder struct {
	Frames []driver.Frame
}

func NewRecorder() *Recorder {
	return &Recorder{Frames: make([]driver.Frame, 0)}
}

func (r *Recorder) OnFrame(f driver.Frame) {
	r.Frames = append(r.Frames, f)
}

func (r *Recorder) Reset() {
	r.Frames = r.Frames[:0]
}
