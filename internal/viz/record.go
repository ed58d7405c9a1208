package viz

import (
	"image"
	"image/gif"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	gifCharW = 8
	gifCharH = 16
)

var ErrNoFrames = errors.New("viz: no frames recorded")

// GIFRecorder collects canvas snapshots with their on-screen durations.
type GIFRecorder struct {
	frames []*image.Paletted
	delays []int
}

func NewGIFRecorder() *GIFRecorder {
	return &GIFRecorder{}
}

// Capture snapshots c, to be shown for d in the animation.
func (r *GIFRecorder) Capture(c *Canvas, d time.Duration) {
	cs := int(d / (10 * time.Millisecond))
	if cs < 2 {
		cs = 2
	}
	r.frames = append(r.frames, c.Image(gifCharW, gifCharH))
	r.delays = append(r.delays, cs)
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

func (r *GIFRecorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0, Image: r.frames, Delay: r.delays}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create gif")
	}
	defer f.Close()
	return errors.Wrap(gif.EncodeAll(f, &anim), "encode gif")
}
