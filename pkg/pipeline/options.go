package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/natevvv/osm-vector-map/pkg/render"
)

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 1024.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 1024.0
)

// Options configure one render.
type Options struct {
	// BBox is "minLon,minLat,maxLon,maxLat".
	BBox   string
	Frame  render.Frame
	Format string
	// Merge chains continuing lines of the same group and name before
	// drawing.
	Merge bool
	// Workers bounds the goroutines of the network build; <= 0 uses
	// GOMAXPROCS.
	Workers int
	Styles  render.Styles

	// Progress receives the stage messages.
	Progress func(msg string)
	// OnDraw is called after every drawn line.
	OnDraw render.ProgressFunc
	Logger *log.Logger
}

// ValidateAndSetDefaults fills in the frame size and styles and checks the
// format. The bbox is checked separately by geometry.ParseBBox.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Frame.Width == 0 {
		o.Frame.Width = DefaultWidth
	}
	if o.Frame.Height == 0 {
		o.Frame.Height = DefaultHeight
	}
	if err := o.Frame.Validate(); err != nil {
		return err
	}
	if _, err := render.ParseFormat(o.Format); err != nil {
		return err
	}
	if o.Styles == nil {
		o.Styles = render.DefaultStyles()
	}
	return nil
}

func (o *Options) progress(msg string) {
	if o.Logger != nil {
		o.Logger.Info(msg)
	}
	if o.Progress != nil {
		o.Progress(msg)
	}
}
