package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/natevvv/osm-vector-map/pkg/feature"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

// Background is the land color behind raster output.
const Background = "#f2efe9"

// RenderPNG rasterizes the scene onto a canvas covering the frame.
func RenderPNG(s *Scene, progress ProgressFunc) ([]byte, error) {
	f := s.Frame
	width := int(math.Ceil(f.X + f.Width))
	height := int(math.Ceil(f.Y + f.Height))

	dc := gg.NewContext(width, height)
	if err := setColor(dc, Background, 1); err != nil {
		return nil, err
	}
	dc.Clear()
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	total := s.Network.Len()
	drawn := 0
	err := s.Walk(func(g feature.Group, style Style, lines []*network.Line) error {
		for _, l := range lines {
			if err := s.drawLine(dc, l, style); err != nil {
				return fmt.Errorf("draw %s way %d: %w", g, l.WayID, err)
			}
			drawn++
			if progress != nil {
				progress(drawn, total)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := setColor(dc, "#333333", 1); err != nil {
		return nil, err
	}
	dc.DrawStringAnchored(Attribution, f.X+5, f.Y+5, 0, 1)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Scene) drawLine(dc *gg.Context, l *network.Line, style Style) error {
	points := s.lerp.Line(l.Points)
	trace := func() {
		dc.NewSubPath()
		for i, p := range points {
			if i == 0 {
				dc.MoveTo(p[0], p[1])
			} else {
				dc.LineTo(p[0], p[1])
			}
		}
	}

	alpha := opacity(style)
	if style.Area && l.Closed() && style.Fill != "" {
		trace()
		dc.ClosePath()
		if err := setColor(dc, style.Fill, alpha); err != nil {
			return err
		}
		dc.Fill()
	}
	if style.Stroke == "" {
		return nil
	}
	trace()
	if err := setColor(dc, style.Stroke, alpha); err != nil {
		return err
	}
	dc.SetLineWidth(style.ScaledWidth(s.scale))
	dc.Stroke()
	return nil
}

func setColor(dc *gg.Context, hex string, alpha float64) error {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return err
	}
	dc.SetRGBA(r, g, b, alpha)
	return nil
}
