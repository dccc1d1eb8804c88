package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/natevvv/osm-vector-map/pkg/feature"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

type SVGOption func(*svgRenderer)

func WithProgress(fn ProgressFunc) SVGOption {
	return func(r *svgRenderer) { r.progress = fn }
}

type svgRenderer struct {
	progress ProgressFunc
}

// RenderSVG draws the scene as an SVG document with one <g> element per
// non-empty group, stacked in draw order. Every line becomes a <path>
// carrying the way id and, when tagged, its name.
func RenderSVG(s *Scene, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	f := s.Frame
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%s" height="%s">`+"\n",
		coord(f.X), coord(f.Y), coord(f.Width), coord(f.Height), coord(f.Width), coord(f.Height))

	total := s.Network.Len()
	drawn := 0
	_ = s.Walk(func(g feature.Group, style Style, lines []*network.Line) error {
		fmt.Fprintf(&buf, `<g id="%s" %s>`+"\n", g, strokeAttrs(style, s.scale))
		for _, l := range lines {
			area := style.Area && l.Closed()
			buf.WriteString(`<path d="`)
			buf.WriteString(s.pathData(l, area))
			fmt.Fprintf(&buf, `" data-way="%d"`, l.WayID)
			if area && style.Fill != "" {
				fmt.Fprintf(&buf, ` fill="%s"`, escape(style.Fill))
			}
			if name := l.Name(); name != "" {
				buf.WriteString(`><title>`)
				buf.WriteString(escape(name))
				buf.WriteString("</title></path>\n")
			} else {
				buf.WriteString("/>\n")
			}
			drawn++
			if r.progress != nil {
				r.progress(drawn, total)
			}
		}
		buf.WriteString("</g>\n")
		return nil
	})

	fmt.Fprintf(&buf, `<text x="%s" y="%s" font-family="sans-serif" font-size="10" dominant-baseline="hanging" fill="#333333">%s</text>`+"\n",
		coord(f.X+5), coord(f.Y+5), Attribution)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func strokeAttrs(style Style, scale float64) string {
	stroke := style.Stroke
	if stroke == "" {
		stroke = "none"
	}
	return fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round" opacity="%s"`,
		escape(stroke), coord(style.ScaledWidth(scale)), coord(opacity(style)))
}

func opacity(style Style) float64 {
	if style.Opacity <= 0 || style.Opacity > 1 {
		return 1
	}
	return style.Opacity
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
