// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package scene

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// WriteSVG serializes the scene
// as an SVG document.
// The drawing is translated
// so that the scene origin
// sits at the center of the document.
func (s *Scene) WriteSVG(w io.Writer) error {
	fmt.Fprintf(w, "%s", xml.Header)
	e := xml.NewEncoder(w)

	svg := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(int(s.Width))},
			{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(int(s.Height))},
			{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2000/svg"},
		},
	}
	e.EncodeToken(svg)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "transform"}, Value: fmt.Sprintf("translate(%.2f,%.2f)", s.Width/2, s.Height/2)},
			{Name: xml.Name{Local: "font-family"}, Value: "Verdana"},
		},
	}
	e.EncodeToken(g)

	for _, el := range s.Elements() {
		el.encode(e)
	}

	e.EncodeToken(g.End())
	e.EncodeToken(svg.End())
	return e.Flush()
}

func (el *Element) encode(e *xml.Encoder) {
	switch el.Kind {
	case Path:
		if el.Path == "" {
			return
		}
		p := xml.StartElement{
			Name: xml.Name{Local: "path"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "id"}, Value: elemID(el.Class, el.ID)},
				{Name: xml.Name{Local: "d"}, Value: el.Path},
				{Name: xml.Name{Local: "fill"}, Value: "none"},
				{Name: xml.Name{Local: "stroke"}, Value: el.Stroke},
				{Name: xml.Name{Local: "stroke-width"}, Value: format(el.StrokeWidth)},
			},
		}
		if el.Dashed {
			p.Attr = append(p.Attr, xml.Attr{Name: xml.Name{Local: "stroke-dasharray"}, Value: "4,4"})
		}
		p.Attr = appendOpacity(p.Attr, el.Opacity)
		e.EncodeToken(p)
		e.EncodeToken(p.End())
	case Circle:
		c := xml.StartElement{
			Name: xml.Name{Local: "circle"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "id"}, Value: elemID(el.Class, el.ID)},
				{Name: xml.Name{Local: "cx"}, Value: format(el.X)},
				{Name: xml.Name{Local: "cy"}, Value: format(el.Y)},
				{Name: xml.Name{Local: "r"}, Value: format(el.Radius)},
				{Name: xml.Name{Local: "fill"}, Value: el.Fill},
			},
		}
		c.Attr = appendOpacity(c.Attr, el.Opacity)
		e.EncodeToken(c)
		e.EncodeToken(c.End())
	case Text:
		tx := xml.StartElement{
			Name: xml.Name{Local: "text"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "id"}, Value: elemID(el.Class, el.ID)},
				{Name: xml.Name{Local: "transform"}, Value: el.Transform},
				{Name: xml.Name{Local: "text-anchor"}, Value: el.Anchor},
				{Name: xml.Name{Local: "font-size"}, Value: format(el.FontSize)},
				{Name: xml.Name{Local: "fill"}, Value: el.Fill},
				{Name: xml.Name{Local: "dominant-baseline"}, Value: "middle"},
			},
		}
		tx.Attr = appendOpacity(tx.Attr, el.Opacity)
		e.EncodeToken(tx)
		e.EncodeToken(xml.CharData(el.Text))
		e.EncodeToken(tx.End())
	}
}

func appendOpacity(attr []xml.Attr, op float64) []xml.Attr {
	if op >= 1 {
		return attr
	}
	return append(attr, xml.Attr{Name: xml.Name{Local: "opacity"}, Value: format(op)})
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
