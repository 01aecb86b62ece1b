package render

import (
	"fmt"
	"strings"

	"archimap/internal/domain"
	"archimap/internal/taxonomy"
)

// layerFills follows the conventional ArchiMate layer palette.
var layerFills = map[taxonomy.Layer]string{
	taxonomy.LayerMotivation:     "#ccccff",
	taxonomy.LayerStrategy:       "#f5deaa",
	taxonomy.LayerBusiness:       "#ffffb5",
	taxonomy.LayerApplication:    "#b5ffff",
	taxonomy.LayerTechnology:     "#c9e7b7",
	taxonomy.LayerPhysical:       "#c9e7b7",
	taxonomy.LayerImplementation: "#ffe0e0",
	taxonomy.LayerComposite:      "#ffffff",
}

const svgPadding = 20

// SVG renders a diagram as a standalone SVG document. Object bounds are
// taken as-is; child bounds are relative to their parent, matching the
// hierarchical file format.
func SVG(m *domain.Model, d *domain.Diagram) string {
	width, height := canvasSize(d)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `  <title>%s</title>`+"\n", escapeXML(d.Name))

	// Boxes first, then connections on top.
	centers := make(map[string][2]int)
	for _, obj := range d.Objects {
		writeSVGObject(&b, m, obj, 0, 0, centers)
	}

	d.Walk(func(obj *domain.DiagramObject) {
		for _, conn := range obj.OutgoingConnections {
			src, okSrc := centers[conn.SourceObjectID]
			tgt, okTgt := centers[conn.TargetObjectID]
			if !okSrc || !okTgt {
				continue
			}
			points := fmt.Sprintf("%d,%d", src[0], src[1])
			for _, bp := range conn.Bendpoints {
				points += fmt.Sprintf(" %d,%d", bp.X, bp.Y)
			}
			points += fmt.Sprintf(" %d,%d", tgt[0], tgt[1])
			fmt.Fprintf(&b, `  <polyline points="%s" fill="none" stroke="#555555" stroke-width="1"/>`+"\n", points)

			if rel := m.Relationship(conn.RelationshipID); rel != nil {
				mx := (src[0] + tgt[0]) / 2
				my := (src[1] + tgt[1]) / 2
				fmt.Fprintf(&b, `  <text x="%d" y="%d" font-size="9" fill="#555555" text-anchor="middle">%s</text>`+"\n",
					mx, my-3, escapeXML(string(rel.Kind)))
			}
		}
	})

	b.WriteString("</svg>\n")
	return b.String()
}

func writeSVGObject(b *strings.Builder, m *domain.Model, obj *domain.DiagramObject, offsetX, offsetY int, centers map[string][2]int) {
	x := offsetX + obj.Bounds.X
	y := offsetY + obj.Bounds.Y
	w := obj.Bounds.Width
	h := obj.Bounds.Height
	if w <= 0 {
		w = 120
	}
	if h <= 0 {
		h = 50
	}

	centers[obj.ID] = [2]int{x + w/2, y + h/2}

	label := obj.ElementID
	fill := "#ffffff"
	if elem := m.Element(obj.ElementID); elem != nil {
		label = elem.Name
		if layer, err := taxonomy.LayerOf(elem.Kind); err == nil {
			if c, ok := layerFills[layer]; ok {
				fill = c
			}
		}
	}

	fmt.Fprintf(b, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="#333333"/>`+"\n",
		x, y, w, h, fill)
	fmt.Fprintf(b, `  <text x="%d" y="%d" font-size="11" text-anchor="middle">%s</text>`+"\n",
		x+w/2, y+15, escapeXML(label))

	for _, child := range obj.Children {
		writeSVGObject(b, m, child, x, y, centers)
	}
}

// canvasSize derives the viewport from top-level bounds plus padding.
func canvasSize(d *domain.Diagram) (int, int) {
	width, height := 400, 300
	for _, obj := range d.Objects {
		if right := obj.Bounds.X + obj.Bounds.Width + svgPadding; right > width {
			width = right
		}
		if bottom := obj.Bounds.Y + obj.Bounds.Height + svgPadding; bottom > height {
			height = bottom
		}
	}
	return width, height
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
