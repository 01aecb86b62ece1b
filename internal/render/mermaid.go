package render

import (
	"fmt"
	"strings"

	"archimap/internal/domain"
	"archimap/internal/taxonomy"
)

// arrows maps relationship kinds to Mermaid edge syntax. Structural
// relationships get solid arrows, dependency ones dashed.
var arrows = map[taxonomy.RelationshipKind]string{
	taxonomy.Composition:    "--*",
	taxonomy.Aggregation:    "--o",
	taxonomy.Assignment:     "-->",
	taxonomy.Realization:    "-.->",
	taxonomy.Serving:        "-->",
	taxonomy.Access:         "-.->",
	taxonomy.Influence:      "-.->",
	taxonomy.Association:    "---",
	taxonomy.Triggering:     "-->",
	taxonomy.Flow:           "-.->",
	taxonomy.Specialization: "-->",
}

// Mermaid renders a diagram as Mermaid flowchart text. Nested objects become
// subgraphs.
func Mermaid(m *domain.Model, d *domain.Diagram) string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	for _, obj := range d.Objects {
		writeMermaidObject(&b, m, obj, 1)
	}

	d.Walk(func(obj *domain.DiagramObject) {
		for _, conn := range obj.OutgoingConnections {
			arrow := "---"
			label := ""
			if rel := m.Relationship(conn.RelationshipID); rel != nil {
				if a, ok := arrows[rel.Kind]; ok {
					arrow = a
				}
				label = string(rel.Kind)
			}
			if label != "" {
				fmt.Fprintf(&b, "    %s %s|%s| %s\n", mermaidID(conn.SourceObjectID), arrow, label, mermaidID(conn.TargetObjectID))
			} else {
				fmt.Fprintf(&b, "    %s %s %s\n", mermaidID(conn.SourceObjectID), arrow, mermaidID(conn.TargetObjectID))
			}
		}
	})

	return b.String()
}

func writeMermaidObject(b *strings.Builder, m *domain.Model, obj *domain.DiagramObject, depth int) {
	indent := strings.Repeat("    ", depth)
	label := obj.ElementID
	if elem := m.Element(obj.ElementID); elem != nil {
		label = elem.Name
	}

	if len(obj.Children) == 0 {
		fmt.Fprintf(b, "%s%s[\"%s\"]\n", indent, mermaidID(obj.ID), escapeMermaid(label))
		return
	}

	fmt.Fprintf(b, "%ssubgraph %s[\"%s\"]\n", indent, mermaidID(obj.ID), escapeMermaid(label))
	for _, child := range obj.Children {
		writeMermaidObject(b, m, child, depth+1)
	}
	fmt.Fprintf(b, "%send\n", indent)
}

// mermaidID strips characters Mermaid treats as syntax from generated ids.
func mermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
