// Package render turns diagrams into drawable projections: a flat graph for
// clients that lay out their own views, Mermaid text, and standalone SVG.
package render

import (
	"fmt"

	"archimap/internal/domain"
	"archimap/internal/taxonomy"
)

// Graph is the derived view of a diagram for client-side visualization.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode represents one diagram object in the visualization.
type GraphNode struct {
	ID     string        `json:"id"`
	Label  string        `json:"label"`
	Kind   string        `json:"kind"`
	Group  string        `json:"group"` // layer name, used for coloring
	Title  string        `json:"title"` // Tooltip content
	Bounds domain.Bounds `json:"bounds"`
}

// GraphEdge represents one diagram connection in the visualization.
type GraphEdge struct {
	ID    string `json:"id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"` // relationship kind
}

// DeriveGraph flattens a diagram into nodes and edges. Nested objects
// contribute nodes like top-level ones; nesting itself is not represented.
func DeriveGraph(m *domain.Model, d *domain.Diagram) *Graph {
	graph := &Graph{
		Nodes: make([]GraphNode, 0, len(d.Objects)),
		Edges: make([]GraphEdge, 0),
	}

	d.Walk(func(obj *domain.DiagramObject) {
		node := GraphNode{
			ID:     obj.ID,
			Label:  obj.ElementID,
			Bounds: obj.Bounds,
		}
		if elem := m.Element(obj.ElementID); elem != nil {
			node.Label = elem.Name
			node.Kind = string(elem.Kind)
			if layer, err := taxonomy.LayerOf(elem.Kind); err == nil {
				node.Group = string(layer)
			}
			node.Title = buildTooltip(elem)
		}
		graph.Nodes = append(graph.Nodes, node)

		for _, conn := range obj.OutgoingConnections {
			edge := GraphEdge{
				ID:   conn.ID,
				From: conn.SourceObjectID,
				To:   conn.TargetObjectID,
			}
			if rel := m.Relationship(conn.RelationshipID); rel != nil {
				edge.Label = string(rel.Kind)
			}
			graph.Edges = append(graph.Edges, edge)
		}
	})

	return graph
}

func buildTooltip(elem *domain.Element) string {
	tooltip := fmt.Sprintf("%s\n%s", elem.Name, elem.Kind)
	if elem.Documentation != "" {
		tooltip += "\n" + elem.Documentation
	}
	return tooltip
}
