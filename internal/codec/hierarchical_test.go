package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"archimap/internal/domain"
	"archimap/internal/taxonomy"
)

// buildTestModel assembles a model touching every hierarchical feature:
// properties, both qualified relationship kinds, and a diagram with nesting,
// connections and bendpoints.
func buildTestModel() *domain.Model {
	m := domain.NewDefaultModel("Enterprise")
	m.Documentation = "Reference architecture"

	actor := domain.NewElement(taxonomy.BusinessActor, "Customer")
	actor.Documentation = "External party"
	actor.SetProperty("segment", "retail")
	process := domain.NewElement(taxonomy.BusinessProcess, "Order Handling")
	object := domain.NewElement(taxonomy.BusinessObject, "Order")
	goal := domain.NewElement(taxonomy.Goal, "Fast Delivery")
	m.AddElement(actor).AddElement(process).AddElement(object).AddElement(goal)

	assign := domain.NewRelationship(taxonomy.Assignment, actor.ID, process.ID)
	access := domain.NewRelationship(taxonomy.Access, process.ID, object.ID)
	access.Access = domain.AccessWrite
	influence := domain.NewRelationship(taxonomy.Influence, process.ID, goal.ID)
	influence.Influence = "++"
	m.AddRelationship(assign).AddRelationship(access).AddRelationship(influence)

	d := domain.NewDiagram("Overview")
	d.Viewpoint = "layered"
	parent := domain.NewDiagramObject(actor.ID, domain.Bounds{X: 10, Y: 20, Width: 200, Height: 120})
	child := domain.NewDiagramObject(process.ID, domain.Bounds{X: 15, Y: 30, Width: 100, Height: 40})
	parent.Children = append(parent.Children, child)
	target := domain.NewDiagramObject(object.ID, domain.Bounds{X: 300, Y: 20, Width: 120, Height: 55})
	conn := domain.NewDiagramConnection(access.ID, child.ID, target.ID)
	conn.Bendpoints = []domain.Bendpoint{{X: 250, Y: 40}, {X: 270, Y: 60}}
	child.OutgoingConnections = append(child.OutgoingConnections, conn)
	target.IncomingConnectionIDs = append(target.IncomingConnectionIDs, conn.ID)
	d.AddObject(parent)
	d.AddObject(target)
	m.AddDiagram(d)

	return m
}

func TestHierarchicalRoundTrip(t *testing.T) {
	codec := NewHierarchical()
	original := buildTestModel()

	var buf bytes.Buffer
	if err := codec.Export(original, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	res, err := codec.Parse(&buf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(res.Skipped) != 0 {
		t.Fatalf("unexpected skipped entries: %v", res.Skipped)
	}
	m := res.Model

	t.Run("model attributes", func(t *testing.T) {
		if m.ID != original.ID || m.Name != original.Name || m.Version != original.Version {
			t.Errorf("model header mismatch: got %s/%s/%s", m.ID, m.Name, m.Version)
		}
		if m.Documentation != "Reference architecture" {
			t.Errorf("expected purpose to round-trip, got %q", m.Documentation)
		}
	})

	t.Run("folder structure", func(t *testing.T) {
		if len(m.Folders) != len(original.Folders) {
			t.Fatalf("expected %d folders, got %d", len(original.Folders), len(m.Folders))
		}
		business := m.FindFolder(taxonomy.FolderBusiness)
		if business == nil || len(business.Elements) != 3 {
			t.Fatalf("expected 3 business elements, got %+v", business)
		}
		motivation := m.FindFolder(taxonomy.FolderMotivation)
		if motivation == nil || len(motivation.Elements) != 1 {
			t.Fatalf("expected 1 motivation element, got %+v", motivation)
		}
	})

	t.Run("element payload", func(t *testing.T) {
		var actor *domain.Element
		m.WalkElements(func(e *domain.Element) {
			if e.Name == "Customer" {
				actor = e
			}
		})
		if actor == nil {
			t.Fatal("Customer element missing")
		}
		if actor.Kind != taxonomy.BusinessActor {
			t.Errorf("expected BusinessActor, got %s", actor.Kind)
		}
		if actor.Documentation != "External party" {
			t.Errorf("expected documentation to round-trip, got %q", actor.Documentation)
		}
		if v, ok := actor.GetProperty("segment"); !ok || v != "retail" {
			t.Errorf("expected segment=retail property, got %q (ok=%v)", v, ok)
		}
	})

	t.Run("relationship qualifiers", func(t *testing.T) {
		if len(m.Relationships) != 3 {
			t.Fatalf("expected 3 relationships, got %d", len(m.Relationships))
		}
		for _, rel := range m.Relationships {
			switch rel.Kind {
			case taxonomy.Access:
				if rel.Access != domain.AccessWrite {
					t.Errorf("expected write access, got %s", rel.Access)
				}
			case taxonomy.Influence:
				if rel.Influence != "++" {
					t.Errorf("expected ++ strength, got %s", rel.Influence)
				}
			}
		}
	})

	t.Run("diagram shape", func(t *testing.T) {
		if len(m.Diagrams) != 1 {
			t.Fatalf("expected 1 diagram, got %d", len(m.Diagrams))
		}
		d := m.Diagrams[0]
		if d.Name != "Overview" || d.Viewpoint != "layered" {
			t.Errorf("diagram header mismatch: %s/%s", d.Name, d.Viewpoint)
		}
		if len(d.Objects) != 2 {
			t.Fatalf("expected 2 top-level objects, got %d", len(d.Objects))
		}
		parent := d.Objects[0]
		if len(parent.Children) != 1 {
			t.Fatalf("expected 1 nested object, got %d", len(parent.Children))
		}
		nested := parent.Children[0]
		if nested.Bounds != (domain.Bounds{X: 15, Y: 30, Width: 100, Height: 40}) {
			t.Errorf("nested bounds mismatch: %+v", nested.Bounds)
		}
		if len(nested.OutgoingConnections) != 1 {
			t.Fatalf("expected 1 connection, got %d", len(nested.OutgoingConnections))
		}
		conn := nested.OutgoingConnections[0]
		if len(conn.Bendpoints) != 2 || conn.Bendpoints[1] != (domain.Bendpoint{X: 270, Y: 60}) {
			t.Errorf("bendpoints mismatch: %+v", conn.Bendpoints)
		}
		tgt := d.Objects[1]
		if len(tgt.IncomingConnectionIDs) != 1 || tgt.IncomingConnectionIDs[0] != conn.ID {
			t.Errorf("incoming connection ids mismatch: %v", tgt.IncomingConnectionIDs)
		}
	})
}

func TestHierarchicalParse(t *testing.T) {
	codec := NewHierarchical()

	t.Run("skips unknown element types", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="UTF-8"?>
<archimate:model xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:archimate="http://www.archimatetool.com/archimate" name="m" id="id-1" version="1.0">
  <folder name="Business" id="id-f1" type="business">
    <element xsi:type="archimate:BusinessActor" id="id-e1" name="Actor"/>
    <element xsi:type="archimate:Widget" id="id-e2" name="Mystery"/>
  </folder>
</archimate:model>`
		res, err := codec.Parse(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(res.Skipped) != 1 {
			t.Fatalf("expected 1 skipped entry, got %v", res.Skipped)
		}
		if res.Skipped[0].Type != "archimate:Widget" || res.Skipped[0].Context != "Business" {
			t.Errorf("unexpected skipped entry: %+v", res.Skipped[0])
		}
		if res.Model.Element("id-e1") == nil {
			t.Error("expected known element to survive")
		}
		if res.Model.Element("id-e2") != nil {
			t.Error("expected unknown element to be dropped")
		}
	})

	t.Run("untagged subfolders inherit the parent kind", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="UTF-8"?>
<archimate:model xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:archimate="http://www.archimatetool.com/archimate" name="m" id="id-1" version="1.0">
  <folder name="Relations" id="id-f1" type="relations">
    <folder name="Legacy" id="id-f2">
      <element xsi:type="archimate:ServingRelationship" id="id-r1" source="id-a" target="id-b"/>
    </folder>
  </folder>
</archimate:model>`
		res, err := codec.Parse(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(res.Model.Relationships) != 1 {
			t.Fatalf("expected nested relationship to be collected, got %d", len(res.Model.Relationships))
		}
		if res.Model.Relationships[0].Kind != taxonomy.Serving {
			t.Errorf("expected Serving, got %s", res.Model.Relationships[0].Kind)
		}
	})

	t.Run("numeric access codes", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="UTF-8"?>
<archimate:model xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:archimate="http://www.archimatetool.com/archimate" name="m" id="id-1" version="1.0">
  <folder name="Relations" id="id-f1" type="relations">
    <element xsi:type="archimate:AccessRelationship" id="id-r1" source="id-a" target="id-b" accessType="1"/>
  </folder>
</archimate:model>`
		res, err := codec.Parse(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if res.Model.Relationships[0].Access != domain.AccessRead {
			t.Errorf("expected read access, got %s", res.Model.Relationships[0].Access)
		}
	})

	t.Run("missing id is invalid", func(t *testing.T) {
		doc := `<?xml version="1.0"?><archimate:model xmlns:archimate="http://www.archimatetool.com/archimate" name="m"/>`
		_, err := codec.Parse(strings.NewReader(doc))
		if !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("expected ErrInvalidDocument, got %v", err)
		}
	})

	t.Run("malformed XML is invalid", func(t *testing.T) {
		_, err := codec.Parse(strings.NewReader("not xml at all <"))
		if !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("expected ErrInvalidDocument, got %v", err)
		}
	})
}

func TestHierarchicalExportSynthesis(t *testing.T) {
	codec := NewHierarchical()

	t.Run("synthesizes relations and views folders", func(t *testing.T) {
		m := domain.NewModel("bare")
		m.Folders = []*domain.Folder{domain.NewFolder("Business", taxonomy.FolderBusiness)}
		actor := domain.NewElement(taxonomy.BusinessActor, "Actor")
		m.AddElement(actor)
		m.AddRelationship(domain.NewRelationship(taxonomy.Association, actor.ID, actor.ID))
		m.AddDiagram(domain.NewDiagram("View"))

		var buf bytes.Buffer
		if err := codec.Export(m, &buf); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		res, err := codec.Parse(&buf)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(res.Model.Relationships) != 1 {
			t.Errorf("expected relationship to survive via synthesized folder, got %d", len(res.Model.Relationships))
		}
		if len(res.Model.Diagrams) != 1 {
			t.Errorf("expected diagram to survive via synthesized folder, got %d", len(res.Model.Diagrams))
		}
	})

	t.Run("no synthesis for empty collections", func(t *testing.T) {
		m := domain.NewModel("bare")
		var buf bytes.Buffer
		if err := codec.Export(m, &buf); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		out := buf.String()
		if strings.Contains(out, `type="relations"`) || strings.Contains(out, `type="diagrams"`) {
			t.Errorf("expected no synthesized folders, got:\n%s", out)
		}
	})

	t.Run("only the first relations folder carries entries", func(t *testing.T) {
		m := domain.NewDefaultModel("dup")
		m.Folders = append(m.Folders, domain.NewFolder("More Relations", taxonomy.FolderRelations))
		actor := domain.NewElement(taxonomy.BusinessActor, "Actor")
		m.AddElement(actor)
		m.AddRelationship(domain.NewRelationship(taxonomy.Association, actor.ID, actor.ID))

		var buf bytes.Buffer
		if err := codec.Export(m, &buf); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		res, err := codec.Parse(&buf)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(res.Model.Relationships) != 1 {
			t.Errorf("expected exactly 1 relationship, got %d", len(res.Model.Relationships))
		}
	})
}
