package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"archimap/internal/domain"
	"archimap/internal/taxonomy"
)

// Hierarchical reads and writes the folder-organized XML dialect. Element
// and relationship types carry a qualified "archimate:Kind" name, folders
// nest arbitrarily, and the relations/diagrams folders hold the model's
// relationships and diagrams on disk even though the in-memory model owns
// them directly.
type Hierarchical struct{}

// NewHierarchical creates the hierarchical codec.
func NewHierarchical() *Hierarchical {
	return &Hierarchical{}
}

// Format returns the codec's format name.
func (c *Hierarchical) Format() string {
	return "archimate"
}

const (
	hierPrefix      = "archimate:"
	hierDiagramType = "ArchimateDiagramModel"
	hierRelSuffix   = "Relationship"
	xsiNamespace    = "http://www.w3.org/2001/XMLSchema-instance"
	archimateNS     = "http://www.archimatetool.com/archimate"
)

// Read-side document shape. Attribute tags are unqualified so they match the
// prefixed attributes (xsi:type) by local name.

type hierDoc struct {
	XMLName xml.Name     `xml:"model"`
	ID      string       `xml:"id,attr"`
	Name    string       `xml:"name,attr"`
	Version string       `xml:"version,attr"`
	Purpose string       `xml:"purpose"`
	Folders []hierFolder `xml:"folder"`
}

type hierFolder struct {
	Name    string       `xml:"name,attr"`
	ID      string       `xml:"id,attr"`
	Type    string       `xml:"type,attr"`
	Folders []hierFolder `xml:"folder"`
	Entries []hierEntry  `xml:"element"`
}

type hierEntry struct {
	Type          string         `xml:"type,attr"`
	ID            string         `xml:"id,attr"`
	Name          string         `xml:"name,attr"`
	Source        string         `xml:"source,attr"`
	Target        string         `xml:"target,attr"`
	AccessType    string         `xml:"accessType,attr"`
	Strength      string         `xml:"strength,attr"`
	Viewpoint     string         `xml:"viewpoint,attr"`
	Documentation string         `xml:"documentation"`
	Properties    []hierProperty `xml:"property"`
	Children      []hierChild    `xml:"child"`
}

type hierProperty struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type hierChild struct {
	Type              string      `xml:"type,attr"`
	ID                string      `xml:"id,attr"`
	ArchimateElement  string      `xml:"archimateElement,attr"`
	TargetConnections string      `xml:"targetConnections,attr"`
	Bounds            hierBounds  `xml:"bounds"`
	SourceConnections []hierConn  `xml:"sourceConnection"`
	Children          []hierChild `xml:"child"`
}

type hierBounds struct {
	X      int `xml:"x,attr"`
	Y      int `xml:"y,attr"`
	Width  int `xml:"width,attr"`
	Height int `xml:"height,attr"`
}

type hierConn struct {
	ID                    string          `xml:"id,attr"`
	Source                string          `xml:"source,attr"`
	Target                string          `xml:"target,attr"`
	ArchimateRelationship string          `xml:"archimateRelationship,attr"`
	Bendpoints            []hierBendpoint `xml:"bendpoint"`
}

type hierBendpoint struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// Parse reads a hierarchical document into a model. Folder structure is
// preserved verbatim; entries with unrecognized qualified types are dropped
// and reported in the result.
func (c *Hierarchical) Parse(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc hierDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: model id attribute missing", ErrInvalidDocument)
	}

	m := &domain.Model{
		ID:            doc.ID,
		Name:          doc.Name,
		Version:       doc.Version,
		Documentation: doc.Purpose,
	}
	res := &Result{Model: m}

	for _, f := range doc.Folders {
		m.Folders = append(m.Folders, c.decodeFolder(f, taxonomy.FolderKind(f.Type), m, res))
	}
	return res, nil
}

// decodeFolder builds a folder subtree. Subfolders without their own kind
// tag inherit the parent's, so relationship and diagram entries nested in
// untagged subfolders still land in the right model collection.
func (c *Hierarchical) decodeFolder(f hierFolder, kind taxonomy.FolderKind, m *domain.Model, res *Result) *domain.Folder {
	if f.Type != "" {
		kind = taxonomy.FolderKind(f.Type)
	}
	folder := &domain.Folder{ID: f.ID, Name: f.Name, Kind: kind}

	for _, entry := range f.Entries {
		switch kind {
		case taxonomy.FolderRelations:
			if rel := decodeHierRelationship(entry); rel != nil {
				m.Relationships = append(m.Relationships, rel)
			} else {
				res.Skipped = append(res.Skipped, SkippedEntry{Context: f.Name, Type: entry.Type})
			}
		case taxonomy.FolderDiagrams:
			if localType(entry.Type) == hierDiagramType {
				m.Diagrams = append(m.Diagrams, decodeHierDiagram(entry))
			} else {
				res.Skipped = append(res.Skipped, SkippedEntry{Context: f.Name, Type: entry.Type})
			}
		default:
			if elem := decodeHierElement(entry); elem != nil {
				folder.Elements = append(folder.Elements, elem)
			} else {
				res.Skipped = append(res.Skipped, SkippedEntry{Context: f.Name, Type: entry.Type})
			}
		}
	}

	for _, sub := range f.Folders {
		folder.Subfolders = append(folder.Subfolders, c.decodeFolder(sub, kind, m, res))
	}
	return folder
}

// localType strips the namespace prefix from a qualified type name.
func localType(qualified string) string {
	if i := strings.LastIndex(qualified, ":"); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func decodeHierElement(entry hierEntry) *domain.Element {
	kind, ok := taxonomy.ElementKindNamed(localType(entry.Type))
	if !ok {
		return nil
	}
	elem := &domain.Element{
		ID:            entry.ID,
		Kind:          kind,
		Name:          entry.Name,
		Documentation: entry.Documentation,
	}
	for _, p := range entry.Properties {
		elem.Properties = append(elem.Properties, domain.Property{Key: p.Key, Value: p.Value})
	}
	return elem
}

func decodeHierRelationship(entry hierEntry) *domain.Relationship {
	name := strings.TrimSuffix(localType(entry.Type), hierRelSuffix)
	kind, ok := taxonomy.RelationshipKindNamed(name)
	if !ok {
		return nil
	}
	rel := &domain.Relationship{
		ID:            entry.ID,
		Kind:          kind,
		SourceID:      entry.Source,
		TargetID:      entry.Target,
		Name:          entry.Name,
		Documentation: entry.Documentation,
	}
	switch kind {
	case taxonomy.Access:
		rel.Access = decodeAccessQualifier(entry.AccessType)
	case taxonomy.Influence:
		rel.Influence = entry.Strength
	}
	return rel
}

// decodeAccessQualifier accepts both the numeric and the word form of the
// access code; anything else falls back to readWrite.
func decodeAccessQualifier(code string) domain.AccessQualifier {
	switch code {
	case "1", "read":
		return domain.AccessRead
	case "2", "write":
		return domain.AccessWrite
	case "3", "readWrite":
		return domain.AccessReadWrite
	default:
		return domain.AccessReadWrite
	}
}

func decodeHierDiagram(entry hierEntry) *domain.Diagram {
	d := &domain.Diagram{
		ID:            entry.ID,
		Name:          entry.Name,
		Viewpoint:     entry.Viewpoint,
		Documentation: entry.Documentation,
	}
	for _, child := range entry.Children {
		d.Objects = append(d.Objects, decodeHierObject(child))
	}
	return d
}

func decodeHierObject(child hierChild) *domain.DiagramObject {
	obj := &domain.DiagramObject{
		ID:        child.ID,
		ElementID: child.ArchimateElement,
		Bounds: domain.Bounds{
			X:      child.Bounds.X,
			Y:      child.Bounds.Y,
			Width:  child.Bounds.Width,
			Height: child.Bounds.Height,
		},
		IncomingConnectionIDs: strings.Fields(child.TargetConnections),
	}
	for _, sc := range child.SourceConnections {
		conn := domain.DiagramConnection{
			ID:             sc.ID,
			SourceObjectID: sc.Source,
			TargetObjectID: sc.Target,
			RelationshipID: sc.ArchimateRelationship,
		}
		for _, bp := range sc.Bendpoints {
			conn.Bendpoints = append(conn.Bendpoints, domain.Bendpoint{X: bp.X, Y: bp.Y})
		}
		obj.OutgoingConnections = append(obj.OutgoingConnections, conn)
	}
	for _, nested := range child.Children {
		obj.Children = append(obj.Children, decodeHierObject(nested))
	}
	return obj
}

// Write-side document shape. Prefixed names are spelled out literally in the
// tags so the marshaller emits them verbatim.

type hierDocXML struct {
	XMLName xml.Name        `xml:"archimate:model"`
	XSI     string          `xml:"xmlns:xsi,attr"`
	NS      string          `xml:"xmlns:archimate,attr"`
	Name    string          `xml:"name,attr"`
	ID      string          `xml:"id,attr"`
	Version string          `xml:"version,attr"`
	Purpose string          `xml:"purpose,omitempty"`
	Folders []hierFolderXML `xml:"folder"`
}

type hierFolderXML struct {
	Name    string          `xml:"name,attr"`
	ID      string          `xml:"id,attr"`
	Type    string          `xml:"type,attr"`
	Folders []hierFolderXML `xml:"folder,omitempty"`
	Entries []hierEntryXML  `xml:"element,omitempty"`
}

type hierEntryXML struct {
	XSIType       string            `xml:"xsi:type,attr"`
	ID            string            `xml:"id,attr"`
	Name          string            `xml:"name,attr,omitempty"`
	Source        string            `xml:"source,attr,omitempty"`
	Target        string            `xml:"target,attr,omitempty"`
	AccessType    string            `xml:"accessType,attr,omitempty"`
	Strength      string            `xml:"strength,attr,omitempty"`
	Viewpoint     string            `xml:"viewpoint,attr,omitempty"`
	Documentation string            `xml:"documentation,omitempty"`
	Properties    []hierPropertyXML `xml:"property,omitempty"`
	Children      []hierChildXML    `xml:"child,omitempty"`
}

type hierPropertyXML struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type hierChildXML struct {
	XSIType           string         `xml:"xsi:type,attr"`
	ID                string         `xml:"id,attr"`
	ArchimateElement  string         `xml:"archimateElement,attr,omitempty"`
	TargetConnections string         `xml:"targetConnections,attr,omitempty"`
	Bounds            hierBoundsXML  `xml:"bounds"`
	SourceConnections []hierConnXML  `xml:"sourceConnection,omitempty"`
	Children          []hierChildXML `xml:"child,omitempty"`
}

type hierBoundsXML struct {
	X      int `xml:"x,attr"`
	Y      int `xml:"y,attr"`
	Width  int `xml:"width,attr"`
	Height int `xml:"height,attr"`
}

type hierConnXML struct {
	XSIType               string             `xml:"xsi:type,attr"`
	ID                    string             `xml:"id,attr"`
	Source                string             `xml:"source,attr"`
	Target                string             `xml:"target,attr"`
	ArchimateRelationship string             `xml:"archimateRelationship,attr"`
	Bendpoints            []hierBendpointXML `xml:"bendpoint,omitempty"`
}

type hierBendpointXML struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// Export writes the model as a hierarchical document. The relations and
// diagrams folders are synthesized from the model's top-level collections;
// every other folder round-trips verbatim.
func (c *Hierarchical) Export(m *domain.Model, w io.Writer) error {
	doc := hierDocXML{
		XSI:     xsiNamespace,
		NS:      archimateNS,
		Name:    m.Name,
		ID:      m.ID,
		Version: m.Version,
		Purpose: m.Documentation,
	}

	// Entries only go into the first folder of each special kind; further
	// folders with the same tag are encoded as empty shells.
	relFolder := m.FindFolder(taxonomy.FolderRelations)
	diagFolder := m.FindFolder(taxonomy.FolderDiagrams)

	for _, f := range m.Folders {
		doc.Folders = append(doc.Folders, encodeHierFolder(f, m, relFolder, diagFolder))
	}
	if relFolder == nil && len(m.Relationships) > 0 {
		synth := domain.NewFolder("Relations", taxonomy.FolderRelations)
		doc.Folders = append(doc.Folders, encodeHierFolder(synth, m, synth, diagFolder))
	}
	if diagFolder == nil && len(m.Diagrams) > 0 {
		synth := domain.NewFolder("Views", taxonomy.FolderDiagrams)
		doc.Folders = append(doc.Folders, encodeHierFolder(synth, m, relFolder, synth))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode model %s: %w", m.ID, err)
	}
	return enc.Close()
}

func encodeHierFolder(f *domain.Folder, m *domain.Model, relFolder, diagFolder *domain.Folder) hierFolderXML {
	out := hierFolderXML{Name: f.Name, ID: f.ID, Type: string(f.Kind)}

	switch {
	case f == relFolder:
		for _, rel := range m.Relationships {
			out.Entries = append(out.Entries, encodeHierRelationship(rel))
		}
	case f == diagFolder:
		for _, d := range m.Diagrams {
			out.Entries = append(out.Entries, encodeHierDiagram(d))
		}
	default:
		for _, e := range f.Elements {
			out.Entries = append(out.Entries, encodeHierElement(e))
		}
	}

	for _, sub := range f.Subfolders {
		out.Folders = append(out.Folders, encodeHierFolder(sub, m, relFolder, diagFolder))
	}
	return out
}

func encodeHierElement(e *domain.Element) hierEntryXML {
	entry := hierEntryXML{
		XSIType:       hierPrefix + string(e.Kind),
		ID:            e.ID,
		Name:          e.Name,
		Documentation: e.Documentation,
	}
	for _, p := range e.Properties {
		entry.Properties = append(entry.Properties, hierPropertyXML(p))
	}
	return entry
}

func encodeHierRelationship(rel *domain.Relationship) hierEntryXML {
	entry := hierEntryXML{
		XSIType:       hierPrefix + string(rel.Kind) + hierRelSuffix,
		ID:            rel.ID,
		Name:          rel.Name,
		Source:        rel.SourceID,
		Target:        rel.TargetID,
		Documentation: rel.Documentation,
	}
	switch rel.Kind {
	case taxonomy.Access:
		entry.AccessType = encodeAccessQualifier(rel.Access)
	case taxonomy.Influence:
		entry.Strength = rel.Influence
	}
	return entry
}

func encodeAccessQualifier(q domain.AccessQualifier) string {
	switch q {
	case domain.AccessRead:
		return "1"
	case domain.AccessWrite:
		return "2"
	case domain.AccessReadWrite:
		return "3"
	default:
		return ""
	}
}

func encodeHierDiagram(d *domain.Diagram) hierEntryXML {
	entry := hierEntryXML{
		XSIType:       hierPrefix + hierDiagramType,
		ID:            d.ID,
		Name:          d.Name,
		Viewpoint:     d.Viewpoint,
		Documentation: d.Documentation,
	}
	for _, obj := range d.Objects {
		entry.Children = append(entry.Children, encodeHierObject(obj))
	}
	return entry
}

func encodeHierObject(obj *domain.DiagramObject) hierChildXML {
	child := hierChildXML{
		XSIType:           hierPrefix + "DiagramObject",
		ID:                obj.ID,
		ArchimateElement:  obj.ElementID,
		TargetConnections: strings.Join(obj.IncomingConnectionIDs, " "),
		Bounds: hierBoundsXML{
			X:      obj.Bounds.X,
			Y:      obj.Bounds.Y,
			Width:  obj.Bounds.Width,
			Height: obj.Bounds.Height,
		},
	}
	for _, conn := range obj.OutgoingConnections {
		sc := hierConnXML{
			XSIType:               hierPrefix + "Connection",
			ID:                    conn.ID,
			Source:                conn.SourceObjectID,
			Target:                conn.TargetObjectID,
			ArchimateRelationship: conn.RelationshipID,
		}
		for _, bp := range conn.Bendpoints {
			sc.Bendpoints = append(sc.Bendpoints, hierBendpointXML(bp))
		}
		child.SourceConnections = append(child.SourceConnections, sc)
	}
	for _, nested := range obj.Children {
		child.Children = append(child.Children, encodeHierObject(nested))
	}
	return child
}
