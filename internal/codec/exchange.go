package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"archimap/internal/domain"
	"archimap/internal/taxonomy"
)

// exchangeNS is the fixed namespace of the container-organized exchange
// dialect.
const exchangeNS = "http://www.opengroup.org/xsd/archimate/3.0/"

// Exchange reads and writes the flat, container-organized XML dialect.
// Elements, relationships and views live in independent flat containers
// keyed by bare type names; folder hierarchy is not part of this format, so
// reading synthesizes the standard folder skeleton and writing discards
// folder shape.
type Exchange struct {
	// Lang tags localized name/documentation text nodes on write and picks
	// the preferred translation on read.
	Lang string
}

// NewExchange creates the exchange codec. An empty language defaults to
// "en".
func NewExchange(lang string) *Exchange {
	if lang == "" {
		lang = "en"
	}
	return &Exchange{Lang: lang}
}

// Format returns the codec's format name.
func (c *Exchange) Format() string {
	return "exchange"
}

type exchDoc struct {
	XMLName       xml.Name           `xml:"model"`
	Identifier    string             `xml:"identifier,attr"`
	Names         []exchText         `xml:"name"`
	Documentation []exchText         `xml:"documentation"`
	Elements      []exchElement      `xml:"elements>element"`
	Relationships []exchRelationship `xml:"relationships>relationship"`
	Views         []exchView         `xml:"views>diagrams>view"`
}

type exchText struct {
	Lang string `xml:"lang,attr"`
	Text string `xml:",chardata"`
}

type exchElement struct {
	Identifier    string     `xml:"identifier,attr"`
	Type          string     `xml:"type,attr"`
	Names         []exchText `xml:"name"`
	Documentation []exchText `xml:"documentation"`
}

type exchRelationship struct {
	Identifier    string     `xml:"identifier,attr"`
	Type          string     `xml:"type,attr"`
	Source        string     `xml:"source,attr"`
	Target        string     `xml:"target,attr"`
	AccessType    string     `xml:"accessType,attr"`
	Modifier      string     `xml:"modifier,attr"`
	Names         []exchText `xml:"name"`
	Documentation []exchText `xml:"documentation"`
}

type exchView struct {
	Identifier    string           `xml:"identifier,attr"`
	Viewpoint     string           `xml:"viewpoint,attr"`
	Names         []exchText       `xml:"name"`
	Documentation []exchText       `xml:"documentation"`
	Nodes         []exchNode       `xml:"node"`
	Connections   []exchConnection `xml:"connection"`
}

type exchNode struct {
	Identifier string     `xml:"identifier,attr"`
	ElementRef string     `xml:"elementRef,attr"`
	X          int        `xml:"x,attr"`
	Y          int        `xml:"y,attr"`
	W          int        `xml:"w,attr"`
	H          int        `xml:"h,attr"`
	Nodes      []exchNode `xml:"node"`
}

type exchConnection struct {
	Identifier      string          `xml:"identifier,attr"`
	RelationshipRef string          `xml:"relationshipRef,attr"`
	Source          string          `xml:"source,attr"`
	Target          string          `xml:"target,attr"`
	Bendpoints      []exchBendpoint `xml:"bendpoint"`
}

type exchBendpoint struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// pickText returns the translation tagged with the preferred language,
// falling back to the first one present.
func pickText(texts []exchText, lang string) string {
	for _, t := range texts {
		if t.Lang == lang {
			return t.Text
		}
	}
	if len(texts) > 0 {
		return texts[0].Text
	}
	return ""
}

// Parse reads an exchange document. Elements are placed into a synthesized
// standard folder skeleton by layer; relationships and diagrams populate the
// model's top-level collections directly.
func (c *Exchange) Parse(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc exchDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Identifier == "" {
		return nil, fmt.Errorf("%w: model identifier attribute missing", ErrInvalidDocument)
	}

	m := &domain.Model{
		ID:            doc.Identifier,
		Name:          pickText(doc.Names, c.Lang),
		Version:       "1.0",
		Documentation: pickText(doc.Documentation, c.Lang),
		Folders:       domain.DefaultFolders(),
	}
	res := &Result{Model: m}

	for _, e := range doc.Elements {
		kind, ok := taxonomy.ElementKindNamed(e.Type)
		if !ok {
			res.Skipped = append(res.Skipped, SkippedEntry{Context: "elements", Type: e.Type})
			continue
		}
		m.AddElement(&domain.Element{
			ID:            e.Identifier,
			Kind:          kind,
			Name:          pickText(e.Names, c.Lang),
			Documentation: pickText(e.Documentation, c.Lang),
		})
	}

	for _, r := range doc.Relationships {
		kind, ok := taxonomy.RelationshipKindNamed(strings.TrimSuffix(r.Type, hierRelSuffix))
		if !ok {
			res.Skipped = append(res.Skipped, SkippedEntry{Context: "relationships", Type: r.Type})
			continue
		}
		rel := &domain.Relationship{
			ID:            r.Identifier,
			Kind:          kind,
			SourceID:      r.Source,
			TargetID:      r.Target,
			Name:          pickText(r.Names, c.Lang),
			Documentation: pickText(r.Documentation, c.Lang),
		}
		switch kind {
		case taxonomy.Access:
			rel.Access = decodeAccessQualifier(r.AccessType)
		case taxonomy.Influence:
			rel.Influence = r.Modifier
		}
		m.Relationships = append(m.Relationships, rel)
	}

	for _, v := range doc.Views {
		m.Diagrams = append(m.Diagrams, c.decodeView(v))
	}
	return res, nil
}

func (c *Exchange) decodeView(v exchView) *domain.Diagram {
	d := &domain.Diagram{
		ID:            v.Identifier,
		Name:          pickText(v.Names, c.Lang),
		Viewpoint:     v.Viewpoint,
		Documentation: pickText(v.Documentation, c.Lang),
	}
	for _, n := range v.Nodes {
		d.Objects = append(d.Objects, decodeExchNode(n))
	}

	// Connections are flat in the document; each one is attached to its
	// source node's outgoing list, and its id recorded on the target node.
	byID := make(map[string]*domain.DiagramObject)
	d.Walk(func(obj *domain.DiagramObject) {
		byID[obj.ID] = obj
	})
	for _, conn := range v.Connections {
		src, ok := byID[conn.Source]
		if !ok {
			continue
		}
		dc := domain.DiagramConnection{
			ID:             conn.Identifier,
			SourceObjectID: conn.Source,
			TargetObjectID: conn.Target,
			RelationshipID: conn.RelationshipRef,
		}
		for _, bp := range conn.Bendpoints {
			dc.Bendpoints = append(dc.Bendpoints, domain.Bendpoint{X: bp.X, Y: bp.Y})
		}
		src.OutgoingConnections = append(src.OutgoingConnections, dc)
		if tgt, ok := byID[conn.Target]; ok {
			tgt.IncomingConnectionIDs = append(tgt.IncomingConnectionIDs, conn.Identifier)
		}
	}
	return d
}

func decodeExchNode(n exchNode) *domain.DiagramObject {
	obj := &domain.DiagramObject{
		ID:        n.Identifier,
		ElementID: n.ElementRef,
		Bounds:    domain.Bounds{X: n.X, Y: n.Y, Width: n.W, Height: n.H},
	}
	for _, nested := range n.Nodes {
		obj.Children = append(obj.Children, decodeExchNode(nested))
	}
	return obj
}

// Write-side document shape.

// Container structs are pointers so that empty collections drop the whole
// wrapper element; omitempty on an a>b>c path field only suppresses the
// leaf, not its parents.
type exchDocXML struct {
	XMLName       xml.Name              `xml:"model"`
	Xmlns         string                `xml:"xmlns,attr"`
	XSI           string                `xml:"xmlns:xsi,attr"`
	Identifier    string                `xml:"identifier,attr"`
	Name          exchTextXML           `xml:"name"`
	Documentation *exchTextXML          `xml:"documentation,omitempty"`
	Elements      *exchElementsXML      `xml:"elements,omitempty"`
	Relationships *exchRelationshipsXML `xml:"relationships,omitempty"`
	Views         *exchViewsXML         `xml:"views,omitempty"`
}

type exchElementsXML struct {
	Elements []exchElementXML `xml:"element"`
}

type exchRelationshipsXML struct {
	Relationships []exchRelationshipXML `xml:"relationship"`
}

type exchViewsXML struct {
	Views []exchViewXML `xml:"diagrams>view"`
}

type exchTextXML struct {
	Lang string `xml:"xml:lang,attr"`
	Text string `xml:",chardata"`
}

type exchElementXML struct {
	Identifier    string       `xml:"identifier,attr"`
	XSIType       string       `xml:"xsi:type,attr"`
	Name          exchTextXML  `xml:"name"`
	Documentation *exchTextXML `xml:"documentation,omitempty"`
}

type exchRelationshipXML struct {
	Identifier    string       `xml:"identifier,attr"`
	Source        string       `xml:"source,attr"`
	Target        string       `xml:"target,attr"`
	XSIType       string       `xml:"xsi:type,attr"`
	AccessType    string       `xml:"accessType,attr,omitempty"`
	Modifier      string       `xml:"modifier,attr,omitempty"`
	Name          *exchTextXML `xml:"name,omitempty"`
	Documentation *exchTextXML `xml:"documentation,omitempty"`
}

type exchViewXML struct {
	Identifier    string              `xml:"identifier,attr"`
	XSIType       string              `xml:"xsi:type,attr"`
	Viewpoint     string              `xml:"viewpoint,attr,omitempty"`
	Name          exchTextXML         `xml:"name"`
	Documentation *exchTextXML        `xml:"documentation,omitempty"`
	Nodes         []exchNodeXML       `xml:"node"`
	Connections   []exchConnectionXML `xml:"connection"`
}

type exchNodeXML struct {
	Identifier string        `xml:"identifier,attr"`
	XSIType    string        `xml:"xsi:type,attr"`
	ElementRef string        `xml:"elementRef,attr,omitempty"`
	X          int           `xml:"x,attr"`
	Y          int           `xml:"y,attr"`
	W          int           `xml:"w,attr"`
	H          int           `xml:"h,attr"`
	Nodes      []exchNodeXML `xml:"node,omitempty"`
}

type exchConnectionXML struct {
	Identifier      string             `xml:"identifier,attr"`
	XSIType         string             `xml:"xsi:type,attr"`
	RelationshipRef string             `xml:"relationshipRef,attr"`
	Source          string             `xml:"source,attr"`
	Target          string             `xml:"target,attr"`
	Bendpoints      []exchBendpointXML `xml:"bendpoint,omitempty"`
}

type exchBendpointXML struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// Export writes the model as an exchange document. Folder hierarchy is not
// represented in this format; elements are flattened in folder order. The
// views container only appears when the model has at least one diagram.
func (c *Exchange) Export(m *domain.Model, w io.Writer) error {
	doc := exchDocXML{
		Xmlns:      exchangeNS,
		XSI:        xsiNamespace,
		Identifier: m.ID,
		Name:       exchTextXML{Lang: c.Lang, Text: m.Name},
	}
	if m.Documentation != "" {
		doc.Documentation = &exchTextXML{Lang: c.Lang, Text: m.Documentation}
	}

	var elements []exchElementXML
	m.WalkElements(func(e *domain.Element) {
		entry := exchElementXML{
			Identifier: e.ID,
			XSIType:    string(e.Kind),
			Name:       exchTextXML{Lang: c.Lang, Text: e.Name},
		}
		if e.Documentation != "" {
			entry.Documentation = &exchTextXML{Lang: c.Lang, Text: e.Documentation}
		}
		elements = append(elements, entry)
	})
	if len(elements) > 0 {
		doc.Elements = &exchElementsXML{Elements: elements}
	}

	var relationships []exchRelationshipXML
	for _, rel := range m.Relationships {
		entry := exchRelationshipXML{
			Identifier: rel.ID,
			Source:     rel.SourceID,
			Target:     rel.TargetID,
			XSIType:    string(rel.Kind),
		}
		switch rel.Kind {
		case taxonomy.Access:
			entry.AccessType = string(rel.Access)
		case taxonomy.Influence:
			entry.Modifier = rel.Influence
		}
		if rel.Name != "" {
			entry.Name = &exchTextXML{Lang: c.Lang, Text: rel.Name}
		}
		if rel.Documentation != "" {
			entry.Documentation = &exchTextXML{Lang: c.Lang, Text: rel.Documentation}
		}
		relationships = append(relationships, entry)
	}
	if len(relationships) > 0 {
		doc.Relationships = &exchRelationshipsXML{Relationships: relationships}
	}

	if len(m.Diagrams) > 0 {
		views := &exchViewsXML{}
		for _, d := range m.Diagrams {
			views.Views = append(views.Views, c.encodeView(d))
		}
		doc.Views = views
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

func (c *Exchange) encodeView(d *domain.Diagram) exchViewXML {
	view := exchViewXML{
		Identifier: d.ID,
		XSIType:    "Diagram",
		Viewpoint:  d.Viewpoint,
		Name:       exchTextXML{Lang: c.Lang, Text: d.Name},
	}
	if d.Documentation != "" {
		view.Documentation = &exchTextXML{Lang: c.Lang, Text: d.Documentation}
	}
	for _, obj := range d.Objects {
		view.Nodes = append(view.Nodes, encodeExchNode(obj))
	}

	// Connections are flattened out of their owning objects.
	d.Walk(func(obj *domain.DiagramObject) {
		for _, conn := range obj.OutgoingConnections {
			entry := exchConnectionXML{
				Identifier:      conn.ID,
				XSIType:         "Relationship",
				RelationshipRef: conn.RelationshipID,
				Source:          conn.SourceObjectID,
				Target:          conn.TargetObjectID,
			}
			for _, bp := range conn.Bendpoints {
				entry.Bendpoints = append(entry.Bendpoints, exchBendpointXML(bp))
			}
			view.Connections = append(view.Connections, entry)
		}
	})
	return view
}

func encodeExchNode(obj *domain.DiagramObject) exchNodeXML {
	node := exchNodeXML{
		Identifier: obj.ID,
		XSIType:    "Element",
		ElementRef: obj.ElementID,
		X:          obj.Bounds.X,
		Y:          obj.Bounds.Y,
		W:          obj.Bounds.Width,
		H:          obj.Bounds.Height,
	}
	for _, nested := range obj.Children {
		node.Nodes = append(node.Nodes, encodeExchNode(nested))
	}
	return node
}

// ParseString parses an exchange document held in memory.
func (c *Exchange) ParseString(text string) (*Result, error) {
	return c.Parse(strings.NewReader(text))
}

// ExportString renders the model as an exchange document string.
func (c *Exchange) ExportString(m *domain.Model) (string, error) {
	var buf bytes.Buffer
	if err := c.Export(m, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
