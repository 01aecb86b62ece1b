package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"archimap/internal/codec"
	"archimap/internal/domain"
	"archimap/internal/render"
	"archimap/internal/service"
	"archimap/internal/taxonomy"
	"archimap/internal/validity"
)

// ModelHandler handles model API requests
type ModelHandler struct {
	svc *service.ModelService
}

// NewModelHandler creates a new model handler
func NewModelHandler(svc *service.ModelService) *ModelHandler {
	return &ModelHandler{svc: svc}
}

// ErrorResponse is the error payload for every failed request.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Details     string   `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// GetModel returns the working model
func (h *ModelHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Current(), http.StatusOK)
}

// NewModelRequest names the model to create
type NewModelRequest struct {
	Name string `json:"name"`
}

// NewModel replaces the working model with a fresh one
func (h *ModelHandler) NewModel(w http.ResponseWriter, r *http.Request) {
	var req NewModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		req.Name = "New Model"
	}
	h.writeJSON(w, h.svc.NewModel(req.Name), http.StatusCreated)
}

// FileRequest names a model file on disk plus the dialect to use.
// Format is "archimate" (default) or "exchange".
type FileRequest struct {
	Path   string `json:"path"`
	Format string `json:"format,omitempty"`
}

// OpenModel loads a model file as the working model
func (h *ModelHandler) OpenModel(w http.ResponseWriter, r *http.Request) {
	var req FileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		h.writeError(w, "Path required", "Please provide a model file path", http.StatusBadRequest)
		return
	}

	var (
		result *codec.Result
		err    error
	)
	switch req.Format {
	case "", "archimate":
		result, err = h.svc.OpenHierarchical(req.Path)
	case "exchange":
		result, err = h.svc.OpenExchangeFile(req.Path)
	default:
		h.writeError(w, "Unknown format", req.Format, http.StatusBadRequest)
		return
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to open model: %v", err)
		h.writeError(w, "Failed to open model", err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, openResponse(result), http.StatusOK)
}

func openResponse(result *codec.Result) map[string]interface{} {
	return map[string]interface{}{
		"model":   result.Model,
		"skipped": result.Skipped,
	}
}

// SaveModel writes the working model to a file
func (h *ModelHandler) SaveModel(w http.ResponseWriter, r *http.Request) {
	var req FileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		h.writeError(w, "Path required", "Please provide a destination path", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Format {
	case "", "archimate":
		err = h.svc.SaveHierarchical(req.Path)
	case "exchange":
		err = h.svc.SaveExchangeFile(req.Path)
	default:
		h.writeError(w, "Unknown format", req.Format, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("Failed to save model: %v", err)
		h.writeError(w, "Failed to save model", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]string{"status": "saved", "path": req.Path}, http.StatusOK)
}

// ImportExchange loads an exchange document from the request body
func (h *ModelHandler) ImportExchange(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.OpenExchange(string(data))
	if err != nil {
		log.Printf("Failed to import exchange document: %v", err)
		h.writeError(w, "Failed to import exchange document", err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, openResponse(result), http.StatusOK)
}

// ExportExchange returns the working model as an exchange document
func (h *ModelHandler) ExportExchange(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.ExportExchange()
	if err != nil {
		log.Printf("Failed to export exchange document: %v", err)
		h.writeError(w, "Failed to export exchange document", err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, doc)
}

// ElementRequest creates an element
type ElementRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// CreateElement adds an element to the working model
func (h *ModelHandler) CreateElement(w http.ResponseWriter, r *http.Request) {
	var req ElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	elem, err := h.svc.CreateElement(taxonomy.ElementKind(req.Kind), req.Name)
	if err != nil {
		h.writeError(w, "Failed to create element", err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, elem, http.StatusCreated)
}

// UpdateElement applies a partial update to an element
func (h *ModelHandler) UpdateElement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var update domain.ElementUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateElement(id, update); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to update element: %v", err)
		h.writeError(w, "Failed to update element", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, h.svc.Current().Element(id), http.StatusOK)
}

// DeleteElement removes an element and everything referencing it
func (h *ModelHandler) DeleteElement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteElement(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete element: %v", err)
		h.writeError(w, "Failed to delete element", err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RelationshipRequest creates a relationship
type RelationshipRequest struct {
	Kind     string `json:"kind"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// CreateRelationship adds a relationship, rejecting illegal combinations
// with the list of legal alternatives
func (h *ModelHandler) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	var req RelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	rel, err := h.svc.CreateRelationship(taxonomy.RelationshipKind(req.Kind), req.SourceID, req.TargetID)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.writeJSON(w, ErrorResponse{
				Error:       "Relationship rejected",
				Details:     verr.Result.Reason,
				Suggestions: kindNames(verr.Result.Suggestions),
			}, http.StatusUnprocessableEntity)
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to create relationship: %v", err)
		h.writeError(w, "Failed to create relationship", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, rel, http.StatusCreated)
}

// DeleteRelationship removes a relationship and its diagram connections
func (h *ModelHandler) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteRelationship(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete relationship: %v", err)
		h.writeError(w, "Failed to delete relationship", err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ValidateRequest asks whether a relationship kind is legal between two
// element kinds
type ValidateRequest struct {
	SourceKind       string `json:"source_kind"`
	TargetKind       string `json:"target_kind"`
	RelationshipKind string `json:"relationship_kind"`
}

// ValidateResponse reports the verdict and, on rejection, the legal
// alternatives
type ValidateResponse struct {
	OK          bool     `json:"ok"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Guidance    string   `json:"guidance,omitempty"`
}

// Validate checks a candidate relationship without creating anything
func (h *ModelHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	source := taxonomy.ElementKind(req.SourceKind)
	target := taxonomy.ElementKind(req.TargetKind)
	result := validity.Validate(source, target, taxonomy.RelationshipKind(req.RelationshipKind))
	h.writeJSON(w, ValidateResponse{
		OK:          result.OK,
		Reason:      result.Reason,
		Suggestions: kindNames(result.Suggestions),
		Guidance:    validity.Guidance(source, target),
	}, http.StatusOK)
}

// ListValidKinds returns the relationship kinds legal between two element
// kinds, in canonical order
func (h *ModelHandler) ListValidKinds(w http.ResponseWriter, r *http.Request) {
	source := taxonomy.ElementKind(r.URL.Query().Get("source"))
	target := taxonomy.ElementKind(r.URL.Query().Get("target"))
	if source == "" || target == "" {
		h.writeError(w, "Missing query parameters", "source and target are required", http.StatusBadRequest)
		return
	}
	h.writeJSON(w, map[string]interface{}{
		"kinds":    kindNames(validity.ValidKinds(source, target)),
		"guidance": validity.Guidance(source, target),
	}, http.StatusOK)
}

// ListTargets returns the element kinds a relationship can legally point at
// from the given source kind
func (h *ModelHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	source := taxonomy.ElementKind(r.URL.Query().Get("source"))
	kind := taxonomy.RelationshipKind(r.URL.Query().Get("relationship"))
	if source == "" || kind == "" {
		h.writeError(w, "Missing query parameters", "source and relationship are required", http.StatusBadRequest)
		return
	}

	targets := validity.ValidTargets(source, kind)
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = string(t)
	}
	h.writeJSON(w, map[string]interface{}{"targets": names}, http.StatusOK)
}

// ListKinds returns the element and relationship vocabularies with their
// classifications
func (h *ModelHandler) ListKinds(w http.ResponseWriter, r *http.Request) {
	type kindInfo struct {
		Kind     string `json:"kind"`
		Category string `json:"category"`
		Layer    string `json:"layer"`
	}

	elements := make([]kindInfo, 0, len(taxonomy.ElementKinds()))
	for _, k := range taxonomy.ElementKinds() {
		layer, _ := taxonomy.LayerOf(k)
		elements = append(elements, kindInfo{
			Kind:     string(k),
			Category: string(taxonomy.CategoryOf(k)),
			Layer:    string(layer),
		})
	}

	relationships := make([]string, 0, len(taxonomy.RelationshipKinds()))
	for _, k := range taxonomy.RelationshipKinds() {
		relationships = append(relationships, string(k))
	}

	h.writeJSON(w, map[string]interface{}{
		"elements":      elements,
		"relationships": relationships,
	}, http.StatusOK)
}

// DiagramRequest creates a diagram
type DiagramRequest struct {
	Name string `json:"name"`
}

// CreateDiagram adds an empty diagram
func (h *ModelHandler) CreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req DiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, h.svc.CreateDiagram(req.Name), http.StatusCreated)
}

// DiagramObjectRequest places an element on a diagram
type DiagramObjectRequest struct {
	ElementID string        `json:"element_id"`
	Bounds    domain.Bounds `json:"bounds"`
	ParentID  string        `json:"parent_id,omitempty"`
}

// AddDiagramObject places an element on a diagram
func (h *ModelHandler) AddDiagramObject(w http.ResponseWriter, r *http.Request) {
	diagramID := r.PathValue("id")

	var req DiagramObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	obj, err := h.svc.AddDiagramObject(diagramID, req.ElementID, req.Bounds, req.ParentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to add diagram object: %v", err)
		h.writeError(w, "Failed to add diagram object", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, obj, http.StatusCreated)
}

// DiagramConnectionRequest draws a relationship between two diagram objects
type DiagramConnectionRequest struct {
	RelationshipID string             `json:"relationship_id"`
	SourceObjectID string             `json:"source_object_id"`
	TargetObjectID string             `json:"target_object_id"`
	Bendpoints     []domain.Bendpoint `json:"bendpoints,omitempty"`
}

// AddDiagramConnection draws a relationship between two diagram objects
func (h *ModelHandler) AddDiagramConnection(w http.ResponseWriter, r *http.Request) {
	diagramID := r.PathValue("id")

	var req DiagramConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.svc.AddDiagramConnection(diagramID, req.RelationshipID, req.SourceObjectID, req.TargetObjectID, req.Bendpoints)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to add diagram connection: %v", err)
		h.writeError(w, "Failed to add diagram connection", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, conn, http.StatusCreated)
}

// GetDiagramGraph returns the flattened node/edge projection of a diagram
func (h *ModelHandler) GetDiagramGraph(w http.ResponseWriter, r *http.Request) {
	m, d, ok := h.lookupDiagram(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, render.DeriveGraph(m, d), http.StatusOK)
}

// GetDiagramMermaid returns a diagram as Mermaid flowchart text
func (h *ModelHandler) GetDiagramMermaid(w http.ResponseWriter, r *http.Request) {
	m, d, ok := h.lookupDiagram(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, render.Mermaid(m, d))
}

// GetDiagramSVG returns a diagram as a standalone SVG document
func (h *ModelHandler) GetDiagramSVG(w http.ResponseWriter, r *http.Request) {
	m, d, ok := h.lookupDiagram(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	io.WriteString(w, render.SVG(m, d))
}

func (h *ModelHandler) lookupDiagram(w http.ResponseWriter, r *http.Request) (*domain.Model, *domain.Diagram, bool) {
	m := h.svc.Current()
	d := m.Diagram(r.PathValue("id"))
	if d == nil {
		h.writeError(w, "Not found", "No diagram with id "+r.PathValue("id"), http.StatusNotFound)
		return nil, nil, false
	}
	return m, d, true
}

// ListLibrary returns the stored snapshot catalog
func (h *ModelHandler) ListLibrary(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.svc.ListLibrary(r.Context())
	if err != nil {
		log.Printf("Failed to list library: %v", err)
		h.writeError(w, "Failed to list library", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, snapshots, http.StatusOK)
}

// SaveToLibrary stores the working model as a snapshot
func (h *ModelHandler) SaveToLibrary(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SaveToLibrary(r.Context()); err != nil {
		log.Printf("Failed to save snapshot: %v", err)
		h.writeError(w, "Failed to save snapshot", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]string{"status": "saved"}, http.StatusCreated)
}

// LoadFromLibrary replaces the working model with a stored snapshot
func (h *ModelHandler) LoadFromLibrary(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.LoadFromLibrary(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to load snapshot: %v", err)
		h.writeError(w, "Failed to load snapshot", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, m, http.StatusOK)
}

// DeleteFromLibrary removes a stored snapshot
func (h *ModelHandler) DeleteFromLibrary(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFromLibrary(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete snapshot: %v", err)
		h.writeError(w, "Failed to delete snapshot", err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func kindNames(kinds []taxonomy.RelationshipKind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func (h *ModelHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *ModelHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
