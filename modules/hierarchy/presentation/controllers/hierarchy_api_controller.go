package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/position"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
	"github.com/tanzim-io/tanzim/modules/hierarchy/presentation/controllers/dtos"
	"github.com/tanzim-io/tanzim/modules/hierarchy/presentation/mappers"
	"github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/application"
	"github.com/tanzim-io/tanzim/pkg/middleware"
)

type HierarchyAPIController struct {
	app         application.Application
	hierarchy   *services.HierarchyService
	assignments *services.AssignmentService
	basePath    string
}

func NewHierarchyAPIController(app application.Application) application.Controller {
	return &HierarchyAPIController{
		app:         app,
		hierarchy:   app.Service(services.HierarchyService{}).(*services.HierarchyService),
		assignments: app.Service(services.AssignmentService{}).(*services.AssignmentService),
		basePath:    "/hierarchy/api",
	}
}

func (c *HierarchyAPIController) Key() string {
	return c.basePath
}

func (c *HierarchyAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithActor(c.assignments))

	router.HandleFunc("/nodes", c.CreateNode).Methods(http.MethodPost)
	router.HandleFunc("/nodes/{id}", c.GetNode).Methods(http.MethodGet)
	router.HandleFunc("/nodes/{id}", c.RenameNode).Methods(http.MethodPatch)
	router.HandleFunc("/nodes/{id}", c.DeleteNode).Methods(http.MethodDelete)
	router.HandleFunc("/nodes/{id}/deactivate", c.DeactivateNode).Methods(http.MethodPost)
	router.HandleFunc("/nodes/{id}/reactivate", c.ReactivateNode).Methods(http.MethodPost)

	router.HandleFunc("/assignments", c.AssignLeaf).Methods(http.MethodPost)
	router.HandleFunc("/positions/{user_id}", c.GetPosition).Methods(http.MethodGet)
}

func (c *HierarchyAPIController) CreateNode(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}

	var dto dtos.CreateNodeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "HIERARCHY_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "HIERARCHY_VALIDATION_FAILED", validationMessage(errs))
		return
	}

	in := services.CreateNodeInput{
		TreeKind: tree.TreeKind(dto.TreeKind),
		Level:    tree.Level(dto.Level),
		Name:     dto.Name,
		Code:     dto.Code,
	}
	if dto.ParentID != "" {
		parentID, err := uuid.Parse(dto.ParentID)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "HIERARCHY_INVALID_BODY", "malformed parent id")
			return
		}
		in.ParentID = &parentID
	}

	node, err := c.hierarchy.CreateNode(r.Context(), actor, requestID(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.NodeToViewModel(*node))
}

func (c *HierarchyAPIController) GetNode(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}
	nodeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	node, err := c.hierarchy.GetNode(r.Context(), actor, nodeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.NodeToViewModel(*node))
}

func (c *HierarchyAPIController) RenameNode(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}
	nodeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var dto dtos.RenameNodeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "HIERARCHY_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "HIERARCHY_VALIDATION_FAILED", validationMessage(errs))
		return
	}

	node, err := c.hierarchy.RenameNode(r.Context(), actor, requestID(r), services.RenameNodeInput{
		NodeID: nodeID,
		Name:   dto.Name,
		Code:   dto.Code,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.NodeToViewModel(*node))
}

func (c *HierarchyAPIController) DeactivateNode(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, false)
}

func (c *HierarchyAPIController) ReactivateNode(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, true)
}

func (c *HierarchyAPIController) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}
	nodeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var err error
	if active {
		err = c.hierarchy.ReactivateNode(r.Context(), actor, requestID(r), nodeID)
	} else {
		err = c.hierarchy.DeactivateNode(r.Context(), actor, requestID(r), nodeID)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *HierarchyAPIController) DeleteNode(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}
	nodeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.hierarchy.DeleteNode(r.Context(), actor, nodeID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *HierarchyAPIController) AssignLeaf(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}

	var dto dtos.AssignLeafDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "ASSIGNMENT_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "ASSIGNMENT_VALIDATION_FAILED", validationMessage(errs))
		return
	}

	userID, err := uuid.Parse(dto.UserID)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "ASSIGNMENT_INVALID_BODY", "malformed user id")
		return
	}
	leafID, err := uuid.Parse(dto.LeafID)
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "ASSIGNMENT_INVALID_BODY", "malformed leaf id")
		return
	}

	stored, err := c.assignments.AssignLeaf(r.Context(), actor, requestID(r), services.AssignLeafInput{
		UserID:     userID,
		AdminLevel: position.AdminLevel(dto.AdminLevel),
		TreeKind:   tree.TreeKind(dto.TreeKind),
		LeafID:     leafID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PositionToViewModel(*stored))
}

func (c *HierarchyAPIController) GetPosition(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "user_id")
	if !ok {
		return
	}

	// Members may read their own position; anything else requires an admin
	// level above member.
	if actor.UserID != userID && actor.AdminLevel == position.AdminMember {
		writeAPIError(w, r, http.StatusNotFound, "HIERARCHY_NOT_FOUND", "not found")
		return
	}

	stored, err := c.assignments.Position(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PositionToViewModel(stored))
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(mux.Vars(r)[name]))
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "HIERARCHY_INVALID_ID", "malformed id")
		return uuid.Nil, false
	}
	return id, true
}

func validationMessage(errs map[string]string) string {
	for field, tag := range errs {
		return field + ": " + tag
	}
	return "validation failed"
}
