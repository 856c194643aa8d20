package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tanzim-io/tanzim/modules/content/domain/item"
	"github.com/tanzim-io/tanzim/modules/content/presentation/controllers/dtos"
	"github.com/tanzim-io/tanzim/modules/content/presentation/mappers"
	contentservices "github.com/tanzim-io/tanzim/modules/content/services"
	hierarchyservices "github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/application"
	"github.com/tanzim-io/tanzim/pkg/configuration"
	"github.com/tanzim-io/tanzim/pkg/middleware"
)

type ContentAPIController struct {
	app      application.Application
	content  *contentservices.ContentService
	basePath string
}

func NewContentAPIController(app application.Application) application.Controller {
	return &ContentAPIController{
		app:      app,
		content:  app.Service(contentservices.ContentService{}).(*contentservices.ContentService),
		basePath: "/content/api",
	}
}

func (c *ContentAPIController) Key() string {
	return c.basePath
}

func (c *ContentAPIController) Register(r *mux.Router) {
	assignments := c.app.Service(hierarchyservices.AssignmentService{}).(*hierarchyservices.AssignmentService)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithActor(assignments))

	router.HandleFunc("/items", c.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/items", c.ListItems).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}", c.GetItem).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}", c.DeleteItem).Methods(http.MethodDelete)
	router.HandleFunc("/items/{id}/approval", c.SetApproval).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}/plan", c.GetPlan).Methods(http.MethodGet)
}

func (c *ContentAPIController) CreateItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}

	var dto dtos.CreateItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CONTENT_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "CONTENT_VALIDATION_FAILED", validationMessage(errs))
		return
	}

	in := contentservices.CreateItemInput{
		Kind:  item.Kind(dto.Kind),
		Title: dto.Title,
		Body:  dto.Body,
	}
	if dto.Target != nil {
		in.Target = dto.Target.ToSpec()
	}
	if dto.Plan != nil {
		in.Plan = &contentservices.PlanInput{
			PriceAmount:  dto.Plan.PriceAmount,
			Currency:     dto.Plan.Currency,
			PeriodMonths: dto.Plan.PeriodMonths,
		}
	}

	created, err := c.content.CreateItem(r.Context(), actor, requestID(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ItemToViewModel(created))
}

func (c *ContentAPIController) ListItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}

	kind := item.Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
	conf := configuration.Use()
	limit := conf.PageSize
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			limit = parsed
		}
	}
	offset := 0
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	items, err := c.content.ListVisible(r.Context(), actor, kind, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, mappers.ItemToViewModel(it))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *ContentAPIController) GetItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	it, err := c.content.GetItem(r.Context(), actor, itemID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ItemToViewModel(it))
}

func (c *ContentAPIController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.content.DeleteItem(r.Context(), actor, itemID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *ContentAPIController) SetApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var dto dtos.SetApprovalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CONTENT_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "CONTENT_VALIDATION_FAILED", validationMessage(errs))
		return
	}

	if err := c.content.SetApproval(r.Context(), actor, requestID(r), itemID, *dto.Approved); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *ContentAPIController) GetPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := useActor(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	p, err := c.content.Plan(r.Context(), actor, itemID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PlanToViewModel(p))
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(mux.Vars(r)[name]))
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CONTENT_INVALID_ID", "malformed id")
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
