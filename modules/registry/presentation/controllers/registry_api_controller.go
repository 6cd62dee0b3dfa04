package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/matching"
	"github.com/Dcavise/SEEK-sub001/modules/registry/domain/aggregates/property"
	"github.com/Dcavise/SEEK-sub001/modules/registry/services"
	"github.com/Dcavise/SEEK-sub001/pkg/serrors"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// RegistryAPIController exposes the canonical property registry:
// paginated search plus single-property reads, and property creation for
// seeding and admin tooling.
type RegistryAPIController struct {
	properties *services.PropertyService
	basePath   string
}

func NewRegistryAPIController(properties *services.PropertyService) *RegistryAPIController {
	return &RegistryAPIController{properties: properties, basePath: "/registry/api"}
}

func (c *RegistryAPIController) Key() string { return c.basePath }

func (c *RegistryAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/properties", c.listProperties).Methods(http.MethodGet)
	router.HandleFunc("/properties", c.createProperty).Methods(http.MethodPost)
	router.HandleFunc("/properties/{id}", c.getProperty).Methods(http.MethodGet)
}

type propertyResponse struct {
	ID             string  `json:"id"`
	Address        string  `json:"address"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	Zip            string  `json:"zip"`
	FireSprinklers *string `json:"fire_sprinklers"`
	ZonedByRight   *string `json:"zoned_by_right"`
	OccupancyClass *string `json:"occupancy_class"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toPropertyResponse(p property.Property) propertyResponse {
	return propertyResponse{
		ID:             p.ID().String(),
		Address:        p.Address(),
		City:           p.City(),
		State:          p.State(),
		Zip:            p.Zip(),
		FireSprinklers: p.FireSprinklers(),
		ZonedByRight:   p.ZonedByRight(),
		OccupancyClass: p.OccupancyClass(),
		CreatedAt:      p.CreatedAt().Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt().Format(time.RFC3339),
	}
}

type pagedResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, apiError{Error: message, Code: code})
}

func (c *RegistryAPIController) listProperties(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	properties, total, err := c.properties.GetPaginated(r.Context(), &property.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	items := make([]propertyResponse, 0, len(properties))
	for _, p := range properties {
		items = append(items, toPropertyResponse(p))
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: items, Total: total, Page: page, Limit: limit})
}

func (c *RegistryAPIController) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid property id", "PROPERTY_BAD_ID")
		return
	}
	p, err := c.properties.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			writeAPIError(w, http.StatusNotFound, "property not found", property.ErrNotFound.Code)
			return
		}
		writeAPIError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, toPropertyResponse(p))
}

type createPropertyRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

func (c *RegistryAPIController) createProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.Address == "" {
		fieldErr := serrors.NewFieldRequiredError("address", "")
		writeAPIError(w, http.StatusBadRequest, fieldErr.Message, fieldErr.Code)
		return
	}
	created, err := c.properties.Create(r.Context(), property.New(
		req.Address,
		matching.NormalizeAddress(req.Address),
		req.City,
		req.State,
		req.Zip,
	))
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusCreated, toPropertyResponse(created))
}
