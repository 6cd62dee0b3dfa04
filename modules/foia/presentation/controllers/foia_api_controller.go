package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/foiaupdate"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/matching"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
	"github.com/Dcavise/SEEK-sub001/modules/foia/services"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// FOIAAPIController is the read surface over import sessions plus the
// rollback trigger. Imports themselves run through the orchestrator, not
// through this API.
type FOIAAPIController struct {
	sessions *services.SessionService
	matches  matching.Repository
	updates  foiaupdate.Repository
	rollback *services.RollbackService
	basePath string
}

func NewFOIAAPIController(
	sessions *services.SessionService,
	matches matching.Repository,
	updates foiaupdate.Repository,
	rollback *services.RollbackService,
) *FOIAAPIController {
	return &FOIAAPIController{
		sessions: sessions,
		matches:  matches,
		updates:  updates,
		rollback: rollback,
		basePath: "/foia/api",
	}
}

func (c *FOIAAPIController) Key() string { return c.basePath }

func (c *FOIAAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/sessions", c.listSessions).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}", c.getSession).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}/updates", c.listUpdates).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}/rollback", c.rollbackSession).Methods(http.MethodPost)
}

type sessionResponse struct {
	ID               string  `json:"id"`
	Filename         string  `json:"filename"`
	OriginalFilename string  `json:"original_filename"`
	TotalRecords     int     `json:"total_records"`
	Status           string  `json:"status"`
	ErrorMessage     *string `json:"error_message,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func toSessionResponse(s session.ImportSession) sessionResponse {
	return sessionResponse{
		ID:               s.ID().String(),
		Filename:         s.Filename(),
		OriginalFilename: s.OriginalFilename(),
		TotalRecords:     s.TotalRecords(),
		Status:           string(s.Status()),
		ErrorMessage:     s.ErrorMessage(),
		CreatedAt:        s.CreatedAt().Format(time.RFC3339),
		UpdatedAt:        s.UpdatedAt().Format(time.RFC3339),
	}
}

type sessionDetailResponse struct {
	sessionResponse
	MatchResults int64 `json:"match_results"`
}

type updateResponse struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"property_id"`
	FieldName  string  `json:"field_name"`
	OldValue   *string `json:"old_value"`
	NewValue   *string `json:"new_value"`
	AppliedAt  string  `json:"applied_at"`
	Reverted   bool    `json:"reverted"`
	RevertedAt *string `json:"reverted_at,omitempty"`
}

func toUpdateResponse(u foiaupdate.FOIAUpdate) updateResponse {
	out := updateResponse{
		ID:         u.ID.String(),
		PropertyID: u.PropertyID.String(),
		FieldName:  u.FieldName,
		OldValue:   u.OldValue,
		NewValue:   u.NewValue,
		AppliedAt:  u.AppliedAt.Format(time.RFC3339),
		Reverted:   u.Reverted,
	}
	if u.RevertedAt != nil {
		ts := u.RevertedAt.Format(time.RFC3339)
		out.RevertedAt = &ts
	}
	return out
}

type pagedResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func pageParams(r *http.Request) (page, limit, offset int) {
	page = 1
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit, (page - 1) * limit
}

func (c *FOIAAPIController) listSessions(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pageParams(r)
	sessions, total, err := c.sessions.List(r.Context(), &session.FindParams{Limit: limit, Offset: offset})
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	items := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: items, Total: total, Page: page, Limit: limit})
}

func (c *FOIAAPIController) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := c.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	matchCount, err := c.matches.CountBySession(r.Context(), id)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, sessionDetailResponse{
		sessionResponse: toSessionResponse(sess),
		MatchResults:    matchCount,
	})
}

func (c *FOIAAPIController) listUpdates(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if _, err := c.sessions.GetByID(r.Context(), id); err != nil {
		writeSessionError(w, err)
		return
	}
	page, limit, offset := pageParams(r)
	updates, total, err := c.updates.ListBySession(r.Context(), id, &foiaupdate.FindParams{Limit: limit, Offset: offset})
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	items := make([]updateResponse, 0, len(updates))
	for _, u := range updates {
		items = append(items, toUpdateResponse(u))
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: items, Total: total, Page: page, Limit: limit})
}

func (c *FOIAAPIController) rollbackSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	result, err := c.rollback.Rollback(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid session id", "SESSION_BAD_ID")
		return uuid.Nil, false
	}
	return id, true
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		writeAPIError(w, http.StatusNotFound, "import session not found", session.ErrNotFound.Code)
		return
	}
	writeAPIError(w, http.StatusInternalServerError, err.Error(), "")
}
