package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/foiaupdate"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/matching"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
	"github.com/Dcavise/SEEK-sub001/modules/foia/services"
	"github.com/Dcavise/SEEK-sub001/modules/registry/domain/aggregates/property"
	"github.com/Dcavise/SEEK-sub001/pkg/eventbus"
)

type stubSessionRepo struct {
	sessions map[uuid.UUID]session.ImportSession
}

func (r *stubSessionRepo) Create(_ context.Context, s session.ImportSession) (session.ImportSession, error) {
	r.sessions[s.ID()] = s
	return s, nil
}

func (r *stubSessionRepo) GetByID(_ context.Context, id uuid.UUID) (session.ImportSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return session.ImportSession{}, session.ErrNotFound
	}
	return s, nil
}

func (r *stubSessionRepo) List(_ context.Context, _ *session.FindParams) ([]session.ImportSession, int64, error) {
	out := make([]session.ImportSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSessionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status session.Status, errorMessage *string) error {
	s, ok := r.sessions[id]
	if !ok {
		return session.ErrNotFound
	}
	r.sessions[id] = session.Hydrate(
		s.ID(), s.Filename(), s.OriginalFilename(), s.TotalRecords(),
		status, errorMessage, s.CreatedAt(), time.Now().UTC(),
	)
	return nil
}

type stubUpdateRepo struct {
	updates []foiaupdate.FOIAUpdate
}

func (r *stubUpdateRepo) Create(_ context.Context, u foiaupdate.FOIAUpdate) (foiaupdate.FOIAUpdate, error) {
	r.updates = append(r.updates, u)
	return u, nil
}

func (r *stubUpdateRepo) ExistsActive(_ context.Context, sessionID, propertyID uuid.UUID, fieldName string) (bool, error) {
	for _, u := range r.updates {
		if u.SessionID == sessionID && u.PropertyID == propertyID && u.FieldName == fieldName && !u.Reverted {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUpdateRepo) ListBySession(_ context.Context, sessionID uuid.UUID, _ *foiaupdate.FindParams) ([]foiaupdate.FOIAUpdate, int64, error) {
	var out []foiaupdate.FOIAUpdate
	for _, u := range r.updates {
		if u.SessionID == sessionID {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubUpdateRepo) ListActiveBySession(_ context.Context, sessionID uuid.UUID) ([]foiaupdate.FOIAUpdate, error) {
	var out []foiaupdate.FOIAUpdate
	for _, u := range r.updates {
		if u.SessionID == sessionID && !u.Reverted {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUpdateRepo) MarkReverted(_ context.Context, id uuid.UUID) error {
	for i, u := range r.updates {
		if u.ID == id && !u.Reverted {
			now := time.Now().UTC()
			r.updates[i].Reverted = true
			r.updates[i].RevertedAt = &now
		}
	}
	return nil
}

type stubMatchRepo struct {
	counts map[uuid.UUID]int64
}

func (r *stubMatchRepo) CreateBatch(_ context.Context, sessionID uuid.UUID, results []matching.MatchResult) error {
	r.counts[sessionID] += int64(len(results))
	return nil
}

func (r *stubMatchRepo) ListBySession(_ context.Context, _ uuid.UUID) ([]matching.StoredMatchResult, error) {
	return nil, nil
}

func (r *stubMatchRepo) CountBySession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	return r.counts[sessionID], nil
}

type stubRegistry struct {
	fields map[uuid.UUID]map[string]*string
}

func (r *stubRegistry) GetPaginated(_ context.Context, _ *property.FindParams) ([]property.Property, int64, error) {
	return nil, 0, nil
}

func (r *stubRegistry) GetByID(_ context.Context, _ uuid.UUID) (property.Property, error) {
	return property.Property{}, property.ErrNotFound
}

func (r *stubRegistry) Create(_ context.Context, p property.Property) (property.Property, error) {
	return p, nil
}

func (r *stubRegistry) ListAddresses(_ context.Context) ([]property.AddressEntry, error) {
	return nil, nil
}

func (r *stubRegistry) ReadField(_ context.Context, id uuid.UUID, field string) (*string, error) {
	return r.fields[id][field], nil
}

func (r *stubRegistry) WriteField(_ context.Context, id uuid.UUID, field string, value *string) error {
	if r.fields[id] == nil {
		r.fields[id] = map[string]*string{}
	}
	r.fields[id][field] = value
	return nil
}

type apiFixture struct {
	sessions *stubSessionRepo
	matches  *stubMatchRepo
	updates  *stubUpdateRepo
	registry *stubRegistry
	server   *httptest.Server
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &apiFixture{
		sessions: &stubSessionRepo{sessions: map[uuid.UUID]session.ImportSession{}},
		matches:  &stubMatchRepo{counts: map[uuid.UUID]int64{}},
		updates:  &stubUpdateRepo{},
		registry: &stubRegistry{fields: map[uuid.UUID]map[string]*string{}},
	}
	sessionSvc := services.NewSessionService(f.sessions, eventbus.NewEventPublisher(log))
	rollbackSvc := services.NewRollbackService(f.sessions, f.updates, f.registry, log)

	router := mux.NewRouter()
	NewFOIAAPIController(sessionSvc, f.matches, f.updates, rollbackSvc).Register(router)
	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

func (f *apiFixture) seedSession(t *testing.T, status session.Status) session.ImportSession {
	t.Helper()
	s := session.New("batch.csv", "FOIA Fire Sprinklers.csv", 3)
	if status != session.StatusUploading {
		var err error
		s, err = s.Advance(session.StatusProcessing)
		require.NoError(t, err)
		if status != session.StatusProcessing {
			s, err = s.Advance(status)
			require.NoError(t, err)
		}
	}
	f.sessions.sessions[s.ID()] = s
	return s
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestFOIAAPIController_GetSession(t *testing.T) {
	f := newAPIFixture(t)
	sess := f.seedSession(t, session.StatusCompleted)
	f.matches.counts[sess.ID()] = 3

	var got map[string]any
	status := getJSON(t, f.server.URL+"/foia/api/sessions/"+sess.ID().String(), &got)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, sess.ID().String(), got["id"])
	require.Equal(t, "completed", got["status"])
	require.Equal(t, float64(3), got["total_records"])
	require.Equal(t, float64(3), got["match_results"])
}

func TestFOIAAPIController_GetSessionNotFound(t *testing.T) {
	f := newAPIFixture(t)

	var got map[string]any
	status := getJSON(t, f.server.URL+"/foia/api/sessions/"+uuid.NewString(), &got)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "SESSION_NOT_FOUND", got["code"])

	status = getJSON(t, f.server.URL+"/foia/api/sessions/not-a-uuid", &got)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestFOIAAPIController_ListSessions(t *testing.T) {
	f := newAPIFixture(t)
	f.seedSession(t, session.StatusUploading)
	f.seedSession(t, session.StatusCompleted)

	var got struct {
		Items []map[string]any `json:"items"`
		Total int64            `json:"total"`
	}
	status := getJSON(t, f.server.URL+"/foia/api/sessions?page=1&limit=10", &got)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(2), got.Total)
	require.Len(t, got.Items, 2)
}

func TestFOIAAPIController_ListUpdates(t *testing.T) {
	f := newAPIFixture(t)
	sess := f.seedSession(t, session.StatusCompleted)
	propertyID := uuid.New()
	f.updates.updates = append(f.updates.updates,
		foiaupdate.New(sess.ID(), propertyID, "fire_sprinklers", nil, strPtr("yes")),
		foiaupdate.New(uuid.New(), propertyID, "fire_sprinklers", nil, strPtr("no")),
	)

	var got struct {
		Items []map[string]any `json:"items"`
		Total int64            `json:"total"`
	}
	status := getJSON(t, f.server.URL+"/foia/api/sessions/"+sess.ID().String()+"/updates", &got)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(1), got.Total)
	require.Len(t, got.Items, 1)
	require.Equal(t, "fire_sprinklers", got.Items[0]["field_name"])
}

func TestFOIAAPIController_Rollback(t *testing.T) {
	f := newAPIFixture(t)
	sess := f.seedSession(t, session.StatusCompleted)
	propertyID := uuid.New()
	require.NoError(t, f.registry.WriteField(context.Background(), propertyID, "fire_sprinklers", strPtr("yes")))
	f.updates.updates = append(f.updates.updates,
		foiaupdate.New(sess.ID(), propertyID, "fire_sprinklers", strPtr("no"), strPtr("yes")),
	)

	resp, err := http.Post(f.server.URL+"/foia/api/sessions/"+sess.ID().String()+"/rollback", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got services.RollbackResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, 1, got.RevertedCount)
	require.Equal(t, 0, got.FailedCount)

	restored := f.registry.fields[propertyID]["fire_sprinklers"]
	require.NotNil(t, restored)
	require.Equal(t, "no", *restored)
	require.True(t, f.updates.updates[0].Reverted)
}

func strPtr(s string) *string { return &s }
