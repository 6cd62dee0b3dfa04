package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/foiaupdate"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/matching"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/storage"
	"github.com/Dcavise/SEEK-sub001/modules/registry/domain/aggregates/property"
	"github.com/Dcavise/SEEK-sub001/pkg/eventbus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testBus() eventbus.EventBus {
	return eventbus.NewEventPublisher(testLogger())
}

func strPtr(s string) *string { return &s }

// --- session repository ---

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]session.ImportSession
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[uuid.UUID]session.ImportSession{}}
}

func (r *memSessionRepo) Create(_ context.Context, s session.ImportSession) (session.ImportSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := session.Hydrate(
		s.ID(), s.Filename(), s.OriginalFilename(), s.TotalRecords(),
		s.Status(), s.ErrorMessage(), time.Now().UTC(), time.Now().UTC(),
	)
	r.sessions[s.ID()] = stored
	return stored, nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id uuid.UUID) (session.ImportSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return session.ImportSession{}, session.ErrNotFound
	}
	return s, nil
}

func (r *memSessionRepo) List(_ context.Context, _ *session.FindParams) ([]session.ImportSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]session.ImportSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *memSessionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status session.Status, errorMessage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

// --- match result repository ---

type memMatchRepo struct {
	mu      sync.Mutex
	results map[uuid.UUID][]matching.StoredMatchResult

	createBatchErr error
}

func newMemMatchRepo() *memMatchRepo {
	return &memMatchRepo{results: map[uuid.UUID][]matching.StoredMatchResult{}}
}

func (r *memMatchRepo) CreateBatch(_ context.Context, sessionID uuid.UUID, results []matching.MatchResult) error {
	if r.createBatchErr != nil {
		return r.createBatchErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range results {
		r.results[sessionID] = append(r.results[sessionID], matching.StoredMatchResult{
			MatchResult: res,
			ID:          uuid.New(),
			SessionID:   sessionID,
			CreatedAt:   time.Now().UTC(),
		})
	}
	return nil
}

func (r *memMatchRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]matching.StoredMatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]matching.StoredMatchResult(nil), r.results[sessionID]...), nil
}

func (r *memMatchRepo) CountBySession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.results[sessionID])), nil
}

// --- foia update repository ---

type memUpdateRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]foiaupdate.FOIAUpdate

	createErr       error
	existsErr       error
	markRevertedErr error
}

func newMemUpdateRepo() *memUpdateRepo {
	return &memUpdateRepo{records: map[uuid.UUID]foiaupdate.FOIAUpdate{}}
}

func (r *memUpdateRepo) Create(_ context.Context, u foiaupdate.FOIAUpdate) (foiaupdate.FOIAUpdate, error) {
	if r.createErr != nil {
		return foiaupdate.FOIAUpdate{}, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[u.ID] = u
	return u, nil
}

func (r *memUpdateRepo) ExistsActive(_ context.Context, sessionID, propertyID uuid.UUID, fieldName string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.records {
		if u.SessionID == sessionID && u.PropertyID == propertyID && u.FieldName == fieldName && !u.Reverted {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUpdateRepo) ListBySession(_ context.Context, sessionID uuid.UUID, _ *foiaupdate.FindParams) ([]foiaupdate.FOIAUpdate, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []foiaupdate.FOIAUpdate
	for _, u := range r.records {
		if u.SessionID == sessionID {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memUpdateRepo) ListActiveBySession(_ context.Context, sessionID uuid.UUID) ([]foiaupdate.FOIAUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []foiaupdate.FOIAUpdate
	for _, u := range r.records {
		if u.SessionID == sessionID && !u.Reverted {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUpdateRepo) MarkReverted(_ context.Context, id uuid.UUID) error {
	if r.markRevertedErr != nil {
		return r.markRevertedErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.records[id]
	if !ok || u.Reverted {
		return nil
	}
	now := time.Now().UTC()
	u.Reverted = true
	u.RevertedAt = &now
	r.records[id] = u
	return nil
}

func (r *memUpdateRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// --- registry repository ---

type memRegistry struct {
	mu        sync.Mutex
	addresses []property.AddressEntry
	fields    map[uuid.UUID]map[string]*string

	listErr     error
	writeErr    error
	writeErrFor map[uuid.UUID]error
}

func newMemRegistry() *memRegistry {
	return &memRegistry{fields: map[uuid.UUID]map[string]*string{}}
}

func (r *memRegistry) addProperty(address string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.addresses = append(r.addresses, property.AddressEntry{
		PropertyID:        id,
		Address:           address,
		NormalizedAddress: matching.NormalizeAddress(address),
	})
	r.fields[id] = map[string]*string{}
	return id
}

func (r *memRegistry) GetPaginated(_ context.Context, _ *property.FindParams) ([]property.Property, int64, error) {
	return nil, 0, nil
}

func (r *memRegistry) GetByID(_ context.Context, _ uuid.UUID) (property.Property, error) {
	return property.Property{}, property.ErrNotFound
}

func (r *memRegistry) Create(_ context.Context, p property.Property) (property.Property, error) {
	return p, nil
}

func (r *memRegistry) ListAddresses(_ context.Context) ([]property.AddressEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]property.AddressEntry(nil), r.addresses...), nil
}

func (r *memRegistry) ReadField(_ context.Context, id uuid.UUID, field string) (*string, error) {
	if !property.ValidField(field) {
		return nil, property.ErrUnknownField
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fields, ok := r.fields[id]
	if !ok {
		return nil, property.ErrNotFound
	}
	return fields[field], nil
}

func (r *memRegistry) WriteField(_ context.Context, id uuid.UUID, field string, value *string) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	if err, ok := r.writeErrFor[id]; ok {
		return err
	}
	if !property.ValidField(field) {
		return property.ErrUnknownField
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fields, ok := r.fields[id]
	if !ok {
		return property.ErrNotFound
	}
	fields[field] = value
	return nil
}

func (r *memRegistry) fieldValue(id uuid.UUID, field string) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fields[id][field]
}

// --- file store ---

type memStore struct {
	mu    sync.Mutex
	files map[storage.Ref][]byte

	storeErr error
}

func newMemStore() *memStore {
	return &memStore{files: map[storage.Ref][]byte{}}
}

func (s *memStore) Store(_ context.Context, sessionID uuid.UUID, name string, r io.Reader) (storage.Ref, error) {
	if s.storeErr != nil {
		return "", s.storeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	ref := storage.Ref(sessionID.String() + "/" + name)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[ref] = data
	return ref, nil
}

func (s *memStore) Fetch(_ context.Context, ref storage.Ref) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[ref]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

var errBoom = errors.New("boom")
