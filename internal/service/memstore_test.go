package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/repository"
)

// memStore is an in-memory ReservationStore.  WithinTx holds a store-wide
// lock for the whole unit of work and restores a snapshot when fn fails,
// which gives the engine the same serialization and rollback guarantees as
// the MySQL store.
type memStore struct {
	mu           sync.Mutex
	spaces       map[uint64]model.Space
	users        map[uint64]model.User
	reservations map[uint64]model.Reservation
	history      []model.ReservationHistory
	nextRes      uint64
	nextHist     uint64

	// failHistory makes AppendHistory fail, to exercise rollback.
	failHistory error
}

func newMemStore() *memStore {
	return &memStore{
		spaces:       map[uint64]model.Space{},
		users:        map[uint64]model.User{},
		reservations: map[uint64]model.Reservation{},
	}
}

func (m *memStore) addSpace(sp model.Space) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spaces[sp.ID] = sp
}

func (m *memStore) addUser(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// seed inserts a reservation directly, bypassing the engine.
func (m *memStore) seed(r model.Reservation) model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRes++
	r.ID = m.nextRes
	m.reservations[r.ID] = r
	return r
}

func (m *memStore) reservation(id uint64) (model.Reservation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	return r, ok
}

func (m *memStore) historyFor(id uint64) []model.ReservationHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ReservationHistory
	for _, h := range m.history {
		if h.ReservationID == id {
			out = append(out, h)
		}
	}
	return out
}

func (m *memStore) counts() (reservations, history int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations), len(m.history)
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx repository.ReservationTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	resSnap := maps.Clone(m.reservations)
	histSnap := slices.Clone(m.history)
	nextRes, nextHist := m.nextRes, m.nextHist

	if err := fn(&memTx{m: m}); err != nil {
		m.reservations, m.history = resSnap, histSnap
		m.nextRes, m.nextHist = nextRes, nextHist
		return err
	}
	return nil
}

func (m *memStore) detail(r model.Reservation) model.ReservationDetail {
	sp := m.spaces[r.SpaceID]
	u := m.users[r.UserID]
	return model.ReservationDetail{
		Reservation: r,
		Space:       model.SpaceRef{ID: sp.ID, Name: sp.Name, Type: sp.Type},
		User:        u.Summary(),
	}
}

func (m *memStore) GetReservation(_ context.Context, id uint64) (model.ReservationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return model.ReservationDetail{}, repository.ErrNotFound
	}
	return m.detail(r), nil
}

func (m *memStore) list(keep func(model.Reservation) bool) []model.ReservationDetail {
	out := []model.ReservationDetail{}
	for _, r := range m.reservations {
		if keep(r) {
			out = append(out, m.detail(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func (m *memStore) ListReservationsByUser(_ context.Context, userID uint64) ([]model.ReservationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(r model.Reservation) bool { return r.UserID == userID }), nil
}

func (m *memStore) ListReservations(context.Context) ([]model.ReservationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(model.Reservation) bool { return true }), nil
}

func (m *memStore) ListHistory(_ context.Context, id uint64) ([]model.ReservationHistory, error) {
	out := m.historyFor(id)
	if out == nil {
		out = []model.ReservationHistory{}
	}
	return out, nil
}

func (m *memStore) ListAllHistory(context.Context) ([]model.ReservationHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.history)
	slices.Reverse(out)
	return out, nil
}

// memTx runs with memStore.mu held.
type memTx struct{ m *memStore }

func (t *memTx) LockSpace(_ context.Context, id uint64) (model.Space, error) {
	sp, ok := t.m.spaces[id]
	if !ok {
		return model.Space{}, repository.ErrNotFound
	}
	return sp, nil
}

// ReservationsInWindow deliberately over-fetches every reservation of the
// space so the checker's own filtering is exercised.
func (t *memTx) ReservationsInWindow(_ context.Context, spaceID uint64, _, _ time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range t.m.reservations {
		if r.SpaceID == spaceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t *memTx) InsertReservation(_ context.Context, r *model.Reservation) error {
	t.m.nextRes++
	r.ID = t.m.nextRes
	t.m.reservations[r.ID] = *r
	return nil
}

func (t *memTx) LockReservation(_ context.Context, id uint64) (model.Reservation, error) {
	r, ok := t.m.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return r, nil
}

func (t *memTx) UpdateReservationStatus(_ context.Context, id uint64, status model.ReservationStatus) error {
	r, ok := t.m.reservations[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = status
	t.m.reservations[id] = r
	return nil
}

func (t *memTx) AppendHistory(_ context.Context, h *model.ReservationHistory) error {
	if t.m.failHistory != nil {
		return t.m.failHistory
	}
	t.m.nextHist++
	h.ID = t.m.nextHist
	t.m.history = append(t.m.history, *h)
	return nil
}

var errStoreDown = errors.New("store down")
