package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fleet-dispatch-service/internal/domain"
)

// In-memory implementations of the registry/store ports.
//
// They mirror the persistence contracts exactly (sequential ids, pre-sorted
// availability listing, insertion-order pending loads) and back the service
// tests and local runs without Postgres.

type MemoryVehicleRegistry struct {
	mu       sync.Mutex
	vehicles []*domain.Vehicle
}

func NewMemoryVehicleRegistry(vehicles ...*domain.Vehicle) *MemoryVehicleRegistry {
	r := &MemoryVehicleRegistry{}
	for _, v := range vehicles {
		clone := *v
		clone.Normalize()
		r.vehicles = append(r.vehicles, &clone)
	}
	return r
}

func (r *MemoryVehicleRegistry) List(ctx context.Context) ([]*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		clone := *v
		out = append(out, &clone)
	}
	return out, nil
}

func (r *MemoryVehicleRegistry) ListAvailable(ctx context.Context, originHint string) ([]*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		if v.Status != domain.VehicleAvailable {
			continue
		}
		clone := *v
		out = append(out, &clone)
	}

	if originHint != "" {
		// Stable: vehicles at the origin first, original order otherwise.
		sort.SliceStable(out, func(i, j int) bool {
			ri := rankByOrigin(out[i].Location, originHint)
			rj := rankByOrigin(out[j].Location, originHint)
			return ri < rj
		})
	}
	return out, nil
}

func rankByOrigin(location, origin string) int {
	if strings.EqualFold(location, origin) {
		return 0
	}
	return 1
}

func (r *MemoryVehicleRegistry) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.vehicles {
		if v.ID == id {
			clone := *v
			return &clone, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

func (r *MemoryVehicleRegistry) SetStatus(ctx context.Context, id string, status domain.VehicleStatus, location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.vehicles {
		if v.ID == id {
			v.Status = status
			if location != "" {
				v.Location = location
			}
			return nil
		}
	}
	return domain.ErrVehicleNotFound
}

func (r *MemoryVehicleRegistry) Update(ctx context.Context, updated *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, v := range r.vehicles {
		if v.ID == updated.ID {
			clone := *updated
			clone.Normalize()
			r.vehicles[i] = &clone
			return nil
		}
	}
	return domain.ErrVehicleNotFound
}

type MemoryTripStore struct {
	mu    sync.Mutex
	trips []*domain.Trip
}

func NewMemoryTripStore() *MemoryTripStore { return &MemoryTripStore{} }

func (s *MemoryTripStore) Create(ctx context.Context, t *domain.Trip) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *t
	clone.ID = fmt.Sprintf("TRIP%03d", len(s.trips)+1)
	clone.CreatedAt = time.Now()
	clone.Status = domain.TripPending
	s.trips = append(s.trips, &clone)

	out := clone
	return &out, nil
}

func (s *MemoryTripStore) Get(ctx context.Context, id string) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.trips {
		if t.ID == id {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTripNotFound
}

func (s *MemoryTripStore) ListActive(ctx context.Context) ([]*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Trip, 0, len(s.trips))
	for _, t := range s.trips {
		if !t.Active() {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (s *MemoryTripStore) Update(ctx context.Context, updated *domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.trips {
		if t.ID == updated.ID {
			clone := *updated
			s.trips[i] = &clone
			return nil
		}
	}
	return domain.ErrTripNotFound
}

type MemoryLoadStore struct {
	mu    sync.Mutex
	loads []*domain.Load
}

func NewMemoryLoadStore() *MemoryLoadStore { return &MemoryLoadStore{} }

func (s *MemoryLoadStore) Create(ctx context.Context, l *domain.Load) (*domain.Load, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *l
	clone.ID = fmt.Sprintf("LOAD%03d", len(s.loads)+1)
	clone.CreatedAt = time.Now()
	clone.Status = domain.LoadPending
	s.loads = append(s.loads, &clone)

	out := clone
	return &out, nil
}

func (s *MemoryLoadStore) Get(ctx context.Context, id string) (*domain.Load, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.loads {
		if l.ID == id {
			clone := *l
			return &clone, nil
		}
	}
	return nil, domain.ErrLoadNotFound
}

func (s *MemoryLoadStore) ListPending(ctx context.Context) ([]*domain.Load, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Load, 0, len(s.loads))
	for _, l := range s.loads {
		if l.Status != domain.LoadPending {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	return out, nil
}

func (s *MemoryLoadStore) SetStatus(ctx context.Context, id string, status domain.LoadStatus, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.loads {
		if l.ID == id {
			l.Status = status
			if tripID != "" {
				l.TripID = tripID
			}
			return nil
		}
	}
	return domain.ErrLoadNotFound
}

type MemoryUserDirectory struct {
	mu    sync.Mutex
	users []*domain.User
}

func NewMemoryUserDirectory(users ...*domain.User) *MemoryUserDirectory {
	d := &MemoryUserDirectory{}
	for _, u := range users {
		clone := *u
		d.users = append(d.users, &clone)
	}
	return d
}

func (d *MemoryUserDirectory) Get(ctx context.Context, phone string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Phone == phone {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *MemoryUserDirectory) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*domain.User, 0, len(d.users))
	for _, u := range d.users {
		if u.Role != role {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}
