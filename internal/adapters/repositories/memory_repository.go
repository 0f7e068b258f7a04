package repositories

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/ports"
)

var (
	_ ports.PatientRepository  = (*Memory)(nil)
	_ ports.VehicleRepository  = (*Memory)(nil)
	_ ports.ScheduleRepository = (*Memory)(nil)
)

// Memory is an in-memory repository used when no DATABASE_URL is set.
// Reads hand out copies; changes land only through SaveAssignments.
type Memory struct {
	mu       sync.Mutex
	patients map[string]*domain.Patient // id -> patient
	vehicles []*domain.Vehicle
	book     domain.ScheduleBook
}

func NewMemory(book domain.ScheduleBook, vehicles []*domain.Vehicle, patients []*domain.Patient) *Memory {
	m := &Memory{
		patients: make(map[string]*domain.Patient, len(patients)),
		book:     book,
	}
	for _, v := range vehicles {
		c := *v
		m.vehicles = append(m.vehicles, &c)
	}
	for _, p := range patients {
		m.patients[p.ID] = clonePatient(p)
	}
	return m
}

// NewMemoryFromSeed builds a Memory repository from a parsed seed file.
func NewMemoryFromSeed(seed *Seed) (*Memory, error) {
	book, err := seed.ScheduleBook()
	if err != nil {
		return nil, fmt.Errorf("memory repository: %w", err)
	}
	vehicles, err := seed.DomainVehicles()
	if err != nil {
		return nil, fmt.Errorf("memory repository: %w", err)
	}
	patients, err := seed.DomainPatients()
	if err != nil {
		return nil, fmt.Errorf("memory repository: %w", err)
	}
	return NewMemory(*book, vehicles, patients), nil
}

func (m *Memory) ListPatients(ctx context.Context, day time.Time) ([]*domain.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Patient, 0, len(m.patients))
	for _, p := range m.patients {
		onDay := (p.PickupAt != nil && domain.SameDay(*p.PickupAt, day)) ||
			(p.TreatmentEndAt != nil && domain.SameDay(*p.TreatmentEndAt, day))
		if onDay {
			out = append(out, clonePatient(p))
		}
	}

	slices.SortFunc(out, func(a, b *domain.Patient) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *Memory) SaveAssignments(ctx context.Context, patients []*domain.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range patients {
		if _, ok := m.patients[p.ID]; !ok {
			return fmt.Errorf("save assignments: patient_id=%s: %w", p.ID, domain.ErrNotFound)
		}
	}
	for _, p := range patients {
		stored := m.patients[p.ID]
		stored.PickupSlotID = p.PickupSlotID
		stored.DropoffSlotID = p.DropoffSlotID
		stored.VehicleID = p.VehicleID
		stored.Status = p.Status
	}
	return nil
}

// Patient returns a copy of the stored patient.
func (m *Memory) Patient(id string) (*domain.Patient, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.patients[id]
	if !ok {
		return nil, false
	}
	return clonePatient(p), true
}

func (m *Memory) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		c := *v
		out = append(out, &c)
	}
	return out, nil
}

func (m *Memory) LoadScheduleBook(ctx context.Context) (*domain.ScheduleBook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book := domain.ScheduleBook{ActiveID: m.book.ActiveID}
	for _, s := range m.book.Schedules {
		s.Slots = slices.Clone(s.Slots)
		book.Schedules = append(book.Schedules, s)
	}
	return &book, nil
}

func (m *Memory) ActivateSchedule(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.book.Activate(id)
}

func clonePatient(p *domain.Patient) *domain.Patient {
	c := *p
	if p.PickupAt != nil {
		t := *p.PickupAt
		c.PickupAt = &t
	}
	if p.TreatmentEndAt != nil {
		t := *p.TreatmentEndAt
		c.TreatmentEndAt = &t
	}
	if p.Location != nil {
		l := *p.Location
		c.Location = &l
	}
	return &c
}
