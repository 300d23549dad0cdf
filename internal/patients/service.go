// Package patients implements the query service: list, get, sort, create,
// update and delete over a storage.Storage, with BMI and verdict derived on
// every read.
package patients

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aanand-mishra/patients-api/internal/bmi"
	"github.com/aanand-mishra/patients-api/internal/storage"
	"github.com/aanand-mishra/patients-api/internal/types"
)

var (
	ErrNotFound        = errors.New("patient not found")
	ErrConflict        = errors.New("patient already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Sort fields and orders accepted by SortBy.
const (
	SortHeight = "height"
	SortWeight = "weight"
	SortBMI    = "bmi"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Service is built once per process in main.
//
// Every operation loads the whole store, works on that copy and, for
// mutations, saves the whole collection back. mu serialises those
// load/save pairs so two writers cannot overwrite each other's changes.
type Service struct {
	store storage.Storage
	bands bmi.Bands
	mu    sync.RWMutex
}

func NewService(store storage.Storage, bands bmi.Bands) *Service {
	if bands == "" {
		bands = bmi.BandsLegacy
	}
	return &Service{store: store, bands: bands}
}

// view attaches freshly derived metrics. A stored record whose measurements
// are missing or invalid gets zero metrics and no verdict.
func (s *Service) view(p types.Patient) types.PatientView {
	v := types.PatientView{Patient: p}
	if m, err := s.bands.Derive(p.Height, p.Weight); err == nil {
		v.BMI, v.Verdict = m.BMI, m.Verdict
	}
	return v
}

func indexOf(records []types.Patient, id string) int {
	return slices.IndexFunc(records, func(p types.Patient) bool { return p.ID == id })
}

// ListAll returns every record keyed by identifier.
func (s *Service) ListAll() (map[string]types.PatientView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}

	out := make(map[string]types.PatientView, len(records))
	for _, p := range records {
		out[p.ID] = s.view(p)
	}
	return out, nil
}

func (s *Service) Get(id string) (types.PatientView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.store.Load()
	if err != nil {
		return types.PatientView{}, fmt.Errorf("Get: %w", err)
	}

	i := indexOf(records, id)
	if i < 0 {
		return types.PatientView{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.view(records[i]), nil
}

// SortBy returns all records ordered by height, weight or bmi. An empty
// order means ascending. The sort is stable in both directions: records with
// equal keys stay in store order. A zero or underivable key sorts as 0.
func (s *Service) SortBy(field, order string) ([]types.PatientView, error) {
	switch field {
	case SortHeight, SortWeight, SortBMI:
	default:
		return nil, fmt.Errorf("%w: sort field %q, want one of %s, %s, %s",
			ErrInvalidArgument, field, SortHeight, SortWeight, SortBMI)
	}
	if order == "" {
		order = OrderAsc
	}
	if order != OrderAsc && order != OrderDesc {
		return nil, fmt.Errorf("%w: order %q, want %s or %s", ErrInvalidArgument, order, OrderAsc, OrderDesc)
	}

	s.mu.RLock()
	records, err := s.store.Load()
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("SortBy: %w", err)
	}

	views := make([]types.PatientView, len(records))
	for i, p := range records {
		views[i] = s.view(p)
	}

	key := func(v types.PatientView) float64 {
		switch field {
		case SortHeight:
			return v.Height
		case SortWeight:
			return v.Weight
		default:
			return v.BMI
		}
	}

	slices.SortStableFunc(views, func(a, b types.PatientView) int {
		if order == OrderDesc {
			return cmp.Compare(key(b), key(a))
		}
		return cmp.Compare(key(a), key(b))
	})
	return views, nil
}

// Create validates p and appends it. Nothing is written when validation
// fails or the identifier is taken.
func (s *Service) Create(p types.Patient) (types.PatientView, error) {
	if err := p.Validate(); err != nil {
		return types.PatientView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load()
	if err != nil {
		return types.PatientView{}, fmt.Errorf("Create: %w", err)
	}
	if indexOf(records, p.ID) >= 0 {
		return types.PatientView{}, fmt.Errorf("%w: %s", ErrConflict, p.ID)
	}

	if err := s.store.SaveAll(append(records, p)); err != nil {
		return types.PatientView{}, fmt.Errorf("Create: %w", err)
	}
	return s.view(p), nil
}

// Update merges the supplied fields into the stored record, re-validates
// the merged result and saves it. The identifier never changes. An update
// with no fields returns the current record without writing.
func (s *Service) Update(id string, u types.PatientUpdate) (types.PatientView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load()
	if err != nil {
		return types.PatientView{}, fmt.Errorf("Update: %w", err)
	}

	i := indexOf(records, id)
	if i < 0 {
		return types.PatientView{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	merged, err := u.ApplyTo(records[i])
	if err != nil {
		return types.PatientView{}, err
	}
	if u.IsEmpty() {
		return s.view(merged), nil
	}

	records[i] = merged
	if err := s.store.SaveAll(records); err != nil {
		return types.PatientView{}, fmt.Errorf("Update: %w", err)
	}
	return s.view(merged), nil
}

// Delete removes the record and returns it, metrics included.
func (s *Service) Delete(id string) (types.PatientView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load()
	if err != nil {
		return types.PatientView{}, fmt.Errorf("Delete: %w", err)
	}

	i := indexOf(records, id)
	if i < 0 {
		return types.PatientView{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := records[i]

	if err := s.store.SaveAll(slices.Delete(records, i, i+1)); err != nil {
		return types.PatientView{}, fmt.Errorf("Delete: %w", err)
	}
	return s.view(removed), nil
}
