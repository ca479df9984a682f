package gamedata

import (
	"errors"
	"fmt"
	"sort"
)

// BuildingRegistry holds loaded building definitions and provides lookup
// utilities.
type BuildingRegistry struct {
	byID map[string]*BuildingDef
	all  []BuildingDef
}

// NewBuildingRegistry creates a registry from loaded building definitions.
func NewBuildingRegistry(buildings []BuildingDef) (*BuildingRegistry, error) {
	registry := &BuildingRegistry{
		byID: make(map[string]*BuildingDef, len(buildings)),
		all:  buildings,
	}
	for i := range buildings {
		id := buildings[i].ID
		if id == "" {
			return nil, fmt.Errorf("building %d has no id", i)
		}
		if _, dup := registry.byID[id]; dup {
			return nil, fmt.Errorf("duplicate building id %q", id)
		}
		registry.byID[id] = &buildings[i]
	}
	return registry, nil
}

// LoadBuildingRegistry loads and creates a registry from the embedded
// buildings.json.
func LoadBuildingRegistry() (*BuildingRegistry, error) {
	buildings, err := LoadBuildings()
	if err != nil {
		return nil, err
	}
	if len(buildings) == 0 {
		return nil, errors.New("no buildings loaded from buildings.json")
	}
	return NewBuildingRegistry(buildings)
}

// MustLoadBuildingRegistry loads a registry, panicking on error.
func MustLoadBuildingRegistry() *BuildingRegistry {
	registry, err := LoadBuildingRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the building definition with the given ID, or nil if not
// found.
func (r *BuildingRegistry) GetByID(id string) *BuildingDef {
	return r.byID[id]
}

// All returns all building definitions.
func (r *BuildingRegistry) All() []BuildingDef {
	return r.all
}

// Count returns the number of building kinds in the registry.
func (r *BuildingRegistry) Count() int {
	return len(r.all)
}

// Unlocked groups the kinds available after collected asteroids by
// category. Kinds within a category keep catalogue order.
func (r *BuildingRegistry) Unlocked(collected int) map[string][]string {
	out := make(map[string][]string)
	for _, b := range r.all {
		if collected >= b.UnlockAt {
			out[b.Category] = append(out[b.Category], b.ID)
		}
	}
	return out
}

// Categories returns the distinct categories in sorted order.
func (r *BuildingRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, b := range r.all {
		if !seen[b.Category] {
			seen[b.Category] = true
			cats = append(cats, b.Category)
		}
	}
	sort.Strings(cats)
	return cats
}
