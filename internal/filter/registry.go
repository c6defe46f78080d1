package filter

import (
	"fmt"
	"sort"
)

// Registry owns the set of live destinations and keeps every category's
// visibility map keyed by exactly that set. It is not safe for concurrent
// use; the engine serializes access.
type Registry struct {
	model *Model
	live  map[int]struct{}
}

// NewRegistry binds a registry to model with destinations registered.
// Loaded flags for those destinations are kept; flags for any other id are
// pruned.
func NewRegistry(model *Model, destinations ...int) *Registry {
	r := &Registry{model: model}
	r.Reconcile(destinations)
	return r
}

// Model returns the bound model.
func (r *Registry) Model() *Model {
	return r.model
}

// SetModel binds a freshly loaded model. Callers follow it with Reconcile so
// the new maps match the live set.
func (r *Registry) SetModel(model *Model) {
	r.model = model
}

// RegisterDestination adds id to the live set with a false flag in every
// category that does not already carry one.
func (r *Registry) RegisterDestination(id int) error {
	if id < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDestination, id)
	}
	if _, ok := r.live[id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateDestination, id)
	}
	r.live[id] = struct{}{}
	r.eachCategory(func(c *Category) {
		if _, ok := c.show[id]; !ok {
			c.show[id] = false
		}
	})
	return nil
}

// DeregisterDestination removes id and its flag from every category.
func (r *Registry) DeregisterDestination(id int) error {
	if _, ok := r.live[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDestination, id)
	}
	delete(r.live, id)
	r.eachCategory(func(c *Category) {
		delete(c.show, id)
	})
	return nil
}

// SetVisible sets the flag for tag on destination id.
func (r *Registry) SetVisible(tag Tag, id int, visible bool) error {
	cat, err := r.lookup(tag, id)
	if err != nil {
		return err
	}
	cat.show[id] = visible
	return nil
}

// GetVisible reports whether tag is routed to destination id.
func (r *Registry) GetVisible(tag Tag, id int) (bool, error) {
	cat, err := r.lookup(tag, id)
	if err != nil {
		return false, err
	}
	return cat.show[id], nil
}

// Visible is GetVisible without the error, for the routing hot path.
func (r *Registry) Visible(tag Tag, id int) bool {
	v, _ := r.GetVisible(tag, id)
	return v
}

// Reconcile makes expected the live set and forces every category's map to
// carry exactly those keys: existing flags survive, stale keys are dropped
// and missing keys default to false.
func (r *Registry) Reconcile(expected []int) {
	live := make(map[int]struct{}, len(expected))
	for _, id := range expected {
		if id >= 0 {
			live[id] = struct{}{}
		}
	}
	r.live = live
	r.eachCategory(func(c *Category) {
		for id := range c.show {
			if _, ok := live[id]; !ok {
				delete(c.show, id)
			}
		}
		for id := range live {
			if _, ok := c.show[id]; !ok {
				c.show[id] = false
			}
		}
	})
}

// Destinations returns the live set in ascending order.
func (r *Registry) Destinations() []int {
	ids := make([]int, 0, len(r.live))
	for id := range r.live {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Registered reports whether id is live.
func (r *Registry) Registered(id int) bool {
	_, ok := r.live[id]
	return ok
}

// NextDestination returns the lowest id not currently registered.
func (r *Registry) NextDestination() int {
	for id := 0; ; id++ {
		if _, ok := r.live[id]; !ok {
			return id
		}
	}
}

func (r *Registry) lookup(tag Tag, id int) (*Category, error) {
	if r.model == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, tag)
	}
	cat, ok := r.model.Category(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, tag)
	}
	if _, ok := r.live[id]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDestination, id)
	}
	return cat, nil
}

func (r *Registry) eachCategory(fn func(*Category)) {
	if r.model == nil {
		return
	}
	for _, g := range r.model.groups {
		for _, c := range g.Categories {
			fn(c)
		}
	}
}
