package partner

import (
	"errors"
	"fmt"
)

// ErrDuplicatePartnership is returned when a partnership name is registered twice.
var ErrDuplicatePartnership = errors.New("partnership already defined")

// PartnerRegistry maps partner names to partners in insertion order.
type PartnerRegistry struct {
	order  []string
	byName map[string]*Partner
}

// NewPartnerRegistry creates an empty partner registry.
func NewPartnerRegistry() *PartnerRegistry {
	return &PartnerRegistry{byName: make(map[string]*Partner)}
}

// Add registers p under its name. A partner already registered under the
// same name is replaced and keeps its position.
func (r *PartnerRegistry) Add(p *Partner) {
	name := p.Name()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = p
}

// Get returns the partner registered under name.
func (r *PartnerRegistry) Get(name string) (*Partner, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Remove deletes the partner registered under name.
func (r *PartnerRegistry) Remove(name string) bool {
	if _, ok := r.byName[name]; !ok {
		return false
	}
	delete(r.byName, name)
	r.order = removeName(r.order, name)
	return true
}

// Names returns the registered names in insertion order.
func (r *PartnerRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the registered partners in insertion order.
func (r *PartnerRegistry) All() []*Partner {
	out := make([]*Partner, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered partners.
func (r *PartnerRegistry) Len() int {
	return len(r.order)
}

// Clone returns a deep copy of the registry.
func (r *PartnerRegistry) Clone() *PartnerRegistry {
	c := NewPartnerRegistry()
	for _, p := range r.All() {
		c.Add(p.Clone())
	}
	return c
}

// PartnershipRegistry maps partnership names to partnerships in insertion
// order and rejects duplicates.
type PartnershipRegistry struct {
	order  []string
	byName map[string]*Partnership
}

// NewPartnershipRegistry creates an empty partnership registry.
func NewPartnershipRegistry() *PartnershipRegistry {
	return &PartnershipRegistry{byName: make(map[string]*Partnership)}
}

// Add registers p. It fails with ErrDuplicatePartnership if the name is taken.
func (r *PartnershipRegistry) Add(p *Partnership) error {
	if _, exists := r.byName[p.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePartnership, p.Name)
	}
	r.order = append(r.order, p.Name)
	r.byName[p.Name] = p
	return nil
}

// Get returns the partnership registered under name.
func (r *PartnershipRegistry) Get(name string) (*Partnership, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Remove deletes the partnership registered under name.
func (r *PartnershipRegistry) Remove(name string) bool {
	if _, ok := r.byName[name]; !ok {
		return false
	}
	delete(r.byName, name)
	r.order = removeName(r.order, name)
	return true
}

// Names returns the registered names in insertion order.
func (r *PartnershipRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the registered partnerships in insertion order.
func (r *PartnershipRegistry) All() []*Partnership {
	out := make([]*Partnership, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered partnerships.
func (r *PartnershipRegistry) Len() int {
	return len(r.order)
}

// ReferencingPartner returns the names of partnerships whose sender or
// receiver resolves from the named partner.
func (r *PartnershipRegistry) ReferencingPartner(partnerName string) []string {
	var names []string
	for _, p := range r.All() {
		if p.References(partnerName) {
			names = append(names, p.Name)
		}
	}
	return names
}

// Clone returns a deep copy of the registry.
func (r *PartnershipRegistry) Clone() *PartnershipRegistry {
	c := NewPartnershipRegistry()
	for _, p := range r.All() {
		// Names are unique in r, Add cannot fail.
		_ = c.Add(p.Clone())
	}
	return c
}

func removeName(order []string, name string) []string {
	out := make([]string, 0, len(order))
	for _, n := range order {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
