package command

import (
	"context"
	"fmt"
	"strings"

	"partnerplane/internal/partner"
	"partnerplane/internal/partnership"
)

// Store is the part of the partnership store the commands operate on.
type Store interface {
	Current() *partnership.Snapshot
	Refresh(ctx context.Context) error
	Save(ctx context.Context) error
	AddPartner(name string, attrs partner.Attributes) error
	DeletePartner(name string) error
	AddPartnership(name, sender, receiver string, attrs partner.Attributes) error
	DeletePartnership(name string) error
}

// NewDefaultRegistry returns a registry holding the partner and
// partnership command groups bound to store.
func NewDefaultRegistry(store Store) *Registry {
	r := NewRegistry()
	r.Register(NewPartnerCommand(store))
	r.Register(NewPartnershipCommand(store))
	return r
}

// parseAttributes converts key=value arguments into a bag. The value may be
// empty; the key may not.
func parseAttributes(args []string) (partner.Attributes, error) {
	var attrs partner.Attributes
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return partner.Attributes{}, fmt.Errorf("invalid attribute %q, expected key=value", arg)
		}
		attrs.Set(key, value)
	}
	return attrs, nil
}

func attributeLines(indent string, attrs partner.Attributes) []string {
	lines := make([]string, 0, attrs.Len())
	for _, a := range attrs.Entries() {
		lines = append(lines, fmt.Sprintf("%s%s = %s", indent, a.Key, a.Value))
	}
	return lines
}
