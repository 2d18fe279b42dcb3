package partnership

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"partnerplane/internal/partner"
)

// Snapshot is one published configuration: a partner registry and the
// partnership registry resolved against it. A published snapshot is never
// modified; changes produce a new snapshot.
type Snapshot struct {
	// Revision uniquely identifies this snapshot.
	Revision string

	// Partners holds the partners of this configuration.
	Partners *partner.PartnerRegistry

	// Partnerships holds the partnerships of this configuration.
	Partnerships *partner.PartnershipRegistry

	// Source is the file the snapshot was loaded from, empty if none.
	Source string

	// SourceModTime is the source file's modification time at load.
	SourceModTime time.Time

	// LoadedAt is when the snapshot was built.
	LoadedAt time.Time
}

func newSnapshot(partners *partner.PartnerRegistry, partnerships *partner.PartnershipRegistry) *Snapshot {
	return &Snapshot{
		Revision:     uuid.NewString(),
		Partners:     partners,
		Partnerships: partnerships,
		LoadedAt:     time.Now(),
	}
}

// EmptySnapshot returns a snapshot without partners or partnerships.
func EmptySnapshot() *Snapshot {
	return newSnapshot(partner.NewPartnerRegistry(), partner.NewPartnershipRegistry())
}

// derive returns a deep copy of s with a fresh revision. The copy keeps the
// source information so refresh ordering still applies.
func (s *Snapshot) derive() *Snapshot {
	d := newSnapshot(s.Partners.Clone(), s.Partnerships.Clone())
	d.Source = s.Source
	d.SourceModTime = s.SourceModTime
	return d
}

// Partner returns the named partner.
func (s *Snapshot) Partner(name string) (*partner.Partner, bool) {
	return s.Partners.Get(name)
}

// Partnership returns the named partnership.
func (s *Snapshot) Partnership(name string) (*partner.Partnership, bool) {
	return s.Partnerships.Get(name)
}

// Lookup finds the partnership the engine should use for a message. A
// non-empty name selects by name. Otherwise the first partnership whose
// sender bag contains every entry of senderIDs and whose receiver bag
// contains every entry of receiverIDs is returned.
func (s *Snapshot) Lookup(name string, senderIDs, receiverIDs partner.Attributes) (*partner.Partnership, error) {
	if name != "" {
		p, ok := s.Partnerships.Get(name)
		if !ok {
			return nil, fmt.Errorf("partnership %q: %w", name, ErrNotFound)
		}
		return p, nil
	}

	if senderIDs.Len() == 0 && receiverIDs.Len() == 0 {
		return nil, fmt.Errorf("partnership lookup needs a name or partner IDs: %w", ErrNotFound)
	}

	for _, p := range s.Partnerships.All() {
		if containsAll(p.SenderIDs, senderIDs) && containsAll(p.ReceiverIDs, receiverIDs) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no partnership matches sender %v and receiver %v: %w", senderIDs.Map(), receiverIDs.Map(), ErrNotFound)
}

func containsAll(bag, subset partner.Attributes) bool {
	for _, e := range subset.Entries() {
		v, ok := bag.Get(e.Key)
		if !ok || v != e.Value {
			return false
		}
	}
	return true
}
