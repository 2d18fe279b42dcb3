// Package partner holds the in-memory data model of the partnership
// configuration: ordered attribute bags, partners, partnerships and the two
// name-keyed registries that group them.
//
// # Attributes
//
// Attributes is an ordered string map. Setting a key that already exists
// replaces its value without moving it, so serialization order is the order
// in which keys were first seen. Keys read from XML are lowercased by the
// loader before they reach a bag; the bag itself stores keys verbatim.
//
// # Registries
//
// PartnerRegistry accepts a partner whose name is already registered and
// replaces the earlier entry. PartnershipRegistry rejects a duplicate name
// with ErrDuplicatePartnership. Both preserve insertion order.
//
// Values in this package are not safe for concurrent mutation. The store
// treats a populated registry as immutable once it is published and derives
// changed copies with Clone.
package partner
