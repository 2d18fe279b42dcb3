package partner

// AttrName is the attribute that identifies a partner and, inside a
// sender or receiver bag, the partner it was resolved from.
const AttrName = "name"

// Well-known partner ID keys consumed by the AS2 engine.
const (
	PIDAS2       = "as2_id"
	PIDX509Alias = "x509_alias"
	PIDEmail     = "email"
)

// Well-known partnership attribute keys.
const (
	PAProtocol      = "protocol"
	PASubject       = "subject"
	PAAS2URL        = "as2_url"
	PAAS2MDNTo      = "as2_mdn_to"
	PAAS2MDNOptions = "as2_mdn_options"
	PAEncrypt       = "encrypt"
	PASign          = "sign"
	PAMessageID     = "messageid"
)

// Partner is a named bag of identity attributes. The name is stored under
// AttrName like any other attribute.
type Partner struct {
	Attributes
}

// NewPartner returns a partner whose attributes are a copy of attrs.
func NewPartner(attrs Attributes) *Partner {
	return &Partner{Attributes: attrs.Clone()}
}

// Name returns the partner name.
func (p *Partner) Name() string {
	return p.Value(AttrName)
}

// Clone returns an independent copy of the partner.
func (p *Partner) Clone() *Partner {
	return &Partner{Attributes: p.Attributes.Clone()}
}

// Partnership is an agreement between a resolved sender and receiver plus
// generic policy attributes.
type Partnership struct {
	Name        string
	SenderIDs   Attributes
	ReceiverIDs Attributes
	Attributes  Attributes
}

// NewPartnership returns an empty partnership with the given name.
func NewPartnership(name string) *Partnership {
	return &Partnership{Name: name}
}

// SenderID returns the sender attribute stored under key.
func (p *Partnership) SenderID(key string) string {
	return p.SenderIDs.Value(key)
}

// ReceiverID returns the receiver attribute stored under key.
func (p *Partnership) ReceiverID(key string) string {
	return p.ReceiverIDs.Value(key)
}

// Attribute returns the generic attribute stored under key.
func (p *Partnership) Attribute(key string) string {
	return p.Attributes.Value(key)
}

// SenderName returns the name of the partner the sender was resolved from.
func (p *Partnership) SenderName() string {
	return p.SenderIDs.Value(AttrName)
}

// ReceiverName returns the name of the partner the receiver was resolved from.
func (p *Partnership) ReceiverName() string {
	return p.ReceiverIDs.Value(AttrName)
}

// References reports whether the partnership resolves its sender or
// receiver from the named partner.
func (p *Partnership) References(partnerName string) bool {
	return p.SenderName() == partnerName || p.ReceiverName() == partnerName
}

// Clone returns an independent copy of the partnership.
func (p *Partnership) Clone() *Partnership {
	return &Partnership{
		Name:        p.Name,
		SenderIDs:   p.SenderIDs.Clone(),
		ReceiverIDs: p.ReceiverIDs.Clone(),
		Attributes:  p.Attributes.Clone(),
	}
}
