package partnership

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"partnerplane/internal/partner"
	"partnerplane/pkg/logging"
)

// XML element and attribute names of the partnership file.
const (
	elemRoot        = "partnerships"
	elemPartner     = "partner"
	elemPartnership = "partnership"
	elemSender      = "sender"
	elemReceiver    = "receiver"
	elemAttribute   = "attribute"

	attrValue = "value"
)

// element is a minimal DOM node. encoding/xml does not keep attribute order
// when unmarshaling into maps, so the document is read token by token.
type element struct {
	tag      string
	attrs    partner.Attributes
	children []*element
}

func (e *element) firstChild(tag string) *element {
	for _, c := range e.children {
		if c.tag == tag {
			return c
		}
	}
	return nil
}

func (e *element) childrenNamed(tag string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// readTree reads the document element.
func readTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *element
		stack []*element
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return nil, &Error{Kind: KindParse, Message: "unexpected end of document", Err: err}
			}
			if root == nil {
				return nil, parseErrorf("", "document has no root element")
			}
			return root, nil
		}
		if err != nil {
			return nil, &Error{Kind: KindParse, Message: "malformed XML", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, parseErrorf("", "document has more than one root element")
			}
			attrs, err := lowercaseAttrs(t)
			if err != nil {
				return nil, err
			}
			el := &element{tag: t.Name.Local, attrs: attrs}
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
}

// lowercaseAttrs converts element attributes into a bag with lowercase keys.
// Namespace declarations are skipped; any other prefixed attribute is
// rejected.
func lowercaseAttrs(t xml.StartElement) (partner.Attributes, error) {
	var bag partner.Attributes
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		if a.Name.Space != "" {
			return partner.Attributes{}, parseErrorf("", "<%s> has namespaced attribute '%s:%s'", t.Name.Local, a.Name.Space, a.Name.Local)
		}
		bag.Set(strings.ToLower(a.Name.Local), a.Value)
	}
	return bag, nil
}

// Load parses a partnership document into a new snapshot. Partners must be
// defined before the partnerships that reference them. An input without a
// root element is a parse error.
func Load(r io.Reader) (*Snapshot, error) {
	root, err := readTree(r)
	if err != nil {
		return nil, err
	}

	partners := partner.NewPartnerRegistry()
	partnerships := partner.NewPartnershipRegistry()

	for _, child := range root.children {
		switch child.tag {
		case elemPartner:
			p, err := loadPartner(child)
			if err != nil {
				return nil, err
			}
			partners.Add(p)
		case elemPartnership:
			ps, err := loadPartnership(child, partners, partnerships)
			if err != nil {
				return nil, err
			}
			if err := partnerships.Add(ps); err != nil {
				return nil, parseErrorf(ps.Name, "Partnership is defined more than once: %s", ps.Name)
			}
		default:
			logging.Warn(subsystem, "Invalid element '%s' in XML partnership file", child.tag)
		}
	}

	return newSnapshot(partners, partnerships), nil
}

// LoadBytes parses a partnership document held in memory.
func LoadBytes(data []byte) (*Snapshot, error) {
	return Load(bytes.NewReader(data))
}

func loadPartner(el *element) (*partner.Partner, error) {
	if !el.attrs.Has(partner.AttrName) {
		return nil, parseErrorf("", "<%s> is missing required attribute '%s'", el.tag, partner.AttrName)
	}
	return partner.NewPartner(el.attrs), nil
}

func loadPartnership(el *element, partners *partner.PartnerRegistry, existing *partner.PartnershipRegistry) (*partner.Partnership, error) {
	name, ok := el.attrs.Get(partner.AttrName)
	if !ok {
		return nil, parseErrorf("", "<%s> is missing required attribute '%s'", el.tag, partner.AttrName)
	}
	if _, dup := existing.Get(name); dup {
		return nil, parseErrorf(name, "Partnership is defined more than once: %s", name)
	}

	ps := partner.NewPartnership(name)

	senderIDs, err := loadPartnerIDs(el, partners, name, elemSender)
	if err != nil {
		return nil, err
	}
	ps.SenderIDs = senderIDs

	receiverIDs, err := loadPartnerIDs(el, partners, name, elemReceiver)
	if err != nil {
		return nil, err
	}
	ps.ReceiverIDs = receiverIDs

	for _, a := range el.childrenNamed(elemAttribute) {
		key, hasKey := a.attrs.Get(partner.AttrName)
		value, hasValue := a.attrs.Get(attrValue)
		if !hasKey || !hasValue {
			return nil, parseErrorf(name, "Partnership '%s' has an <%s> without '%s' and '%s'", name, elemAttribute, partner.AttrName, attrValue)
		}
		ps.Attributes.Set(key, value)
	}

	return ps, nil
}

// loadPartnerIDs builds the sender or receiver bag: the referenced partner's
// attributes first, then the element's own attributes on top.
func loadPartnerIDs(el *element, partners *partner.PartnerRegistry, partnershipName, role string) (partner.Attributes, error) {
	node := el.firstChild(role)
	if node == nil {
		return partner.Attributes{}, parseErrorf(partnershipName, "Partnership '%s' is missing %s", partnershipName, role)
	}

	var ids partner.Attributes
	if partnerName, ok := node.attrs.Get(partner.AttrName); ok {
		p, found := partners.Get(partnerName)
		if !found {
			return partner.Attributes{}, parseErrorf(partnershipName, "Partnership '%s' has an undefined %s: '%s'", partnershipName, role, partnerName)
		}
		ids.Merge(p.Attributes)
	}
	ids.Merge(node.attrs)
	return ids, nil
}

// Encode writes the snapshot as an indented partnership document. Sender
// and receiver elements carry only the partner name; other identity
// attributes are recovered from the partner on the next load.
func Encode(w io.Writer, snap *Snapshot) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: elemRoot}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}

	for _, p := range snap.Partners.All() {
		if err := emptyElement(enc, elemPartner, xmlAttrs(p.Entries())); err != nil {
			return err
		}
	}

	for _, ps := range snap.Partnerships.All() {
		start := xml.StartElement{
			Name: xml.Name{Local: elemPartnership},
			Attr: []xml.Attr{{Name: xml.Name{Local: partner.AttrName}, Value: ps.Name}},
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if err := emptyElement(enc, elemSender, nameOnly(ps.SenderIDs)); err != nil {
			return err
		}
		if err := emptyElement(enc, elemReceiver, nameOnly(ps.ReceiverIDs)); err != nil {
			return err
		}
		for _, a := range ps.Attributes.Entries() {
			attrs := []xml.Attr{
				{Name: xml.Name{Local: partner.AttrName}, Value: a.Key},
				{Name: xml.Name{Local: attrValue}, Value: a.Value},
			}
			if err := emptyElement(enc, elemAttribute, attrs); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(start.End()); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func emptyElement(enc *xml.Encoder, tag string, attrs []xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: tag}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func xmlAttrs(entries []partner.Attribute) []xml.Attr {
	out := make([]xml.Attr, 0, len(entries))
	for _, e := range entries {
		out = append(out, xml.Attr{Name: xml.Name{Local: e.Key}, Value: e.Value})
	}
	return out
}

func nameOnly(ids partner.Attributes) []xml.Attr {
	name, ok := ids.Get(partner.AttrName)
	if !ok {
		return nil
	}
	return []xml.Attr{{Name: xml.Name{Local: partner.AttrName}, Value: name}}
}

// IsValidAttributeName reports whether key can be written as an XML
// attribute name of a <partner> element.
func IsValidAttributeName(key string) bool {
	if key == "" || strings.HasPrefix(strings.ToLower(key), "xml") {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}
