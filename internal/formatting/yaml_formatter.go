package formatting

import (
	"io"

	"gopkg.in/yaml.v3"

	"partnerplane/internal/partner"
	"partnerplane/internal/partnership"
)

// yamlFormatter provides YAML output formatting. Attribute order is kept by
// building the document from nodes.
type yamlFormatter struct {
	w io.Writer
}

func (f *yamlFormatter) Partners(snap *partnership.Snapshot) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range PartnerViews(snap) {
		seq.Content = append(seq.Content, mappingNode(
			"name", scalarNode(v.Name),
			"attributes", attributesNode(v.Attributes),
		))
	}
	return f.encode(seq)
}

func (f *yamlFormatter) Partnerships(snap *partnership.Snapshot) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range PartnershipViews(snap) {
		seq.Content = append(seq.Content, mappingNode(
			"name", scalarNode(v.Name),
			"sender", scalarNode(v.Sender),
			"receiver", scalarNode(v.Receiver),
			"senderIDs", attributesNode(v.SenderIDs),
			"receiverIDs", attributesNode(v.ReceiverIDs),
			"attributes", attributesNode(v.Attributes),
		))
	}
	return f.encode(seq)
}

func (f *yamlFormatter) encode(node *yaml.Node) error {
	enc := yaml.NewEncoder(f.w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// mappingNode builds a mapping from alternating key strings and value nodes.
func mappingNode(pairs ...interface{}) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Content = append(m.Content, scalarNode(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return m
}

func attributesNode(attrs partner.Attributes) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range attrs.Entries() {
		m.Content = append(m.Content, scalarNode(a.Key), scalarNode(a.Value))
	}
	return m
}
