package formatting

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"partnerplane/internal/partnership"
)

const testXML = `<partnerships>
  <partner name="acme" as2_id="ACME" x509_alias="acme" email="as2@acme.example"/>
  <partner name="globex" as2_id="GLOBEX"/>
  <partnership name="acme-to-globex">
    <sender name="acme"/>
    <receiver name="globex"/>
    <attribute name="protocol" value="as2"/>
    <attribute name="subject" value="Invoices"/>
  </partnership>
</partnerships>`

func testSnapshot(t *testing.T) *partnership.Snapshot {
	t.Helper()
	snap, err := partnership.Load(strings.NewReader(testXML))
	require.NoError(t, err)
	return snap
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"plain", FormatPlain, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatTable}, &buf)

	require.NoError(t, f.Partners(testSnapshot(t)))
	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "AS2 ID")
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "email=as2@acme.example")
	assert.Contains(t, out, "╭", "rounded style")
	assert.Contains(t, out, "Total: 2 partners")
	assert.NotContains(t, out, "\x1b[", "no color codes unless enabled")

	buf.Reset()
	require.NoError(t, f.Partnerships(testSnapshot(t)))
	out = buf.String()
	assert.Contains(t, out, "SENDER")
	assert.Contains(t, out, "acme-to-globex")
	assert.Contains(t, out, "protocol=as2, subject=Invoices")
	assert.Contains(t, out, "Total: 1 partnerships")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatTable}, &buf)

	require.NoError(t, f.Partnerships(partnership.EmptySnapshot()))
	assert.Equal(t, "No partnerships defined\n", buf.String())
}

func TestTableFormatter_Color(t *testing.T) {
	text.EnableColors()

	var buf bytes.Buffer
	f := New(Options{Format: FormatTable, Color: true}, &buf)

	require.NoError(t, f.Partners(testSnapshot(t)))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatPlain}, &buf)

	require.NoError(t, f.Partners(testSnapshot(t)))
	assert.Equal(t, "acme\nglobex\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatJSON}, &buf)

	require.NoError(t, f.Partnerships(testSnapshot(t)))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "acme-to-globex", got[0]["name"])
	assert.Equal(t, "acme", got[0]["sender"])
	assert.Equal(t, "globex", got[0]["receiver"])
	assert.Equal(t, map[string]interface{}{"protocol": "as2", "subject": "Invoices"}, got[0]["attributes"])
	assert.Contains(t, buf.String(), `"name": "acme",`+"\n", "sender bag keeps key order")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatYAML}, &buf)

	require.NoError(t, f.Partners(testSnapshot(t)))
	out := buf.String()
	assert.Less(t, strings.Index(out, "as2_id: ACME"), strings.Index(out, "x509_alias: acme"), "attribute order is kept")

	var got []struct {
		Name       string            `yaml:"name"`
		Attributes map[string]string `yaml:"attributes"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "acme", got[0].Name)
	assert.Equal(t, "as2@acme.example", got[0].Attributes["email"])
	assert.Equal(t, "GLOBEX", got[1].Attributes["as2_id"])
}

func TestViews(t *testing.T) {
	snap := testSnapshot(t)

	partners := PartnerViews(snap)
	require.Len(t, partners, 2)
	assert.Equal(t, "globex", partners[1].Name)

	ships := PartnershipViews(snap)
	require.Len(t, ships, 1)
	assert.Equal(t, "ACME", ships[0].SenderIDs.Value("as2_id"))
	assert.Equal(t, "GLOBEX", ships[0].ReceiverIDs.Value("as2_id"))
}

func TestTableFormatter_TruncatesLongCells(t *testing.T) {
	snap, err := partnership.Load(strings.NewReader(`<partnerships>
  <partner name="a"/>
  <partnership name="p">
    <sender name="a"/>
    <receiver name="a"/>
    <attribute name="subject" value="` + strings.Repeat("x", 100) + `"/>
  </partnership>
</partnerships>`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(Options{Format: FormatTable}, &buf).Partnerships(snap))
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 60))

	buf.Reset()
	require.NoError(t, New(Options{Format: FormatTable, Wide: true}, &buf).Partnerships(snap))
	assert.Contains(t, buf.String(), strings.Repeat("x", 100))
}
