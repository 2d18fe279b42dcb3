package partner

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes_SetKeepsFirstPosition(t *testing.T) {
	var a Attributes
	a.Set("name", "alpha")
	a.Set("as2_id", "A1")
	a.Set("name", "beta")

	assert.Equal(t, []string{"name", "as2_id"}, a.Keys())
	assert.Equal(t, "beta", a.Value("name"))
	assert.Equal(t, 2, a.Len())
}

func TestAttributes_GetAndHas(t *testing.T) {
	a := NewAttributes("empty", "", "k", "v", "dangling")

	v, ok := a.Get("empty")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = a.Get("missing")
	assert.False(t, ok)
	assert.False(t, a.Has("dangling"), "trailing key without value is ignored")
	assert.True(t, a.Has("k"))
}

func TestAttributes_Delete(t *testing.T) {
	a := NewAttributes("a", "1", "b", "2", "c", "3")

	assert.True(t, a.Delete("b"))
	assert.False(t, a.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, a.Keys())

	a.Set("b", "4")
	assert.Equal(t, []string{"a", "c", "b"}, a.Keys())
}

func TestAttributes_MergeOverridesInOrder(t *testing.T) {
	inherited := NewAttributes("name", "P", "as2_id", "A1", "x509_alias", "p-cert")
	local := NewAttributes("name", "P", "as2_id", "A2", "extra", "x")

	var bag Attributes
	bag.Merge(inherited)
	bag.Merge(local)

	assert.Equal(t, "A2", bag.Value("as2_id"))
	assert.Equal(t, []string{"name", "as2_id", "x509_alias", "extra"}, bag.Keys())
}

func TestAttributes_CloneIsIndependent(t *testing.T) {
	orig := NewAttributes("k", "v")
	clone := orig.Clone()
	clone.Set("k", "changed")
	clone.Set("new", "1")

	assert.Equal(t, "v", orig.Value("k"))
	assert.False(t, orig.Has("new"))
	assert.False(t, orig.Equal(clone))
}

func TestAttributes_MarshalJSONKeepsOrder(t *testing.T) {
	a := NewAttributes("z", "1", "a", "2\"q")

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":"2\"q"}`, string(data))

	var empty Attributes
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestPartnerRegistry_LastWriteWins(t *testing.T) {
	r := NewPartnerRegistry()
	r.Add(NewPartner(NewAttributes("name", "A", "as2_id", "first")))
	r.Add(NewPartner(NewAttributes("name", "B")))
	r.Add(NewPartner(NewAttributes("name", "A", "as2_id", "second")))

	require.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"A", "B"}, r.Names())

	p, ok := r.Get("A")
	require.True(t, ok)
	assert.Equal(t, "second", p.Value("as2_id"))
}

func TestPartnerRegistry_RemoveAndClone(t *testing.T) {
	r := NewPartnerRegistry()
	r.Add(NewPartner(NewAttributes("name", "A")))
	r.Add(NewPartner(NewAttributes("name", "B")))

	c := r.Clone()
	assert.True(t, c.Remove("A"))
	assert.False(t, c.Remove("A"))

	assert.Equal(t, []string{"B"}, c.Names())
	assert.Equal(t, []string{"A", "B"}, r.Names())
}

func TestPartnershipRegistry_RejectsDuplicates(t *testing.T) {
	r := NewPartnershipRegistry()
	require.NoError(t, r.Add(NewPartnership("p1")))

	err := r.Add(NewPartnership("p1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicatePartnership))
	assert.Contains(t, err.Error(), "p1")
	assert.Equal(t, 1, r.Len())
}

func TestPartnershipRegistry_ReferencingPartner(t *testing.T) {
	r := NewPartnershipRegistry()

	a := NewPartnership("a-to-b")
	a.SenderIDs.Set(AttrName, "A")
	a.ReceiverIDs.Set(AttrName, "B")
	require.NoError(t, r.Add(a))

	c := NewPartnership("c-to-a")
	c.SenderIDs.Set(AttrName, "C")
	c.ReceiverIDs.Set(AttrName, "A")
	require.NoError(t, r.Add(c))

	assert.Equal(t, []string{"a-to-b", "c-to-a"}, r.ReferencingPartner("A"))
	assert.Equal(t, []string{"a-to-b"}, r.ReferencingPartner("B"))
	assert.Empty(t, r.ReferencingPartner("D"))
}

func TestPartnership_CloneIsDeep(t *testing.T) {
	p := NewPartnership("p")
	p.SenderIDs.Set(AttrName, "A")
	p.Attributes.Set(PASign, "sha256")

	c := p.Clone()
	c.SenderIDs.Set(AttrName, "Z")
	c.Attributes.Set(PASign, "md5")

	assert.Equal(t, "A", p.SenderName())
	assert.Equal(t, "sha256", p.Attribute(PASign))
	assert.Equal(t, "Z", c.SenderName())
}
