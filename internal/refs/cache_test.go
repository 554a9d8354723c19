package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCreated(t *testing.T) {
	c := New()

	_, ok := c.Get(KindProduct)
	assert.False(t, ok, "cache miss is not an error")

	assert.True(t, c.RecordCreated(KindProduct, "p1"))
	id, ok := c.Get(KindProduct)
	require.True(t, ok)
	assert.Equal(t, "p1", id)

	assert.True(t, c.RecordCreated(KindProduct, "p2"), "last write wins")
	id, _ = c.Get(KindProduct)
	assert.Equal(t, "p2", id)

	assert.False(t, c.RecordCreated(KindProduct, ""), "empty id is ignored")
	id, _ = c.Get(KindProduct)
	assert.Equal(t, "p2", id)

	assert.False(t, c.RecordCreated(Kind("invoice"), "i1"))
}

func TestRecordFirstOfList(t *testing.T) {
	c := New()

	assert.False(t, c.RecordFirstOfList(KindUser, nil))
	_, ok := c.Get(KindUser)
	assert.False(t, ok)

	assert.True(t, c.RecordFirstOfList(KindUser, []string{"u1", "u2"}))
	id, _ := c.Get(KindUser)
	assert.Equal(t, "u1", id)

	assert.False(t, c.RecordFirstOfList(KindUser, []string{}), "empty list never overwrites")
	id, _ = c.Get(KindUser)
	assert.Equal(t, "u1", id)
}

func TestSlotsAreIndependent(t *testing.T) {
	c := New()
	c.RecordCreated(KindOrder, "o1")
	c.RecordCreated(KindService, "s1")

	_, ok := c.Get(KindProduct)
	assert.False(t, ok)
	assert.Equal(t, []Kind{KindOrder, KindService}, c.Populated())
}

func TestSnapshotRestore(t *testing.T) {
	c := New()
	c.RecordCreated(KindResource, "r1")

	snap := c.Snapshot()
	snap[KindResource] = "mutated"
	id, _ := c.Get(KindResource)
	assert.Equal(t, "r1", id, "snapshot must be a copy")

	other := New()
	other.Restore(map[Kind]string{KindOrder: "o9", Kind("bogus"): "x", KindUser: ""})
	id, ok := other.Get(KindOrder)
	require.True(t, ok)
	assert.Equal(t, "o9", id)
	assert.Len(t, other.Snapshot(), 1)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Order ")
	require.NoError(t, err)
	assert.Equal(t, KindOrder, k)

	_, err = ParseKind("invoice")
	assert.ErrorContains(t, err, "user, product, service, resource, order")
}
