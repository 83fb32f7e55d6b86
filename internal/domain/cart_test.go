package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(id, name string, price int64) ProductSnapshot {
	return ProductSnapshot{
		ProductID: id,
		Name:      name,
		UnitPrice: price,
		ImageURL:  "https://img.example.com/" + id + ".jpg",
	}
}

func TestSize_Valid(t *testing.T) {
	for _, s := range Sizes() {
		assert.True(t, s.Valid(), "size %s should be valid", s)
	}
	assert.False(t, Size("").Valid())
	assert.False(t, Size("XXXL").Valid())
}

func TestSnapshot_Validate(t *testing.T) {
	assert.NoError(t, snap("p-1", "Tee", 1990).Validate())
	assert.ErrorIs(t, ProductSnapshot{Name: "Tee", UnitPrice: 10}.Validate(), ErrMissingProductID)
	assert.ErrorIs(t, ProductSnapshot{ProductID: "p-1", UnitPrice: 10}.Validate(), ErrMissingName)
	assert.ErrorIs(t, ProductSnapshot{ProductID: "p-1", Name: "Tee", UnitPrice: -1}.Validate(), ErrNegativePrice)
}

func TestCart_Add_MergesIdenticalLines(t *testing.T) {
	var cart Cart

	first, merged := cart.Add(snap("p-1", "Tee", 1990), SizeM)
	assert.False(t, merged)

	second, merged := cart.Add(snap("p-1", "Tee", 1990), SizeM)
	assert.True(t, merged)
	assert.Equal(t, first, second)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(2*1990), cart.Total())
}

func TestCart_Add_DifferentSizesStayDistinct(t *testing.T) {
	var cart Cart

	mID, _ := cart.Add(snap("p-1", "Tee", 1990), SizeM)
	lID, _ := cart.Add(snap("p-1", "Tee", 1990), SizeL)

	require.Len(t, cart.Items, 2)
	assert.NotEqual(t, mID, lID)

	// Removing the M line leaves only the L line with quantity 1.
	assert.True(t, cart.Remove(mID))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, SizeL, cart.Items[0].Size)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCart_Add_DifferentNamesStayDistinct(t *testing.T) {
	var cart Cart

	cart.Add(snap("p-1", "Tee", 1990), SizeM)
	cart.Add(snap("p-1", "Tee v2", 1990), SizeM)

	assert.Len(t, cart.Items, 2)
}

func TestCart_Remove_Idempotent(t *testing.T) {
	var cart Cart
	id, _ := cart.Add(snap("p-1", "Tee", 1990), SizeM)

	assert.True(t, cart.Remove(id))
	assert.False(t, cart.Remove(id))
	assert.Empty(t, cart.Items)
}

func TestCart_AdjustQuantity_FloorAtOne(t *testing.T) {
	var cart Cart
	id, _ := cart.Add(snap("p-1", "Tee", 1990), SizeM)

	// Decrementing a quantity of 1 leaves it at 1, never 0 or removed.
	assert.True(t, cart.AdjustQuantity(id, -1))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	assert.True(t, cart.AdjustQuantity(id, 3))
	assert.Equal(t, 4, cart.Items[0].Quantity)

	assert.True(t, cart.AdjustQuantity(id, -10))
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCart_AdjustQuantity_AbsentLine(t *testing.T) {
	var cart Cart
	assert.False(t, cart.AdjustQuantity("missing", 1))
}

func TestCart_Totals(t *testing.T) {
	var cart Cart
	id1, _ := cart.Add(snap("p-1", "Tee", 1000), SizeM)
	cart.Add(snap("p-1", "Tee", 1000), SizeM)
	cart.Add(snap("p-2", "Hoodie", 2500), SizeL)

	// [(p-1, qty 2, 1000), (p-2, qty 1, 2500)]
	assert.Equal(t, int64(4500), cart.Total())
	assert.Equal(t, 3, cart.TotalItemCount())

	cart.Remove(id1)
	assert.Equal(t, int64(2500), cart.Total())
	assert.Equal(t, 1, cart.TotalItemCount())
}

func TestCart_Total_RecomputedAfterEverySequence(t *testing.T) {
	var cart Cart
	id, _ := cart.Add(snap("p-1", "Tee", 700), SizeS)
	cart.AdjustQuantity(id, 2)
	cart.Add(snap("p-2", "Cap", 300), SizeM)
	cart.AdjustQuantity(id, -1)

	var want int64
	for _, item := range cart.Items {
		want += item.UnitPrice * int64(item.Quantity)
	}
	assert.Equal(t, want, cart.Total())
}

func TestCart_Merge_AppliesIdentityRule(t *testing.T) {
	var mine, theirs Cart
	mine.Add(snap("p-1", "Tee", 1990), SizeM)
	theirs.Add(snap("p-1", "Tee", 1990), SizeM)
	theirs.Add(snap("p-3", "Socks", 500), SizeS)

	mine.Merge(theirs)

	require.Len(t, mine.Items, 2)
	assert.Equal(t, 2, mine.Items[0].Quantity)
	assert.Equal(t, "p-3", mine.Items[1].ProductID)
}

func TestCart_Clone_Independent(t *testing.T) {
	var cart Cart
	id, _ := cart.Add(snap("p-1", "Tee", 1990), SizeM)

	copied := cart.Clone()
	cart.AdjustQuantity(id, 5)

	assert.Equal(t, 1, copied.Items[0].Quantity)
}

func TestNewLineID_UniquePerCall(t *testing.T) {
	a := NewLineID("p-1", "Tee", SizeM)
	b := NewLineID("p-1", "Tee", SizeM)
	assert.NotEqual(t, a, b)
	// The identity prefix is stable across calls for the same triple.
	assert.Equal(t, a[:8], b[:8])
}
