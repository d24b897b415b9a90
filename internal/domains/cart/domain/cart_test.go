package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, id, price string) Item {
	t.Helper()
	item, err := NewItem(id, "title "+id, decimal.RequireFromString(price), map[string]string{MetadataImage: id + ".png"})
	require.NoError(t, err)
	return item
}

func TestNewItem_Validates(t *testing.T) {
	_, err := NewItem("  ", "x", decimal.NewFromInt(1), nil)
	require.ErrorIs(t, err, ErrInvalidItemID)

	_, err = NewItem("a", "x", decimal.NewFromInt(-1), nil)
	require.ErrorIs(t, err, ErrNegativePrice)

	item, err := NewItem("a", "x", decimal.Zero, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", item.ID)
}

func TestCart_AddKeepsDuplicatesAndOrder(t *testing.T) {
	a := mustItem(t, "A", "10")
	b := mustItem(t, "B", "5")

	cart := Empty().Add(a).Add(a).Add(b)

	require.Equal(t, 3, cart.Len())
	assert.Equal(t, []string{"A", "A", "B"}, cart.IDs())
}

func TestCart_AddDoesNotMutateReceiver(t *testing.T) {
	base := Empty().Add(mustItem(t, "A", "1"))
	_ = base.Add(mustItem(t, "B", "2"))

	assert.Equal(t, []string{"A"}, base.IDs())
}

func TestCart_RemoveDropsOnlyFirstMatch(t *testing.T) {
	a := mustItem(t, "A", "10")
	b := mustItem(t, "B", "5")
	cart := Empty().Add(a).Add(b).Add(a)

	next, removed := cart.Remove("A")

	require.True(t, removed)
	assert.Equal(t, []string{"B", "A"}, next.IDs())
	assert.Equal(t, []string{"A", "B", "A"}, cart.IDs())
}

func TestCart_RemoveAbsentIsNoop(t *testing.T) {
	cart := Empty().Add(mustItem(t, "A", "10"))

	next, removed := cart.Remove("Z")

	assert.False(t, removed)
	assert.Equal(t, cart.IDs(), next.IDs())
	assert.True(t, cart.Total().Equal(next.Total()))
}

func TestCart_TotalIsOrderIndependent(t *testing.T) {
	a := mustItem(t, "A", "10.10")
	b := mustItem(t, "B", "0.20")
	c := mustItem(t, "C", "3.33")

	forward := Empty().Add(a).Add(b).Add(c)
	backward := Empty().Add(c).Add(b).Add(a)

	assert.True(t, forward.Total().Equal(decimal.RequireFromString("13.63")))
	assert.True(t, forward.Total().Equal(backward.Total()))
	assert.True(t, Empty().Total().IsZero())
}

func TestCart_GroupedTracksRemovals(t *testing.T) {
	a := mustItem(t, "A", "10")
	b := mustItem(t, "B", "5")
	cart := Empty().Add(a).Add(a).Add(b)

	grouped := cart.Grouped()
	require.Len(t, grouped, 2)
	assert.Len(t, grouped["A"], 2)
	assert.Len(t, grouped["B"], 1)

	cart, _ = cart.Remove("A")
	grouped = cart.Grouped()
	assert.Len(t, grouped["A"], 1)
	assert.Len(t, grouped["B"], 1)
}

func TestCart_LinesFollowFirstAppearance(t *testing.T) {
	a := mustItem(t, "A", "10")
	b := mustItem(t, "B", "5")
	cart := Empty().Add(b).Add(a).Add(b)

	lines := cart.Lines()

	require.Len(t, lines, 2)
	assert.Equal(t, "B", lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].Subtotal.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "B.png", lines[0].Image)
	assert.Equal(t, "A", lines[1].ID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestCart_ItemsAreCopies(t *testing.T) {
	cart := Empty().Add(mustItem(t, "A", "1"))

	items := cart.Items()
	items[0].ID = "mutated"
	items[0].Metadata[MetadataImage] = "mutated.png"

	assert.Equal(t, "A", cart.Items()[0].ID)
	assert.Equal(t, "A.png", cart.Items()[0].Image())
}

func TestCart_Clear(t *testing.T) {
	cart := Empty().Add(mustItem(t, "A", "1")).Clear()
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
}
