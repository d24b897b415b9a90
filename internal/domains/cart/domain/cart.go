package domain

import "github.com/shopspring/decimal"

// Cart is an immutable, ordered snapshot of items. Every mutation returns a new
// Cart and leaves the receiver untouched, so a snapshot handed to checkout can't
// observe later edits.
type Cart struct {
	items []Item
}

// Grouped maps an item ID to every cart entry with that ID, in cart order.
type Grouped map[string][]Item

// Line is one row of the grouped view.
type Line struct {
	ID        string
	Title     string
	Image     string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
	Items     []Item
}

// Empty returns a cart with no items.
func Empty() Cart {
	return Cart{}
}

// Add appends a copy of item. Duplicates are kept as separate entries.
// The item is expected to satisfy NewItem's checks; Add does not re-validate.
func (c Cart) Add(item Item) Cart {
	next := make([]Item, len(c.items), len(c.items)+1)
	copy(next, c.items)
	return Cart{items: append(next, item.clone())}
}

// Remove drops the first entry whose ID matches. It reports false and returns
// the cart unchanged when no entry matches.
func (c Cart) Remove(id string) (Cart, bool) {
	for idx := range c.items {
		if c.items[idx].ID != id {
			continue
		}
		next := make([]Item, 0, len(c.items)-1)
		next = append(next, c.items[:idx]...)
		next = append(next, c.items[idx+1:]...)
		return Cart{items: next}, true
	}
	return c, false
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Empty()
}

// Total sums item prices. The empty cart totals zero.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price)
	}
	return total
}

// Grouped partitions the entries by ID.
func (c Cart) Grouped() Grouped {
	grouped := make(Grouped)
	for _, item := range c.items {
		grouped[item.ID] = append(grouped[item.ID], item.clone())
	}
	return grouped
}

// Lines returns the grouped view ordered by first appearance in the cart.
func (c Cart) Lines() []Line {
	grouped := c.Grouped()
	lines := make([]Line, 0, len(grouped))
	seen := make(map[string]struct{}, len(grouped))
	for _, item := range c.items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		entries := grouped[item.ID]
		subtotal := decimal.Zero
		for _, entry := range entries {
			subtotal = subtotal.Add(entry.Price)
		}
		lines = append(lines, Line{
			ID:        item.ID,
			Title:     item.Title,
			Image:     item.Image(),
			UnitPrice: item.Price,
			Quantity:  len(entries),
			Subtotal:  subtotal,
			Items:     entries,
		})
	}
	return lines
}

// Items returns a copy of the entries in cart order.
func (c Cart) Items() []Item {
	return cloneItems(c.items)
}

// IDs returns the entry IDs in cart order.
func (c Cart) IDs() []string {
	ids := make([]string, len(c.items))
	for i, item := range c.items {
		ids[i] = item.ID
	}
	return ids
}

func (c Cart) Len() int {
	return len(c.items)
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item.clone()
	}
	return out
}
