// Package avltree is a self balancing ordered container. The brute force
// classifier keeps its training points here keyed by observation time and
// arrival sequence, so every walk enumerates them in one stable order.
package avltree

type FilterFn func(current Item) bool

func New() *Tree {
	return &Tree{}
}

type Tree struct {
	root *node
	len  int
}

func (t *Tree) Len() int {
	return t.len
}

// Items returns every stored item in ascending order.
func (t *Tree) Items() []Item {
	if t.root == nil {
		return []Item{}
	}
	return t.root.appendItems(make([]Item, 0, t.len))
}

// Filter returns the items fn selects, in ascending order.
func (t *Tree) Filter(fn FilterFn) []Item {
	if t.root == nil {
		return []Item{}
	}
	return t.root.appendFiltered(make([]Item, 0), fn)
}

func (t *Tree) Add(item Item) {
	if t.root == nil {
		t.root = &node{item: item}
	} else {
		t.root = t.root.add(item)
	}
	t.len++
}

// Remove drops the item that compares equal to item. Removing an absent item
// leaves the tree untouched.
func (t *Tree) Remove(item Item) {
	if t.root == nil {
		return
	}
	root, removed := t.root.remove(item)
	t.root = root
	if removed {
		t.len--
	}
}
