package avltree

const needBalanceHeight = 2

type Item interface {
	// Subtraction orders items: negative when the receiver sorts before
	// other, positive when after, zero when equal.
	Subtraction(other Item) int
	Key() interface{}
	Value() interface{}
}

type node struct {
	item   Item
	height int
	left   *node
	right  *node
}

func (n *node) add(item Item) *node {
	if item.Subtraction(n.item) <= 0 {
		if n.left == nil {
			n.left = &node{item: item}
		} else {
			n.left = n.left.add(item)
		}
	} else {
		if n.right == nil {
			n.right = &node{item: item}
		} else {
			n.right = n.right.add(item)
		}
	}
	return n.rebalance()
}

func (n *node) remove(item Item) (*node, bool) {
	if n == nil {
		return nil, false
	}
	var removed bool
	switch diff := item.Subtraction(n.item); {
	case diff == 0:
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		// replace with the in order predecessor, then remove it from
		// the left subtree
		child := n.left
		for child.right != nil {
			child = child.right
		}
		n.item = child.item
		n.left, _ = n.left.remove(child.item)
		removed = true
	case diff < 0:
		n.left, removed = n.left.remove(item)
	default:
		n.right, removed = n.right.remove(item)
	}
	return n.rebalance(), removed
}

func (n *node) appendItems(items []Item) []Item {
	if n.left != nil {
		items = n.left.appendItems(items)
	}
	items = append(items, n.item)
	if n.right != nil {
		items = n.right.appendItems(items)
	}
	return items
}

func (n *node) appendFiltered(items []Item, fn FilterFn) []Item {
	if n.left != nil {
		items = n.left.appendFiltered(items, fn)
	}
	if fn(n.item) {
		items = append(items, n.item)
	}
	if n.right != nil {
		items = n.right.appendFiltered(items, fn)
	}
	return items
}

func (n *node) rebalance() *node {
	n.computeHeight()
	switch n.heightDiff() {
	case needBalanceHeight:
		if n.left.heightDiff() < 0 {
			n.left = n.left.rotateLeft()
		}
		return n.rotateRight()
	case -needBalanceHeight:
		if n.right.heightDiff() > 0 {
			n.right = n.right.rotateRight()
		}
		return n.rotateLeft()
	default:
		return n
	}
}

func (n *node) rotateRight() *node {
	root := n.left
	n.left = root.right
	root.right = n
	n.computeHeight()
	root.computeHeight()
	return root
}

func (n *node) rotateLeft() *node {
	root := n.right
	n.right = root.left
	root.left = n
	n.computeHeight()
	root.computeHeight()
	return root
}

func (n *node) computeHeight() {
	height := -1
	if n.left != nil && n.left.height > height {
		height = n.left.height
	}
	if n.right != nil && n.right.height > height {
		height = n.right.height
	}
	n.height = height + 1
}

func (n *node) heightDiff() int {
	left, right := -1, -1
	if n.left != nil {
		left = n.left.height
	}
	if n.right != nil {
		right = n.right.height
	}
	return left - right
}
