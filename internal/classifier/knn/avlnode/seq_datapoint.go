package avlnode

import (
	"time"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/pkg/container/avltree"
)

// SeqNode orders stored points by creation time and, for equal times, by the
// sequence they arrived in. Two nodes are equal only when both parts match.
type SeqNode struct {
	K   time.Time
	Seq uint64
	V   classifier.DataPoint
}

func (i SeqNode) Key() interface{} {
	return i.K
}

func (i SeqNode) Value() interface{} {
	return i.V
}

func (i SeqNode) Subtraction(item avltree.Item) int {
	other := item.(SeqNode)
	if i.K.Equal(other.K) {
		if i.Seq == other.Seq {
			return 0
		}
		if i.Seq < other.Seq {
			return -1
		}
		return 1
	}

	if i.K.Before(other.K) {
		return -1
	}
	return 1
}
