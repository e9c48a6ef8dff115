package keeper

import (
	"sync"

	"github.com/google/btree"
)

// deadline is one phase boundary for one pool.
type deadline struct {
	At     int64
	PoolID string
}

func deadlineLess(a, b deadline) bool {
	if a.At != b.At {
		return a.At < b.At
	}
	return a.PoolID < b.PoolID
}

// deadlineIndex is an in-memory B-tree of upcoming phase boundaries. It
// lets the end blocker find pools whose clock has lapsed without scanning
// the whole store. Purely an acceleration structure: lazy transitions
// remain correct without it, and it is rebuilt from the store after a
// restart.
type deadlineIndex struct {
	mu   sync.Mutex
	tree *btree.BTreeG[deadline]

	rebuilt bool
}

func newDeadlineIndex() *deadlineIndex {
	return &deadlineIndex{
		tree: btree.NewG[deadline](16, deadlineLess),
	}
}

func (di *deadlineIndex) add(at int64, poolID string) {
	di.mu.Lock()
	defer di.mu.Unlock()
	di.tree.ReplaceOrInsert(deadline{At: at, PoolID: poolID})
}

// popDue removes and returns every deadline at or before now.
func (di *deadlineIndex) popDue(now int64) []deadline {
	di.mu.Lock()
	defer di.mu.Unlock()

	var due []deadline
	di.tree.Ascend(func(d deadline) bool {
		if d.At > now {
			return false
		}
		due = append(due, d)
		return true
	})
	for _, d := range due {
		di.tree.Delete(d)
	}
	return due
}

func (di *deadlineIndex) needsRebuild() bool {
	di.mu.Lock()
	defer di.mu.Unlock()
	if di.rebuilt {
		return false
	}
	di.rebuilt = true
	return true
}
