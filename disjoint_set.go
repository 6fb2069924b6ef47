package gostructs

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DisjointSetForest partitions the elements [0, n) into disjoint sets, with
// union by rank and path compression. Find, Union and Connected run in
// O(α(n)) amortized time.
// _parent_ points every element at its parent; roots point at themselves
// _rank_ bounds the height of the tree under a root; it is only read for roots
// _size_ is the number of elements under a root
// _count_ is the number of disjoint sets
//
// A DisjointSetForest is not safe for concurrent use.
type DisjointSetForest struct {
	parent []int
	rank   []int
	size   []int
	count  int
	logger *zap.Logger
}

// NewDisjointSetForest creates _n_ singleton sets {0}, {1}, ..., {n-1}
func NewDisjointSetForest(n int, opts ...Option) (*DisjointSetForest, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "negative element count %d", n)
	}
	o := applyOptions(opts)
	parent := make([]int, n)
	size := make([]int, n)
	for i := range parent {
		parent[i] = i
		size[i] = 1
	}
	o.logger.Debug("disjoint set forest created", zap.Int("elements", n))
	return &DisjointSetForest{
		parent: parent,
		rank:   make([]int, n),
		size:   size,
		count:  n,
		logger: o.logger,
	}, nil
}

func (f *DisjointSetForest) checkElement(x int) error {
	if x < 0 || x >= len(f.parent) {
		return errors.Wrapf(ErrInvalidElement, "element %d outside [0, %d)", x, len(f.parent))
	}
	return nil
}

// Find returns the root of the set containing _x_. Every element on the path
// from _x_ is re-pointed directly at the root.
func (f *DisjointSetForest) Find(x int) (int, error) {
	if err := f.checkElement(x); err != nil {
		return 0, err
	}
	return f.find(x), nil
}

func (f *DisjointSetForest) find(x int) int {
	root := x
	for f.parent[root] != root {
		root = f.parent[root]
	}
	for x != root {
		x, f.parent[x] = f.parent[x], root
	}
	return root
}

// Union merges the sets containing _x_ and _y_ and reports whether they were
// disjoint before the call.
func (f *DisjointSetForest) Union(x, y int) (bool, error) {
	if err := f.checkElement(x); err != nil {
		return false, err
	}
	if err := f.checkElement(y); err != nil {
		return false, err
	}
	rootX, rootY := f.find(x), f.find(y)
	if rootX == rootY {
		return false, nil
	}
	if f.rank[rootX] < f.rank[rootY] {
		rootX, rootY = rootY, rootX
	}
	// rootX now has the higher (or equal) rank and becomes the new root
	f.parent[rootY] = rootX
	f.size[rootX] += f.size[rootY]
	if f.rank[rootX] == f.rank[rootY] {
		f.rank[rootX]++
	}
	f.count--
	f.logger.Debug("disjoint sets merged",
		zap.Int("root", rootX),
		zap.Int("size", f.size[rootX]),
		zap.Int("count", f.count))
	return true, nil
}

// Connected reports whether _x_ and _y_ belong to the same set
func (f *DisjointSetForest) Connected(x, y int) (bool, error) {
	rootX, err := f.Find(x)
	if err != nil {
		return false, err
	}
	rootY, err := f.Find(y)
	if err != nil {
		return false, err
	}
	return rootX == rootY, nil
}

// SetSize returns the number of elements in the set containing _x_
func (f *DisjointSetForest) SetSize(x int) (int, error) {
	root, err := f.Find(x)
	if err != nil {
		return 0, err
	}
	return f.size[root], nil
}

// Count returns the number of disjoint sets
func (f *DisjointSetForest) Count() int {
	return f.count
}

// Len returns the number of elements in the forest
func (f *DisjointSetForest) Len() int {
	return len(f.parent)
}
