package gostructs

import (
	"github.com/kwertop/gostructs/internal/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Number is the set of element types the built-in aggregates support
type Number = util.Number

// Aggregate is the operator a SegmentTree folds ranges with. Combine must be
// associative and Identity must satisfy Combine(Identity, x) == x ==
// Combine(x, Identity) for every x; otherwise range results are undefined.
type Aggregate[T any] struct {
	Combine  func(a, b T) T
	Identity T
}

// SumAggregate adds values; the identity is 0
func SumAggregate[T Number]() Aggregate[T] {
	return Aggregate[T]{Combine: func(a, b T) T { return a + b }}
}

// MinAggregate keeps the smaller value; the identity is the largest T (+Inf
// for floats)
func MinAggregate[T Number]() Aggregate[T] {
	_, hi := util.Bounds[T]()
	return Aggregate[T]{
		Combine: func(a, b T) T {
			if b < a {
				return b
			}
			return a
		},
		Identity: hi,
	}
}

// MaxAggregate keeps the larger value; the identity is the smallest T (-Inf
// for floats)
func MaxAggregate[T Number]() Aggregate[T] {
	lo, _ := util.Bounds[T]()
	return Aggregate[T]{
		Combine: func(a, b T) T {
			if b > a {
				return b
			}
			return a
		},
		Identity: lo,
	}
}

// SegmentTree answers range aggregate queries over a fixed-length sequence and
// supports point and range assignment, each in O(log n) per touched leaf.
// _tree_ is a flat binary tree of 4n nodes rooted at 0; node i covers a range
// whose halves are held by 2i+1 and 2i+2, and holds the aggregate of it
// _n_ is the length of the sequence
//
// A SegmentTree is not safe for concurrent use.
type SegmentTree[T any] struct {
	tree   []T
	n      int
	agg    Aggregate[T]
	logger *zap.Logger
}

// NewSegmentTree builds a tree over a copy of _values_ folded with _agg_
func NewSegmentTree[T any](values []T, agg Aggregate[T], opts ...Option) (*SegmentTree[T], error) {
	if agg.Combine == nil {
		return nil, errors.Wrap(ErrInvalidConfiguration, "segment tree needs a combine function")
	}
	o := applyOptions(opts)
	st := &SegmentTree[T]{
		tree:   make([]T, 4*len(values)),
		n:      len(values),
		agg:    agg,
		logger: o.logger,
	}
	if st.n > 0 {
		st.build(values, 0, 0, st.n-1)
	}
	o.logger.Debug("segment tree built", zap.Int("length", st.n))
	return st, nil
}

func (st *SegmentTree[T]) build(values []T, node, start, end int) {
	if start == end {
		st.tree[node] = values[start]
		return
	}
	mid := (start + end) / 2
	st.build(values, 2*node+1, start, mid)
	st.build(values, 2*node+2, mid+1, end)
	st.pull(node)
}

// pull recomputes _node_ from its children
func (st *SegmentTree[T]) pull(node int) {
	st.tree[node] = st.agg.Combine(st.tree[2*node+1], st.tree[2*node+2])
}

// Len returns the length of the sequence
func (st *SegmentTree[T]) Len() int {
	return st.n
}

func (st *SegmentTree[T]) checkRange(left, right int) error {
	if left < 0 || right >= st.n || left > right {
		return errors.Wrapf(ErrInvalidRange, "range [%d, %d] invalid for length %d", left, right, st.n)
	}
	return nil
}

// Query folds the elements in the inclusive range [_left_, _right_]
func (st *SegmentTree[T]) Query(left, right int) (T, error) {
	if err := st.checkRange(left, right); err != nil {
		var zero T
		return zero, err
	}
	return st.query(0, 0, st.n-1, left, right), nil
}

func (st *SegmentTree[T]) query(node, start, end, left, right int) T {
	if right < start || end < left {
		return st.agg.Identity
	}
	if left <= start && end <= right {
		return st.tree[node]
	}
	mid := (start + end) / 2
	return st.agg.Combine(
		st.query(2*node+1, start, mid, left, right),
		st.query(2*node+2, mid+1, end, left, right))
}

// Get returns the element at _index_
func (st *SegmentTree[T]) Get(index int) (T, error) {
	if index < 0 || index >= st.n {
		var zero T
		return zero, errors.Wrapf(ErrIndexOutOfRange, "index %d outside [0, %d)", index, st.n)
	}
	return st.query(0, 0, st.n-1, index, index), nil
}

// Update sets the element at _index_ to _value_ and recomputes its ancestors
func (st *SegmentTree[T]) Update(index int, value T) error {
	if index < 0 || index >= st.n {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d outside [0, %d)", index, st.n)
	}
	st.assign(0, 0, st.n-1, index, index, value)
	return nil
}

// UpdateRange sets every element in the inclusive range [_left_, _right_] to
// _value_. Each affected ancestor is recomputed once, so the cost is
// O(right - left + log n).
func (st *SegmentTree[T]) UpdateRange(left, right int, value T) error {
	if err := st.checkRange(left, right); err != nil {
		return err
	}
	st.assign(0, 0, st.n-1, left, right, value)
	st.logger.Debug("segment tree range assigned", zap.Int("left", left), zap.Int("right", right))
	return nil
}

func (st *SegmentTree[T]) assign(node, start, end, left, right int, value T) {
	if right < start || end < left {
		return
	}
	if start == end {
		st.tree[node] = value
		return
	}
	mid := (start + end) / 2
	st.assign(2*node+1, start, mid, left, right, value)
	st.assign(2*node+2, mid+1, end, left, right, value)
	st.pull(node)
}

// Values returns a copy of the current sequence
func (st *SegmentTree[T]) Values() []T {
	values := make([]T, 0, st.n)
	if st.n > 0 {
		values = st.collect(values, 0, 0, st.n-1)
	}
	return values
}

func (st *SegmentTree[T]) collect(values []T, node, start, end int) []T {
	if start == end {
		return append(values, st.tree[node])
	}
	mid := (start + end) / 2
	values = st.collect(values, 2*node+1, start, mid)
	return st.collect(values, 2*node+2, mid+1, end)
}
