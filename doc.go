/*
Package gostructs provides in-memory implementations of four data structures
with non-trivial invariants.

 1. DisjointSetForest: a Union-Find forest over the elements [0, n) with union by
    rank and path compression. Refer: https://dl.acm.org/doi/10.1145/62.2160
 2. LRUCache: a fixed-capacity key-value store evicting the least recently used
    entry, backed by a map and an index-linked node arena.
 3. BloomFilter: an approximate membership set over a fixed bit array, with no
    false negatives. Refer: https://web.stanford.edu/~balaji/papers/bloom.pdf
 4. SegmentTree: range aggregate queries and point/range assignment over a
    fixed-length sequence, for any associative operator with an identity.

None of the structures synchronise access; callers sharing one across
goroutines must guard it with their own lock.
*/
package gostructs
