package gostructs

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"math"

	"github.com/dgryski/go-metro"
	"github.com/kwertop/gostructs/internal/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultFalsePositiveRate is the target false positive rate used when callers
// size a filter with NewBloomFilterWithParameters and have no stronger need.
const DefaultFalsePositiveRate = 0.01

// hashSeed is the metro hash seed every filter uses, so that two filters with
// the same (m, k) place an item on the same bits and can be merged.
const hashSeed = 1373

// Encoder turns an item into the bytes the filter hashes. Two items the caller
// considers equal must encode to the same bytes.
type Encoder[T any] func(item T) []byte

// BytesEncoder hashes byte slices as they are.
func BytesEncoder(item []byte) []byte { return item }

// StringEncoder hashes the UTF-8 bytes of a string.
func StringEncoder(item string) []byte { return []byte(item) }

// Uint64Encoder hashes the big-endian representation of an integer.
func Uint64Encoder(item uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, item)
	return b
}

// BloomFilter is a fixed-size approximate membership set.
// _size_ (m) is the number of bits in the filter
// _numHashes_ (k) is the number of bit positions probed per item
// _filter_ is the bit array; bits are only ever set, never cleared
// _encode_ serialises items for hashing
//
// Each item is hashed once with a 128-bit metro hash; the two halves h1, h2
// derive the k probe positions with enhanced double hashing,
// (h1 + i·h2 + (i³-i)/6) mod m for i in [0, k).
//
// A BloomFilter is not safe for concurrent use.
type BloomFilter[T any] struct {
	size      uint
	numHashes uint
	filter    *bitSetMem
	encode    Encoder[T]
	logger    *zap.Logger
}

// NewBloomFilter creates a filter of _size_ bits probed by _numHashes_ hash
// functions. Both must be positive and _encode_ must be set.
func NewBloomFilter[T any](size, numHashes uint, encode Encoder[T], opts ...Option) (*BloomFilter[T], error) {
	if size == 0 || numHashes == 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "bloom filter needs m > 0 and k > 0, got m=%d k=%d", size, numHashes)
	}
	if encode == nil {
		return nil, errors.Wrap(ErrInvalidConfiguration, "bloom filter needs an encoder")
	}
	o := applyOptions(opts)
	o.logger.Debug("bloom filter created",
		zap.Uint("size", size),
		zap.Uint("numHashes", numHashes))
	return &BloomFilter[T]{
		size:      size,
		numHashes: numHashes,
		filter:    newBitSetMem(size),
		encode:    encode,
		logger:    o.logger,
	}, nil
}

// NewBloomFilterWithParameters creates a filter sized for _numItems_ items at
// the false positive rate _errorRate_, which must lie in (0, 1).
func NewBloomFilterWithParameters[T any](numItems uint, errorRate float64, encode Encoder[T], opts ...Option) (*BloomFilter[T], error) {
	if numItems == 0 {
		return nil, errors.Wrap(ErrInvalidConfiguration, "expected number of items must be positive")
	}
	if !(errorRate > 0 && errorRate < 1) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "error rate %v outside (0, 1)", errorRate)
	}
	size := util.CalculateFilterSize(numItems, errorRate)
	numHashes := util.CalculateNumHashes(size, numItems)
	return NewBloomFilter(size, numHashes, encode, opts...)
}

// Add sets the k bits of _item_
func (bf *BloomFilter[T]) Add(item T) {
	h1, h2 := metro.Hash128(bf.encode(item), hashSeed)
	for i := uint(0); i < bf.numHashes; i++ {
		bf.filter.insert(bf.getIndex(h1, h2, i))
	}
}

// Contains reports whether _item_ may have been added. False means the item
// was definitely never added; true may be a false positive.
func (bf *BloomFilter[T]) Contains(item T) bool {
	h1, h2 := metro.Hash128(bf.encode(item), hashSeed)
	for i := uint(0); i < bf.numHashes; i++ {
		if !bf.filter.has(bf.getIndex(h1, h2, i)) {
			return false
		}
	}
	return true
}

func (bf *BloomFilter[T]) getIndex(h1, h2 uint64, i uint) uint {
	j := uint64(i)
	return uint((h1 + j*h2 + (j*j*j-j)/6) % uint64(bf.size))
}

// Cap returns m, the number of bits in the filter
func (bf *BloomFilter[T]) Cap() uint {
	return bf.size
}

// NumHashes returns k, the number of bits probed per item
func (bf *BloomFilter[T]) NumHashes() uint {
	return bf.numHashes
}

// BitCount returns the number of bits currently set
func (bf *BloomFilter[T]) BitCount() uint {
	return bf.filter.bitCount()
}

// ApproximateCount estimates the number of distinct items added from the
// fraction of set bits. The estimate may exceed Cap() when k is small. Once
// every bit is set the count can't be bounded and math.MaxUint is returned.
func (bf *BloomFilter[T]) ApproximateCount() uint {
	n := util.EstimateCardinality(bf.size, bf.numHashes, bf.filter.bitCount())
	if n >= math.MaxUint {
		return math.MaxUint
	}
	return uint(math.Round(n))
}

// FalsePositiveRate estimates the probability that Contains returns true for
// an item never added, (1 - e^(-kn/m))^k, with n estimated from the current
// bit count. An empty filter reports 0, a saturated one 1.
func (bf *BloomFilter[T]) FalsePositiveRate() float64 {
	n := util.EstimateCardinality(bf.size, bf.numHashes, bf.filter.bitCount())
	return util.FalsePositiveRate(bf.size, bf.numHashes, n)
}

// Merge ORs the bits of _other_ into bf, so bf then reports every item added to
// either filter. Both filters must share m and k.
func (bf *BloomFilter[T]) Merge(other *BloomFilter[T]) error {
	if other == nil {
		return errors.Wrap(ErrInvalidConfiguration, "can't merge a nil filter")
	}
	if bf.size != other.size || bf.numHashes != other.numHashes {
		return errors.Wrapf(ErrInvalidConfiguration,
			"can't merge filter (m=%d, k=%d) into (m=%d, k=%d)",
			other.size, other.numHashes, bf.size, bf.numHashes)
	}
	if err := bf.filter.union(other.filter); err != nil {
		return err
	}
	bf.logger.Debug("bloom filters merged", zap.Uint("bitCount", bf.filter.bitCount()))
	return nil
}

// Equals reports whether both filters have the same parameters and bits
func (bf *BloomFilter[T]) Equals(other *BloomFilter[T]) bool {
	if other == nil {
		return false
	}
	return bf.size == other.size && bf.numHashes == other.numHashes && bf.filter.equals(other.filter)
}

// internal type used to marshal/unmarshal BloomFilter
type bloomFilterType struct {
	M uint            `json:"m"`
	K uint            `json:"k"`
	B json.RawMessage `json:"b"`
}

// Export JSON marshals the BloomFilter and returns a byte slice containing the data
func (bf *BloomFilter[T]) Export() ([]byte, error) {
	bits, err := bf.filter.marshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "error encoding bloom filter")
	}
	return json.Marshal(bloomFilterType{bf.size, bf.numHashes, bits})
}

// Import JSON unmarshals _data_ into the BloomFilter, replacing its parameters
// and bits. The encoder is kept.
func (bf *BloomFilter[T]) Import(data []byte) error {
	var f bloomFilterType
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrap(err, "error decoding bloom filter")
	}
	if f.M == 0 || f.K == 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "imported filter has m=%d k=%d", f.M, f.K)
	}
	filter := &bitSetMem{}
	if err := filter.unmarshalJSON(f.B); err != nil {
		return err
	}
	if filter.size != f.M {
		return errors.Wrapf(ErrInvalidConfiguration, "imported bitset has %d bits, expected %d", filter.size, f.M)
	}
	bf.size, bf.numHashes, bf.filter = f.M, f.K, filter
	bf.logger.Debug("bloom filter imported", zap.Uint("size", bf.size), zap.Uint("numHashes", bf.numHashes))
	return nil
}

// WriteTo writes the BloomFilter onto _stream_ and returns the number of bytes
// written.
func (bf *BloomFilter[T]) WriteTo(stream io.Writer) (int64, error) {
	if err := binary.Write(stream, binary.BigEndian, uint64(bf.size)); err != nil {
		return 0, errors.WithStack(err)
	}
	if err := binary.Write(stream, binary.BigEndian, uint64(bf.numHashes)); err != nil {
		return 0, errors.WithStack(err)
	}
	numBytes, err := bf.filter.writeTo(stream)
	return numBytes + int64(2*binary.Size(uint64(0))), err
}

// ReadFrom reads a BloomFilter written by WriteTo from _stream_ and returns the
// number of bytes read.
func (bf *BloomFilter[T]) ReadFrom(stream io.Reader) (int64, error) {
	var size, numHashes uint64
	if err := binary.Read(stream, binary.BigEndian, &size); err != nil {
		return 0, errors.WithStack(err)
	}
	if err := binary.Read(stream, binary.BigEndian, &numHashes); err != nil {
		return 0, errors.WithStack(err)
	}
	if size == 0 || numHashes == 0 {
		return 0, errors.Wrapf(ErrInvalidConfiguration, "stream holds filter with m=%d k=%d", size, numHashes)
	}
	filter := &bitSetMem{}
	numBytes, err := filter.readFrom(stream)
	if err != nil {
		return 0, err
	}
	if filter.size != uint(size) {
		return 0, errors.Wrapf(ErrInvalidConfiguration, "stream bitset has %d bits, expected %d", filter.size, size)
	}
	bf.size, bf.numHashes, bf.filter = uint(size), uint(numHashes), filter
	return numBytes + int64(2*binary.Size(uint64(0))), nil
}
