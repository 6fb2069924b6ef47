package gostructs

import (
	"encoding/binary"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// bitSetMem is the fixed-size bit array behind a BloomFilter.
// _size_ is the number of addressable bits; the underlying set from
// https://github.com/bits-and-blooms/bitset never grows past it because every
// index written is reduced modulo _size_ by the filter.
type bitSetMem struct {
	set  *bitset.BitSet
	size uint
}

func newBitSetMem(size uint) *bitSetMem {
	return &bitSetMem{bitset.New(size), size}
}

func (b *bitSetMem) has(index uint) bool {
	return b.set.Test(index)
}

func (b *bitSetMem) insert(index uint) {
	b.set.Set(index)
}

// bitCount returns the number of set bits
func (b *bitSetMem) bitCount() uint {
	return b.set.Count()
}

// union ORs _other_ into b. Both must have the same size.
func (b *bitSetMem) union(other *bitSetMem) error {
	if b.size != other.size {
		return errors.Wrapf(ErrInvalidConfiguration, "bitset sizes %d and %d differ", b.size, other.size)
	}
	b.set.InPlaceUnion(other.set)
	return nil
}

func (b *bitSetMem) equals(other *bitSetMem) bool {
	return b.size == other.size && b.set.Equal(other.set)
}

// marshalJSON returns the json marshalling of the bitset
func (b *bitSetMem) marshalJSON() ([]byte, error) {
	return b.set.MarshalJSON()
}

// unmarshalJSON replaces the content of the bitset with _data_
func (b *bitSetMem) unmarshalJSON(data []byte) error {
	set := &bitset.BitSet{}
	if err := set.UnmarshalJSON(data); err != nil {
		return errors.Wrap(err, "error decoding bitset")
	}
	b.set = set
	b.size = set.Len()
	return nil
}

// writeTo writes the size followed by the bitset words to _stream_ and returns
// the number of bytes written
func (b *bitSetMem) writeTo(stream io.Writer) (int64, error) {
	if err := binary.Write(stream, binary.BigEndian, uint64(b.size)); err != nil {
		return 0, errors.WithStack(err)
	}
	numBytes, err := b.set.WriteTo(stream)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return numBytes + int64(binary.Size(uint64(0))), nil
}

// readFrom is the inverse of writeTo
func (b *bitSetMem) readFrom(stream io.Reader) (int64, error) {
	var size uint64
	if err := binary.Read(stream, binary.BigEndian, &size); err != nil {
		return 0, errors.WithStack(err)
	}
	set := &bitset.BitSet{}
	numBytes, err := set.ReadFrom(stream)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	b.size = uint(size)
	b.set = set
	return numBytes + int64(binary.Size(uint64(0))), nil
}
