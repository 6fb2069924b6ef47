package gostructs

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/kwertop/gostructs/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBloomFilterInvalidConfiguration(t *testing.T) {
	_, err := NewBloomFilter(0, 4, StringEncoder)
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewBloomFilter(100, 0, StringEncoder)
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewBloomFilter[string](100, 4, nil)
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewBloomFilterWithParameters(0, 0.01, StringEncoder)
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	for _, rate := range []float64{0, 1, -0.5, 2} {
		_, err = NewBloomFilterWithParameters(100, rate, StringEncoder)
		require.ErrorIs(t, err, ErrInvalidConfiguration, "error rate %v", rate)
	}
}

func TestBloomFilterParameters(t *testing.T) {
	filter, err := NewBloomFilterWithParameters(1000, 0.01, StringEncoder)
	require.NoError(t, err)
	assert.Equal(t, util.CalculateFilterSize(1000, 0.01), filter.Cap())
	assert.Equal(t, uint(9586), filter.Cap())
	assert.Equal(t, uint(7), filter.NumHashes())
	assert.Zero(t, filter.BitCount())
	assert.Zero(t, filter.FalsePositiveRate())
}

func TestBloomFilterStrings(t *testing.T) {
	filter, err := NewBloomFilter(1000, 4, StringEncoder, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	filter.Add("John")
	assert.True(t, filter.Contains("John"))
	assert.False(t, filter.Contains("Jane"))

	filter.Add("Alice")
	assert.True(t, filter.Contains("Alice"))
	assert.False(t, filter.Contains("Bob"))
	assert.True(t, filter.Contains("John"))
}

func TestBloomFilterUint64(t *testing.T) {
	filter, err := NewBloomFilter(1000, 4, Uint64Encoder)
	require.NoError(t, err)
	filter.Add(100)
	filter.Add(102)
	assert.True(t, filter.Contains(100))
	assert.False(t, filter.Contains(101))
	assert.True(t, filter.Contains(102))
}

func TestBloomFilterNoFalseNegatives(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	filter, err := NewBloomFilter(2048, 3, BytesEncoder)
	require.NoError(t, err)

	items := make([][]byte, 0, 5000)
	for i := 0; i < 5000; i++ {
		item := make([]byte, 1+rnd.Intn(32))
		rnd.Read(item)
		items = append(items, item)
		filter.Add(item)
	}
	// the filter is heavily overloaded, which must never cost a true member
	for _, item := range items {
		require.True(t, filter.Contains(item), "%v should be in filter", item)
	}
}

func TestBloomFilterFalsePositiveRate(t *testing.T) {
	const nItems = 10000
	filter, err := NewBloomFilterWithParameters(nItems, DefaultFalsePositiveRate, Uint64Encoder)
	require.NoError(t, err)
	for i := uint64(0); i < nItems; i++ {
		filter.Add(i)
	}

	estimated := filter.FalsePositiveRate()
	assert.InDelta(t, DefaultFalsePositiveRate, estimated, 0.005)
	assert.InEpsilon(t, nItems, filter.ApproximateCount(), 0.05)

	falsePositives := 0
	for i := uint64(nItems); i < 2*nItems; i++ {
		if filter.Contains(i) {
			falsePositives++
		}
	}
	observed := float64(falsePositives) / nItems
	assert.InDelta(t, estimated, observed, 0.005, "observed %v, estimated %v", observed, estimated)
}

func TestBloomFilterSaturated(t *testing.T) {
	filter, err := NewBloomFilter(8, 2, Uint64Encoder)
	require.NoError(t, err)
	for i := uint64(0); i < 1000; i++ {
		filter.Add(i)
	}
	assert.Equal(t, uint(8), filter.BitCount())
	assert.Equal(t, 1.0, filter.FalsePositiveRate())
	assert.Equal(t, uint(math.MaxUint), filter.ApproximateCount())
}

func TestBloomFilterApproximateCountBeyondCap(t *testing.T) {
	// with k=1 the filter keeps free bits long after m items went in
	filter, err := NewBloomFilter(1000, 1, Uint64Encoder)
	require.NoError(t, err)
	for i := uint64(0); i < 5000; i++ {
		filter.Add(i)
	}
	require.Less(t, filter.BitCount(), filter.Cap())

	count := filter.ApproximateCount()
	assert.Greater(t, count, filter.Cap())
	assert.InEpsilon(t, 5000, count, 0.15)
	assert.Less(t, filter.FalsePositiveRate(), 1.0)
}

func TestBloomFilterMerge(t *testing.T) {
	a, _ := NewBloomFilter(1000, 4, StringEncoder)
	b, _ := NewBloomFilter(1000, 4, StringEncoder)
	a.Add("foo")
	b.Add("bar")
	require.NoError(t, a.Merge(b))
	assert.True(t, a.Contains("foo"))
	assert.True(t, a.Contains("bar"))
	assert.False(t, b.Contains("foo"))

	c, _ := NewBloomFilter(1000, 5, StringEncoder)
	assert.ErrorIs(t, a.Merge(c), ErrInvalidConfiguration)
	assert.ErrorIs(t, a.Merge(nil), ErrInvalidConfiguration)
	d, _ := NewBloomFilter(999, 4, StringEncoder)
	assert.ErrorIs(t, a.Merge(d), ErrInvalidConfiguration)
}

func TestBloomFilterEquals(t *testing.T) {
	a, _ := NewBloomFilter(1000, 4, StringEncoder)
	b, _ := NewBloomFilter(1000, 4, StringEncoder)
	assert.True(t, a.Equals(b))
	a.Add("foo")
	assert.False(t, a.Equals(b))
	b.Add("foo")
	assert.True(t, a.Equals(b))
	c, _ := NewBloomFilter(1000, 3, StringEncoder)
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
}

func TestBloomFilterExportImport(t *testing.T) {
	filter, _ := NewBloomFilter(1000, 4, StringEncoder)
	for i := 0; i < 100; i++ {
		filter.Add(strconv.Itoa(i))
	}
	data, err := filter.Export()
	require.NoError(t, err)

	imported, _ := NewBloomFilter(1, 1, StringEncoder)
	require.NoError(t, imported.Import(data))
	assert.Equal(t, uint(1000), imported.Cap())
	assert.Equal(t, uint(4), imported.NumHashes())
	assert.True(t, filter.Equals(imported))
	for i := 0; i < 100; i++ {
		assert.True(t, imported.Contains(strconv.Itoa(i)))
	}

	assert.Error(t, imported.Import([]byte("{")))
	assert.ErrorIs(t, imported.Import([]byte(`{"m":0,"k":1,"b":null}`)), ErrInvalidConfiguration)

	// a header claiming more bits than the bitset carries
	other, _ := NewBloomFilter(64, 2, StringEncoder)
	data, err = other.Export()
	require.NoError(t, err)
	mismatched := bytes.Replace(data, []byte(`"m":64`), []byte(`"m":128`), 1)
	require.NotEqual(t, data, mismatched)
	assert.ErrorIs(t, imported.Import(mismatched), ErrInvalidConfiguration)
	assert.True(t, filter.Equals(imported), "failed import must leave the filter unchanged")
}

func TestBloomFilterStream(t *testing.T) {
	filter, _ := NewBloomFilterWithParameters(1000, 0.001, StringEncoder)
	for i := 0; i < 500; i++ {
		filter.Add(strconv.Itoa(i))
	}
	var buf bytes.Buffer
	written, err := filter.WriteTo(&buf)
	require.NoError(t, err)
	assert.Positive(t, written)

	read, _ := NewBloomFilter(1, 1, StringEncoder)
	numBytes, err := read.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Positive(t, numBytes)
	assert.Zero(t, buf.Len())
	assert.True(t, filter.Equals(read))
	for i := 0; i < 500; i++ {
		assert.True(t, read.Contains(strconv.Itoa(i)))
	}
}

func TestBloomFilterReadFromInvalid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint64(0)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint64(3)))
	filter, _ := NewBloomFilter(1, 1, StringEncoder)
	_, err := filter.ReadFrom(&buf)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = filter.ReadFrom(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)

	// header says 128 bits, the bitset that follows holds 64
	source, _ := NewBloomFilter(64, 2, StringEncoder)
	var bits bytes.Buffer
	_, err = source.filter.writeTo(&bits)
	require.NoError(t, err)
	var stream bytes.Buffer
	require.NoError(t, binary.Write(&stream, binary.BigEndian, uint64(128)))
	require.NoError(t, binary.Write(&stream, binary.BigEndian, uint64(2)))
	stream.Write(bits.Bytes())
	_, err = filter.ReadFrom(&stream)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, uint(1), filter.Cap())
}
