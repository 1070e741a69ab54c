package hashtable

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntTable() *Table[int, string] {
	return New[int, string](HashInt, Equal[int])
}

func TestInsertFindUpdate(t *testing.T) {
	tbl := newIntTable()

	pos, inserted := tbl.Insert(1, "a")
	require.True(t, inserted)
	e, err := tbl.Entry(pos)
	require.NoError(t, err)
	assert.Equal(t, Entry[int, string]{Key: 1, Value: "a"}, e)

	pos2, inserted := tbl.Insert(1, "b")
	assert.False(t, inserted, "existing key is overwritten, not re-inserted")
	assert.Equal(t, pos, pos2, "overwrite happens in place")
	assert.Equal(t, 1, tbl.Len())

	v, ok := tbl.Get(1)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = tbl.Find(2)
	assert.False(t, ok)
}

func TestAt(t *testing.T) {
	tbl := newIntTable()
	tbl.Insert(5, "five")

	v, err := tbl.At(5)
	require.NoError(t, err)
	assert.Equal(t, "five", v)

	_, err = tbl.At(6)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	tbl := newIntTable()
	tbl.Insert(1, "a")
	tbl.Insert(2, "b")

	assert.True(t, tbl.Remove(1))
	assert.False(t, tbl.Remove(1), "second remove reports failure")
	assert.False(t, tbl.Contains(1))
	assert.True(t, tbl.Contains(2))
	assert.Equal(t, 1, tbl.Len())
}

func TestGrowthSchedule(t *testing.T) {
	tbl := newIntTable()
	assert.Equal(t, InitialBuckets, tbl.BucketCount())

	for i := 0; i < 7; i++ {
		tbl.Insert(i, "")
	}
	assert.Equal(t, 16, tbl.BucketCount(), "7/16 stays below the threshold")

	tbl.Insert(7, "")
	assert.Equal(t, 32, tbl.BucketCount(), "the 8th insert doubles first")

	tbl.Insert(7, "again")
	assert.Equal(t, 32, tbl.BucketCount(), "an overwrite never resizes")
}

func TestLoadFactorAfterEveryInsert(t *testing.T) {
	tbl := New[string, int](HashString, Equal[string])
	for i := 0; i < 2000; i++ {
		tbl.Insert("k"+strconv.Itoa(i), i)
		require.Less(t, tbl.LoadFactor(), LoadFactorThreshold, "after insert %d", i)
	}
}

func TestNeverShrinks(t *testing.T) {
	tbl := newIntTable()
	for i := 0; i < 100; i++ {
		tbl.Insert(i, "")
	}
	buckets := tbl.BucketCount()
	for i := 0; i < 100; i++ {
		tbl.Remove(i)
	}
	assert.Equal(t, buckets, tbl.BucketCount())
	assert.True(t, tbl.Empty())

	for i := 0; i < 10; i++ {
		tbl.Insert(i, "")
	}
	tbl.Clear()
	assert.Equal(t, buckets, tbl.BucketCount(), "clear keeps the bucket count")
	assert.Equal(t, 0, tbl.Len())
	for i := 0; i < 10; i++ {
		assert.False(t, tbl.Contains(i))
	}
}

func TestCollisionsChainInOneBucket(t *testing.T) {
	constant := func(int) uint64 { return 3 }
	tbl := New[int, int](constant, Equal[int])

	for i := 0; i < 50; i++ {
		tbl.Insert(i, i*i)
	}
	for i := 0; i < 50; i++ {
		v, ok := tbl.Get(i)
		require.True(t, ok)
		assert.Equal(t, i*i, v)
	}

	assert.True(t, tbl.Remove(25))
	assert.False(t, tbl.Contains(25))
	assert.Equal(t, 49, tbl.Len())
}

func TestRehashPreservesEntries(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tbl := newIntTable()
	oracle := map[int]string{}

	for step := 0; step < 5000; step++ {
		k := rng.Intn(800)
		if rng.Intn(3) == 0 {
			_, want := oracle[k]
			assert.Equal(t, want, tbl.Remove(k), "remove %d", k)
			delete(oracle, k)
			continue
		}
		v := strconv.Itoa(step)
		_, inserted := tbl.Insert(k, v)
		_, existed := oracle[k]
		assert.Equal(t, !existed, inserted, "insert %d", k)
		oracle[k] = v
	}

	require.Equal(t, len(oracle), tbl.Len())
	for k := 0; k < 800; k++ {
		want, present := oracle[k]
		got, ok := tbl.Get(k)
		assert.Equal(t, present, ok, "key %d", k)
		assert.Equal(t, want, got, "key %d", k)
	}

	seen := map[int]int{}
	for k := range tbl.All() {
		seen[k]++
	}
	assert.Len(t, seen, len(oracle))
	for k, n := range seen {
		assert.Equal(t, 1, n, "key %d appears once", k)
	}
}

func TestPosInvalidation(t *testing.T) {
	tbl := newIntTable()
	pos, _ := tbl.Insert(1, "a")

	tbl.Remove(1)
	_, err := tbl.Entry(pos)
	assert.ErrorIs(t, err, ErrInvalidHandle, "removed entry")

	pos, _ = tbl.Insert(1, "a")
	for i := 2; i < 20; i++ {
		tbl.Insert(i, "")
	}
	_, err = tbl.Entry(pos)
	assert.ErrorIs(t, err, ErrInvalidHandle, "resize re-homes entries")

	_, err = tbl.Entry(Pos{})
	assert.ErrorIs(t, err, ErrInvalidHandle, "zero position")

	other := newIntTable()
	foreign, _ := other.Insert(1, "a")
	_, err = tbl.Entry(foreign)
	assert.ErrorIs(t, err, ErrInvalidHandle, "position from another table")
}

func TestClone(t *testing.T) {
	tbl := newIntTable()
	for i := 0; i < 20; i++ {
		tbl.Insert(i, strconv.Itoa(i))
	}

	c := tbl.Clone()
	assert.Equal(t, tbl.Len(), c.Len())
	assert.Equal(t, tbl.BucketCount(), c.BucketCount())

	c.Insert(100, "x")
	c.Remove(0)
	tbl.Insert(1, "changed")

	assert.True(t, tbl.Contains(0))
	assert.False(t, tbl.Contains(100))
	v, _ := c.Get(1)
	assert.Equal(t, "1", v)
}

func TestNewPanicsOnNilCapabilities(t *testing.T) {
	assert.Panics(t, func() { New[int, int](nil, Equal[int]) })
	assert.Panics(t, func() { New[int, int](HashInt, nil) })
}

func TestHashers(t *testing.T) {
	assert.Equal(t, HashString("abc"), HashString("abc"))
	assert.NotEqual(t, HashString("abc"), HashString("abd"))
	assert.NotEqual(t, HashInt(1), HashInt(2))
	assert.True(t, Equal("x", "x"))
	assert.False(t, Equal(1, 2))
}
