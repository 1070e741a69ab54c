package cache

import (
	"bytes"
	"log/slog"
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntCache(t *testing.T, capacity int) *Cache[int, string] {
	t.Helper()
	c, err := NewInt[string](Config[int, string]{Capacity: capacity})
	require.NoError(t, err)
	return c
}

func TestLRUEviction(t *testing.T) {
	c, err := NewString[[]byte](Config[string, []byte]{Capacity: 2})
	require.NoError(t, err)

	c.Save("a", []byte("A"))
	c.Save("b", []byte("B"))

	// Touch a so b becomes LRU.
	_, ok := c.Get("a")
	require.True(t, ok, "expected a to exist")

	// Insert c => should evict b.
	c.Save("c", []byte("C"))

	_, ok = c.Get("b")
	assert.False(t, ok, "expected b to be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok, "expected a to remain")
	_, ok = c.Get("c")
	assert.True(t, ok, "expected c to exist")
}

func TestConcreteScenario(t *testing.T) {
	var evicted []int
	c, err := NewInt[string](Config[int, string]{
		Capacity: 2,
		OnEvict:  func(k int, _ string) { evicted = append(evicted, k) },
	})
	require.NoError(t, err)

	c.Save(1, "A")
	c.Save(2, "B")
	c.Save(3, "C")
	assert.Equal(t, []int{1}, evicted)
	assert.ElementsMatch(t, []int{2, 3}, c.Keys())

	v, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "B", v)

	c.Save(4, "D")
	assert.Equal(t, []int{1, 3}, evicted)
	assert.Equal(t, []int{2, 4}, c.Keys())
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		t.Run(strconv.Itoa(capacity), func(t *testing.T) {
			c, err := NewInt[string](Config[int, string]{Capacity: capacity})
			assert.ErrorIs(t, err, ErrInvalidCapacity)
			assert.Nil(t, c)
		})
	}
}

func TestSaveThenGetRoundTrip(t *testing.T) {
	c := newIntCache(t, 3)
	for i := 0; i < 10; i++ {
		v := "v" + strconv.Itoa(i)
		c.Save(i, v)
		got, ok := c.Get(i)
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestUpdatePromotesWithoutEviction(t *testing.T) {
	var evictions int
	c, err := NewInt[string](Config[int, string]{
		Capacity: 2,
		OnEvict:  func(int, string) { evictions++ },
	})
	require.NoError(t, err)

	c.Save(1, "a")
	c.Save(2, "b")
	c.Save(1, "a2")
	assert.Equal(t, 0, evictions, "updating a resident key never evicts")
	assert.Equal(t, []int{2, 1}, c.Keys())

	c.Save(3, "c")
	assert.Equal(t, []int{1, 3}, c.Keys(), "2 was least recently touched")
	v, _ := c.Peek(1)
	assert.Equal(t, "a2", v)
}

func TestMissIsSideEffectFree(t *testing.T) {
	c := newIntCache(t, 3)
	c.Save(1, "a")
	c.Save(2, "b")
	before := c.Keys()

	_, ok := c.Get(99)
	assert.False(t, ok)
	assert.Equal(t, before, c.Keys())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(0), c.Stats().Evictions)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestPeekAndContainsDoNotPromote(t *testing.T) {
	c := newIntCache(t, 2)
	c.Save(1, "a")
	c.Save(2, "b")

	_, ok := c.Peek(1)
	require.True(t, ok)
	assert.True(t, c.Contains(1))
	_, err := c.At(1)
	require.NoError(t, err)

	c.Save(3, "c")
	assert.False(t, c.Contains(1), "peeked key is still the oldest")

	_, err = c.At(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPromotes(t *testing.T) {
	c := newIntCache(t, 3)
	c.Save(1, "a")
	c.Save(2, "b")
	c.Save(3, "c")

	_, ok := c.Get(1)
	require.True(t, ok)
	k, _, ok := c.Oldest()
	require.True(t, ok)
	assert.Equal(t, 2, k)

	c.Save(4, "d")
	c.Save(5, "e")
	assert.Equal(t, []int{1, 4, 5}, c.Keys())
}

func TestDeleteAndClear(t *testing.T) {
	c := newIntCache(t, 2)
	c.Save(1, "a")
	c.Save(2, "b")

	assert.True(t, c.Delete(1))
	assert.False(t, c.Delete(1))
	c.Save(3, "c")
	assert.Equal(t, int64(0), c.Stats().Evictions, "delete freed a slot")

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, _, ok := c.Oldest()
	assert.False(t, ok)
	assert.Equal(t, 2, c.Cap())
}

func TestStats(t *testing.T) {
	c := newIntCache(t, 1)
	c.Save(1, "a")
	c.Get(1)
	c.Get(2)
	c.Save(2, "b")

	assert.Equal(t, Stats{Hits: 1, Misses: 1, Evictions: 1}, c.Stats())
}

func TestEvictionIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, err := NewString[int](Config[string, int]{Capacity: 1, Logger: logger})
	require.NoError(t, err)

	c.Save("old", 1)
	c.Save("new", 2)
	assert.Contains(t, buf.String(), "evicted least recently used entry")
	assert.Contains(t, buf.String(), "key=old")
}

// TestStrictLRUAgainstModel replays random saves and gets against a slice
// model of recency and checks capacity and victim choice after every call.
func TestStrictLRUAgainstModel(t *testing.T) {
	for _, capacity := range []int{1, 2, 5, 17} {
		t.Run("capacity="+strconv.Itoa(capacity), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(capacity)))
			var evicted []int
			c, err := NewInt[int](Config[int, int]{
				Capacity: capacity,
				OnEvict:  func(k, _ int) { evicted = append(evicted, k) },
			})
			require.NoError(t, err)

			model := []int{} // oldest first
			values := map[int]int{}
			touch := func(k int) {
				model = slices.DeleteFunc(model, func(x int) bool { return x == k })
				model = append(model, k)
			}

			for step := 0; step < 2000; step++ {
				k := rng.Intn(capacity * 3)
				if rng.Intn(2) == 0 {
					evicted = evicted[:0]
					_, resident := values[k]
					var victim int
					if !resident && len(model) == capacity {
						victim = model[0]
					}

					c.Save(k, step)
					values[k] = step
					touch(k)

					if !resident && len(model) > capacity {
						require.Equal(t, []int{victim}, evicted, "step %d", step)
						delete(values, victim)
						model = model[1:]
					} else {
						require.Empty(t, evicted, "step %d", step)
					}
				} else {
					v, ok := c.Get(k)
					want, resident := values[k]
					require.Equal(t, resident, ok, "step %d key %d", step, k)
					if ok {
						require.Equal(t, want, v)
						touch(k)
					}
				}

				require.LessOrEqual(t, c.Len(), capacity)
				require.Equal(t, model, c.Keys(), "step %d", step)
			}
		})
	}
}
