package hashtable

import "github.com/cespare/xxhash/v2"

// HashString hashes s with xxHash64.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashUint64 scrambles x with the SplitMix64 finaliser so that consecutive
// integers spread across buckets.
func HashUint64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// HashInt hashes a machine int.
func HashInt(x int) uint64 {
	return HashUint64(uint64(x))
}

// Equal is the Equaler for comparable keys.
func Equal[K comparable](a, b K) bool {
	return a == b
}
