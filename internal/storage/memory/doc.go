// Package memory provides the in-memory key-value store for memkv.
//
// A Store maps string keys to string values with an optional absolute expiry.
// Expiry is lazy: an entry whose deadline has passed is treated as absent and
// evicted by the next operation that touches it. An optional janitor can sweep
// expired entries periodically, but correctness never depends on it.
//
// Thread Safety:
//
// By default the whole key space is guarded by a single mutex. WithShards splits
// it into independently locked partitions chosen by a murmur3 hash of the key;
// Keys then locks every partition in index order so it still observes one
// consistent snapshot.
package memory
