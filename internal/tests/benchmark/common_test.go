package benchmark

import (
	"crypto/rand"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/yndnr/memkv/internal/storage/memory"
)

// KeyCounts defines the key counts for benchmarking.
var KeyCounts = []int{1000, 10000, 100000, 500000}

// SmallKeyCounts for quick benchmarks.
var SmallKeyCounts = []int{1000, 5000, 10000}

// ShardCounts compares the single-partition store against partitioned ones.
var ShardCounts = []int{1, 4, 16, 64}

// newKey generates a unique key with a fixed prefix.
func newKey(prefix string) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, _ := ulid.New(ulid.Timestamp(time.Now()), entropy)
	return prefix + ":" + strings.ToLower(id.String())
}

// prefillStore fills a store with count keys spread over a few prefixes.
func prefillStore(store *memory.Store, count int) []string {
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		keys[i] = newKey(fmt.Sprintf("user%d", i%10))
		store.Set(keys[i], "bench-value")
	}
	return keys
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various key counts.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}

// runWithShardCounts runs a benchmark function with various partition counts.
func runWithShardCounts(b *testing.B, benchFn func(b *testing.B, shards int)) {
	for _, shards := range ShardCounts {
		b.Run(fmt.Sprintf("shards_%d", shards), func(b *testing.B) {
			benchFn(b, shards)
		})
	}
}
