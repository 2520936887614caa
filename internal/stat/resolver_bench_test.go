package stat

import (
	"fmt"
	"testing"
)

// chain registers n stats where S{i} maps from S{i-1}.
func chain(n int) *Resolver {
	r := NewResolver()
	r.RegisterSource("S0", Constant(1))
	for i := 1; i < n; i++ {
		id := ID(fmt.Sprintf("S%d", i))
		r.RegisterSource(id, NewMapSource([]ID{ID(fmt.Sprintf("S%d", i-1))}, 1))
		r.RegisterTransform(id, Additive(1))
	}
	return r
}

// BenchmarkResolve_Cached benchmarks a cache hit.
// Expected: ~50-100ns (mutex + map lookup).
func BenchmarkResolve_Cached(b *testing.B) {
	b.ReportAllocs()
	r := chain(50)
	if _, err := r.Resolve("S49", nil); err != nil {
		b.Fatalf("Resolve: %v", err)
	}

	b.ResetTimer()
	for range b.N {
		_, _ = r.Resolve("S49", nil)
	}
}

// BenchmarkResolve_Chain50_Cold benchmarks a full 50-stat chain after InvalidateAll.
func BenchmarkResolve_Chain50_Cold(b *testing.B) {
	b.ReportAllocs()
	r := chain(50)

	b.ResetTimer()
	for range b.N {
		r.InvalidateAll()
		if _, err := r.Resolve("S49", nil); err != nil {
			b.Fatalf("Resolve: %v", err)
		}
	}
}

// BenchmarkResolve_InvalidateRoot benchmarks invalidation cascading through the chain.
func BenchmarkResolve_InvalidateRoot(b *testing.B) {
	b.ReportAllocs()
	r := chain(50)

	b.ResetTimer()
	for range b.N {
		r.Invalidate("S0")
		if _, err := r.Resolve("S49", nil); err != nil {
			b.Fatalf("Resolve: %v", err)
		}
	}
}
