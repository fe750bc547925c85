//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"fmt"
	"testing"

	"github.com/dzonerzy/snapconf/internal/fuzzy"
	"github.com/dzonerzy/snapconf/snap"
)

// Category: fuzzy suggestions over specification names

func suggestionSpec(options int) *snap.CommandSpecification {
	spec := snap.NewCommandSpecification()
	for i := 0; i < options; i++ {
		_ = spec.AddNamedOption(fmt.Sprintf("option-%03d", i), snap.SingleValue())
	}
	_ = spec.AddNamedOption("verbose", snap.Toggle())
	_ = spec.AddPositionalOption(1, "command", snap.SingleValue())
	for _, value := range []string{"build", "deploy", "serve", "test", "migrate", "backup"} {
		spec.AddCommand("command", value)
	}
	return spec
}

func BenchmarkSuggestFlag(b *testing.B) {
	for _, size := range []int{8, 64, 256} {
		names := suggestionSpec(size).NamedOptionNames()
		b.Run(fmt.Sprintf("options=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if fuzzy.FindBestFlag("verbos", names, 2) != "verbose" {
					b.Fatal("no suggestion")
				}
			}
		})
	}
}

func BenchmarkSuggestCommand(b *testing.B) {
	values := suggestionSpec(0).CommandValues()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if fuzzy.FindBestCommand("biuld", values, 2) != "build" {
			b.Fatal("no suggestion")
		}
	}
}

func BenchmarkMatcher_NoMatch(b *testing.B) {
	names := suggestionSpec(64).NamedOptionNames()
	matcher := fuzzy.NewMatcher(2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if len(matcher.FindMatches("completely-unrelated-input", names)) != 0 {
			b.Fatal("unexpected match")
		}
	}
}
