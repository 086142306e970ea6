//go:build property

package fingerprint

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestFingerprintProperties validates the purity and discrimination
// guarantees of key derivation across randomized inputs.
func TestFingerprintProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234) // For reproducible results
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("CSS keys are pure", prop.ForAll(
		func(identifier string, minified bool) bool {
			return CSSKey(identifier, minified) == CSSKey(identifier, minified)
		},
		gen.AnyString(),
		gen.Bool(),
	))

	properties.Property("minify flag always discriminates", prop.ForAll(
		func(identifier string) bool {
			return CSSKey(identifier, true) != CSSKey(identifier, false)
		},
		gen.AnyString(),
	))

	properties.Property("distinct identifiers yield distinct keys", prop.ForAll(
		func(a, b string) bool {
			if a == b {
				return true
			}
			return CSSKey(a, true) != CSSKey(b, true)
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("sprite key ignores registration order", prop.ForAll(
		func(ids []string) bool {
			if len(ids) < 2 {
				return true
			}
			reversed := make([]string, len(ids))
			for i, id := range ids {
				reversed[len(ids)-1-i] = id
			}
			return SpriteKey(ids) == SpriteKey(reversed)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("critical keys separate viewports", prop.ForAll(
		func(pageID int) bool {
			return CriticalCSSKey(pageID, ViewportMobile) != CriticalCSSKey(pageID, ViewportDesktop)
		},
		gen.IntRange(0, 1<<30),
	))

	properties.TestingRun(t)
}
