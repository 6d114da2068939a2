package typesys_test

import (
	"testing"

	"github.com/sunholo/gradualtype/internal/typesys"
	"github.com/sunholo/gradualtype/testutil"
)

// TestUnionFingerprintGolden pins Fingerprint's output for a couple of
// Union shapes against a checked-in golden file, independent of member
// construction order.
func TestUnionFingerprintGolden(t *testing.T) {
	cases := []struct {
		name string
		t    typesys.Type
	}{
		{"int-str", typesys.UnionOf(typesys.Instance(typesys.IntClass), typesys.Instance(typesys.StrClass))},
		{"str-int-reordered", typesys.UnionOf(typesys.Instance(typesys.StrClass), typesys.Instance(typesys.IntClass))},
		{"optional-widget", typesys.UnionOf(typesys.Instance(typesys.NewClass("Widget", 0)), typesys.TheNone)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			testutil.CompareWithGolden(t, "fingerprint", tc.name, typesys.Fingerprint(tc.t))
		})
	}
}
