package gift

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for category, gifts := range Catalog {
		for _, g := range gifts {
			require.False(t, seen[g.ID], "duplicate gift id %s", g.ID)
			seen[g.ID] = true
			require.Equal(t, category, g.Category, "gift %s", g.ID)
			require.Positive(t, g.Price, "gift %s", g.ID)
		}
	}
}

func TestByID(t *testing.T) {
	g, ok := ByID("rose")
	require.True(t, ok)
	require.Equal(t, int64(10), g.Price)

	g, ok = ByID("eternal_love")
	require.True(t, ok)
	require.Equal(t, int64(100_000), g.Price)
	require.True(t, g.Exclusive)

	_, ok = ByID("platinum_rose")
	require.False(t, ok)
}

func TestSignatureGiftsAreExclusive(t *testing.T) {
	for _, g := range Catalog["signature"] {
		require.True(t, g.Exclusive, "gift %s", g.ID)
	}
}
