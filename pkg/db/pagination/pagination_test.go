package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: "2026-08-25T10:00:00Z", ID: "1954321098765432832"}

	encoded, err := EncodeCursor(in)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	out, err := DecodeCursor(encoded)
	require.NoError(t, err)
	require.Equal(t, in, *out)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not base64!!!")
	require.Error(t, err)

	// valid base64, invalid payload
	_, err = DecodeCursor("bm90LWpzb24=")
	require.Error(t, err)
}

func TestBuildCursorPageInfo(t *testing.T) {
	type row struct{ ID string }

	rows := []*row{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	info := BuildCursorPageInfo(rows, 2, func(r *row) string { return r.ID })
	require.True(t, info.HasMore)
	require.Equal(t, "b", info.NextCursor)

	info = BuildCursorPageInfo(rows[:2], 2, func(r *row) string { return r.ID })
	require.False(t, info.HasMore)
	require.Equal(t, "b", info.NextCursor)

	info = BuildCursorPageInfo(nil, 2, func(r *row) string { return r.ID })
	require.False(t, info.HasMore)
	require.Empty(t, info.NextCursor)
}
