package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
)

func TestCursorRoundTrip(t *testing.T) {
	ids := []string{
		"6fa0c8f9-92a0-4f4b-9e2b-6dfb1ef2f3a0",
		"a",
		"id with spaces and +/=",
	}
	for _, id := range ids {
		got, err := decodeCursor(encodeCursor(id))
		require.NoError(t, err)
		require.Equal(t, id, got)
	}
}

func TestDecodeCursor(t *testing.T) {
	t.Run("empty cursor means first page", func(t *testing.T) {
		got, err := decodeCursor("")
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := decodeCursor("%%%not base64%%%")
		require.ErrorIs(t, err, errs.ErrBadCursor)
	})
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: -1, want: defaultLimit},
		{in: 0, want: defaultLimit},
		{in: 1, want: 1},
		{in: maxLimit, want: maxLimit},
		{in: maxLimit + 1, want: maxLimit},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, clampLimit(tt.in))
	}
}
