package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	require.Equal(t, StatusAvailable, DeriveStatus(1))
	require.Equal(t, StatusUnavailable, DeriveStatus(0))
	require.Equal(t, StatusUnavailable, DeriveStatus(-1))
}

func TestBookProject(t *testing.T) {
	// the persisted status is overridden by the quantity projection
	b := Book{Status: StatusBorrowed, Quantity: 3}
	b.Project()
	require.Equal(t, StatusAvailable, b.Status)

	b = Book{Status: StatusBorrowed, Quantity: 0}
	b.Project()
	require.Equal(t, StatusUnavailable, b.Status)
}

func TestStringListScan(t *testing.T) {
	var s StringList
	require.NoError(t, s.Scan([]byte(`["fantasy","sci-fi"]`)))
	require.Equal(t, StringList{"fantasy", "sci-fi"}, s)

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	require.Equal(t, "[]", v)
}

func TestJSONMapScan(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan(`{"twitter":"@x"}`))
	require.Equal(t, JSONMap{"twitter": "@x"}, m)

	require.Error(t, m.Scan(42))
}
