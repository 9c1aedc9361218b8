package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueShapes(t *testing.T) {
	t.Parallel()

	single := Value{single: true, items: []string{"only"}}
	require.True(t, single.IsSingle())
	require.Equal(t, 1, single.Len())
	require.Equal(t, "only", single.String())
	require.Equal(t, "only", single.Interface())
	require.Equal(t, []string{"only"}, single.Strings())

	many := Value{items: []string{"a", "b"}}
	require.False(t, many.IsSingle())
	require.Equal(t, 2, many.Len())
	require.Equal(t, []string{"a", "b"}, many.Interface())
	require.Equal(t, `["a" "b"]`, many.String())

	empty := Value{items: []string{}}
	require.False(t, empty.IsSingle())
	require.Equal(t, 0, empty.Len())
	require.Equal(t, []string{}, empty.Interface())
}

func TestValueStringsReturnsACopy(t *testing.T) {
	t.Parallel()

	v := Value{items: []string{"a", "b"}}
	got := v.Strings()
	got[0] = "mutated"

	require.Equal(t, []string{"a", "b"}, v.Strings())
}
