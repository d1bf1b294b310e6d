// SPDX-License-Identifier: MIT

package store_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/katalvlaran/deconv/store"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"a/b.txt", "a/b.txt", true},
		{"a//b/./c", "a/b/c", true},
		{"", "", false},
		{"  ", "", false},
		{"/etc/passwd", "", false},
		{"a/../../x", "", false},
		{"..", "", false},
		{"a..b", "a..b", true},
	}
	for _, tc := range tests {
		got, err := store.SanitizeKey(tc.key)
		if !tc.ok {
			require.ErrorIs(t, err, store.ErrInvalidKey, tc.key)
			continue
		}
		require.NoError(t, err, tc.key)
		require.Equal(t, tc.want, got)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := store.NewMemory()
	require.Equal(t, store.DriverMemory, m.Driver())

	ok, err := m.Exists(ctx, "dir/a")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = m.Get(ctx, "dir/a")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, m.Put(ctx, "dir/a", strings.NewReader("one")))
	require.NoError(t, m.Put(ctx, "dir/a", strings.NewReader("two")))
	require.NoError(t, m.Put(ctx, "other/b", strings.NewReader("x")))

	rc, err := m.Get(ctx, "dir/a")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "two", string(b))

	keys, err := m.List(ctx, "dir/")
	require.NoError(t, err)
	require.Equal(t, []string{"dir/a"}, keys)

	gone, err := m.Delete(ctx, "dir/a")
	require.NoError(t, err)
	require.True(t, gone)
	gone, err = m.Delete(ctx, "dir/a")
	require.NoError(t, err)
	require.False(t, gone)

	require.ErrorIs(t, m.Put(ctx, "../x", strings.NewReader("")), store.ErrInvalidKey)
}
