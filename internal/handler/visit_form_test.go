package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleItems(t *testing.T) {
	t.Run("blank names are skipped", func(t *testing.T) {
		items := assembleItems(
			[]string{"Oil Filter", "", "  "},
			[]string{"OF-789", "X", "Y"},
			[]string{"1", "2", "3"},
			[]string{"1200", "999", "50"},
			[]string{"300", "10", "5"},
		)
		require.Len(t, items, 1)
		assert.Equal(t, "Oil Filter", items[0].ItemName)
		assert.Equal(t, "OF-789", items[0].PartNumber)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Equal(t, 1200.0, items[0].Price)
		assert.Equal(t, 300.0, items[0].Labour)
	})

	t.Run("blank numerics fall back to defaults", func(t *testing.T) {
		items := assembleItems(
			[]string{"Battery"},
			[]string{""},
			[]string{""},
			[]string{""},
			[]string{""},
		)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Zero(t, items[0].Price)
		assert.Zero(t, items[0].Labour)
	})

	t.Run("unparseable numerics fall back to defaults", func(t *testing.T) {
		items := assembleItems(
			[]string{"Alternator"},
			[]string{"ALT-888"},
			[]string{"two"},
			[]string{"cheap"},
			[]string{"n/a"},
		)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Zero(t, items[0].Price)
		assert.Zero(t, items[0].Labour)
	})

	t.Run("quantity below one is raised to one", func(t *testing.T) {
		items := assembleItems([]string{"Bolt"}, nil, []string{"0"}, nil, nil)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Quantity)
	})

	t.Run("shorter parallel lists do not panic", func(t *testing.T) {
		items := assembleItems(
			[]string{"Air Filter", "Spark Plug"},
			[]string{"AF-321"},
			[]string{"1"},
			[]string{"1500"},
			nil,
		)
		require.Len(t, items, 2)
		assert.Equal(t, "Spark Plug", items[1].ItemName)
		assert.Equal(t, "", items[1].PartNumber)
		assert.Equal(t, 1, items[1].Quantity)
		assert.Zero(t, items[1].Price)
	})

	t.Run("all blank yields no items", func(t *testing.T) {
		assert.Empty(t, assembleItems([]string{"", ""}, nil, nil, nil, nil))
	})
}
