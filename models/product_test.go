package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantKey(t *testing.T) {
	assert.Equal(t, "Red:M", VariantKey("Red", "M"))
	assert.Equal(t, ":XL", VariantKey("", "XL"))
}

func TestResolveVariant(t *testing.T) {
	product := Product{
		Name:  "Ankara Shirt",
		Price: 5000,
		Stock: 20,
		SKU:   "ANK-BASE",
		Image: "base.jpg",
		Variants: map[string]Variant{
			VariantKey("Red", "M"): {
				Color: "Red", Size: "M", Price: 5500, Stock: 3, SKU: "ANK-RED-M",
			},
			VariantKey("Blue", "L"): {
				Color: "Blue", Size: "L", Price: 5200, Stock: 0,
			},
		},
	}

	t.Run("no selection resolves to base fields", func(t *testing.T) {
		v, ok := product.ResolveVariant("", "")
		require.True(t, ok)
		assert.Equal(t, 5000.0, v.Price)
		assert.Equal(t, 20, v.Stock)
		assert.Equal(t, "ANK-BASE", v.SKU)
		assert.Empty(t, v.Key)
	})

	t.Run("matching variant wins over base", func(t *testing.T) {
		v, ok := product.ResolveVariant("Red", "M")
		require.True(t, ok)
		assert.Equal(t, 5500.0, v.Price)
		assert.Equal(t, 3, v.Stock)
		assert.Equal(t, "ANK-RED-M", v.SKU)
		assert.Equal(t, "Red:M", v.Key)
	})

	t.Run("variant without sku inherits the product sku and image", func(t *testing.T) {
		v, ok := product.ResolveVariant("Blue", "L")
		require.True(t, ok)
		assert.Equal(t, "ANK-BASE", v.SKU)
		assert.Equal(t, "base.jpg", v.Image)
	})

	t.Run("missing matrix entry is reported", func(t *testing.T) {
		v, ok := product.ResolveVariant("Green", "XL")
		assert.False(t, ok)
		assert.Equal(t, "Green:XL", v.Key, "key must name the requested variant for the error message")
	})

	t.Run("selection on a variant-less product falls back to base", func(t *testing.T) {
		plain := Product{Price: 1000, Stock: 7}
		v, ok := plain.ResolveVariant("Red", "M")
		require.True(t, ok)
		assert.Equal(t, 1000.0, v.Price)
		assert.Equal(t, 7, v.Stock)
	})
}

func TestValidVariantAttr(t *testing.T) {
	assert.True(t, ValidVariantAttr("Red"))
	assert.True(t, ValidVariantAttr("XL"))
	assert.True(t, ValidVariantAttr(""))

	// These would corrupt the variants.<key>.stock field path or the key format.
	assert.False(t, ValidVariantAttr("7.5"))
	assert.False(t, ValidVariantAttr("Red:Dark"))
	assert.False(t, ValidVariantAttr("$set"))
}
