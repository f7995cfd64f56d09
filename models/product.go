package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant is one priced and stocked SKU inside a product's color/size matrix.
type Variant struct {
	Color string  `bson:"color" json:"color"`
	Size  string  `bson:"size" json:"size"`
	Price float64 `bson:"price" json:"price"`
	Stock int     `bson:"stock" json:"stock"`
	SKU   string  `bson:"sku,omitempty" json:"sku,omitempty"`
	Image string  `bson:"image,omitempty" json:"image,omitempty"`
}

type Product struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name" binding:"required"`
	Description       string             `bson:"description" json:"description"`
	Price             float64            `bson:"price" json:"price" binding:"required"`
	Stock             int                `bson:"stock" json:"stock"`
	SKU               string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Image             string             `bson:"image,omitempty" json:"image,omitempty"`
	Category          string             `bson:"category,omitempty" json:"category,omitempty"`
	IsActive          bool               `bson:"isActive" json:"isActive"`
	Variants          map[string]Variant `bson:"variants,omitempty" json:"variants,omitempty"`
	LowStockThreshold int                `bson:"lowStockThreshold,omitempty" json:"lowStockThreshold,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VariantKey builds the matrix key for a color/size pair. Every read and write of
// the variant map goes through this so the composite format lives in one place.
func VariantKey(color, size string) string {
	return fmt.Sprintf("%s:%s", color, size)
}

// ValidVariantAttr reports whether a color or size value is usable inside a
// variant key. The key ends up as part of a Mongo field path, so dots and
// dollar signs are out, and colons would collide with the composite separator.
func ValidVariantAttr(s string) bool {
	return !strings.ContainsAny(s, ".:$")
}

// ResolvedVariant is the effective price/stock for a requested selection, either a
// matrix entry or the product's base fields.
type ResolvedVariant struct {
	Key   string
	Color string
	Size  string
	Price float64
	Stock int
	SKU   string
	Image string
}

// ResolveVariant picks the effective unit price, stock, SKU and image for the
// requested color/size. A non-empty selection on a product that has a variant
// matrix must match an entry; a missing entry is reported so callers can reject
// the request. Products without a matrix always resolve to their base fields.
func (p *Product) ResolveVariant(color, size string) (ResolvedVariant, bool) {
	base := ResolvedVariant{
		Price: p.Price,
		Stock: p.Stock,
		SKU:   p.SKU,
		Image: p.Image,
	}

	if color == "" && size == "" {
		return base, true
	}
	if len(p.Variants) == 0 {
		// Selection on a variant-less product falls back to base pricing.
		return base, true
	}

	key := VariantKey(color, size)
	v, ok := p.Variants[key]
	if !ok {
		return ResolvedVariant{Key: key, Color: color, Size: size}, false
	}

	resolved := ResolvedVariant{
		Key:   key,
		Color: v.Color,
		Size:  v.Size,
		Price: v.Price,
		Stock: v.Stock,
		SKU:   v.SKU,
		Image: v.Image,
	}
	if resolved.SKU == "" {
		resolved.SKU = p.SKU
	}
	if resolved.Image == "" {
		resolved.Image = p.Image
	}
	return resolved, true
}
