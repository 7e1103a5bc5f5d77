package models

import (
	"fmt"
	"strings"
)

// Placeholder images used when a product has no photo of its own.
const (
	PlaceholderImage     = "https://via.placeholder.com/300x200?text=Fireworks"
	PlaceholderCartImage = "https://via.placeholder.com/80?text=FW"
)

// DefaultUnit is used when the backend record has no unit of sale.
const DefaultUnit = "个"

// Product is a sellable firework with its display and popularity metadata.
// Counters are mutated optimistically on the client side; the backend copy
// is updated best-effort and may drift.
type Product struct {
	ID            string  `bson:"id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	Price         float64 `bson:"price" json:"price"`
	Unit          string  `bson:"unit,omitempty" json:"unit,omitempty"`
	ImageFilename string  `bson:"image_filename,omitempty" json:"image_filename,omitempty"`
	QRFilename    string  `bson:"qr_filename,omitempty" json:"qr_filename,omitempty"`
	ViewCount     int     `bson:"view_count" json:"view_count"`
	CartAddCount  int     `bson:"cart_add_count" json:"cart_add_count"`
}

// DisplayUnit returns the unit of sale, falling back to the default.
func (p Product) DisplayUnit() string {
	if p.Unit == "" {
		return DefaultUnit
	}
	return p.Unit
}

// ThumbnailPath returns the relative path of the grid thumbnail, derived by
// inserting a _thumb suffix before the file extension. Products without an
// image get the placeholder URL.
func (p Product) ThumbnailPath() string {
	if p.ImageFilename == "" {
		return PlaceholderImage
	}
	if i := strings.LastIndex(p.ImageFilename, "."); i >= 0 {
		return fmt.Sprintf("/image/commodity/%s_thumb.%s", p.ImageFilename[:i], p.ImageFilename[i+1:])
	}
	return "/image/commodity/" + p.ImageFilename + "_thumb"
}

// ImagePath returns the relative path of the full-size product image, or an
// empty string when the product has none.
func (p Product) ImagePath() string {
	if p.ImageFilename == "" {
		return ""
	}
	return "/image/commodity/" + p.ImageFilename
}

// QRPath returns the relative path of the product's QR code image, or an
// empty string when the product has none.
func (p Product) QRPath() string {
	if p.QRFilename == "" {
		return ""
	}
	return "/image/code/" + p.QRFilename
}
