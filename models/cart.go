package models

// CartLine is one entry in the order sheet cart. Name, price, unit and image
// are copied from the product at the moment it is added and are not re-synced
// if the catalog changes afterwards.
type CartLine struct {
	ProductID     string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Unit          string  `json:"unit"`
	ImageFilename string  `json:"image_filename,omitempty"`
	Quantity      int     `json:"quantity"`
}

// NewCartLine creates a quantity-1 line from a product snapshot.
func NewCartLine(p Product) CartLine {
	return CartLine{
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Unit:          p.DisplayUnit(),
		ImageFilename: p.ImageFilename,
		Quantity:      1,
	}
}

// Subtotal returns price times quantity for this line.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// CartImagePath returns the relative path of the cart thumbnail, or the
// placeholder for lines stored before images were captured.
func (l CartLine) CartImagePath() string {
	if l.ImageFilename == "" {
		return PlaceholderCartImage
	}
	return "/image/commodity/" + l.ImageFilename
}
