// catalog/rank.go
package catalog

import (
	"math"
	"sort"
	"strings"

	"github.com/chenyinghua/firework-shop/models"
)

// SortMode selects the ordering of the product grid. The values match the
// sort chips on the storefront.
type SortMode string

const (
	SortDefault   SortMode = "default"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortViews     SortMode = "views"
	SortAdds      SortMode = "adds"
)

// ParseSortMode maps a wire value to a SortMode, falling back to the default
// ordering for anything unknown.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortPriceAsc, SortPriceDesc, SortViews, SortAdds:
		return SortMode(s)
	default:
		return SortDefault
	}
}

// Rank filters products by a case-insensitive substring match on the name
// and orders the result by the given mode. The input slice is not modified,
// and the sort is stable: products no criterion separates keep their
// relative order.
//
// The default mode orders by cart adds descending, then views descending,
// then by how close the price is to the mean price of the filtered set, so
// that mid-priced items surface first when no stronger signal exists. The
// mean is recomputed for each invocation over the filtered set, not the full
// catalog.
func Rank(products []models.Product, term string, mode SortMode) []models.Product {
	needle := strings.ToLower(term)

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			filtered = append(filtered, p)
		}
	}

	meanPrice := 0.0
	if len(filtered) > 0 {
		sum := 0.0
		for _, p := range filtered {
			sum += p.Price
		}
		meanPrice = sum / float64(len(filtered))
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch mode {
		case SortPriceAsc:
			return a.Price < b.Price
		case SortPriceDesc:
			return a.Price > b.Price
		case SortViews:
			return a.ViewCount > b.ViewCount
		case SortAdds:
			return a.CartAddCount > b.CartAddCount
		}

		if a.CartAddCount != b.CartAddCount {
			return a.CartAddCount > b.CartAddCount
		}
		if a.ViewCount != b.ViewCount {
			return a.ViewCount > b.ViewCount
		}
		return math.Abs(a.Price-meanPrice) < math.Abs(b.Price-meanPrice)
	})

	return filtered
}
