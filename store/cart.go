// store/cart.go
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/models"
)

// CartNamespace is the key the serialized cart is stored under, kept for
// compatibility with carts saved by earlier versions of the shop.
const CartNamespace = "fireworks_cart"

// CartStore owns the persisted mapping of product id to cart line. Every
// mutation is written to disk before the call returns, so the cart survives
// restarts. A corrupt or missing file hydrates as an empty cart.
type CartStore struct {
	mu     sync.Mutex
	lines  map[string]models.CartLine
	path   string
	logger *zap.SugaredLogger
}

// cartFile is the on-disk document. The mapping lives under the fixed
// namespace key.
type cartFile struct {
	Carts map[string]map[string]models.CartLine `json:"carts"`
}

// NewCartStore hydrates a store from the file at path, or starts empty when
// the file is absent or unreadable.
func NewCartStore(path string, logger *zap.SugaredLogger) *CartStore {
	cs := &CartStore{
		lines:  make(map[string]models.CartLine),
		path:   path,
		logger: logger,
	}
	cs.hydrate()
	return cs
}

func (cs *CartStore) hydrate() {
	data, err := os.ReadFile(cs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			cs.logger.Warnw("cart file unreadable, starting empty", "path", cs.path, "error", err)
		}
		return
	}

	var doc cartFile
	if err := json.Unmarshal(data, &doc); err != nil {
		cs.logger.Warnw("cart file corrupt, starting empty", "path", cs.path, "error", err)
		return
	}
	if saved, ok := doc.Carts[CartNamespace]; ok {
		for id, line := range saved {
			// Never resurrect zero or negative quantities.
			if line.Quantity > 0 {
				cs.lines[id] = line
			}
		}
	}
}

// AddOne adds a single unit of the product. An existing line has its
// quantity incremented; otherwise a new line is created from the snapshot.
func (cs *CartStore) AddOne(productID string, snapshot models.Product) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if line, ok := cs.lines[productID]; ok {
		line.Quantity++
		cs.lines[productID] = line
	} else {
		cs.lines[productID] = models.NewCartLine(snapshot)
	}
	return cs.persist()
}

// AdjustQuantity adds delta to the line's quantity. A result of zero or less
// removes the line. Unknown product ids are ignored.
func (cs *CartStore) AdjustQuantity(productID string, delta int) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	line, ok := cs.lines[productID]
	if !ok {
		return nil
	}
	line.Quantity += delta
	if line.Quantity <= 0 {
		delete(cs.lines, productID)
	} else {
		cs.lines[productID] = line
	}
	return cs.persist()
}

// Clear empties the cart. Confirmation is the caller's responsibility.
func (cs *CartStore) Clear() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.lines = make(map[string]models.CartLine)
	return cs.persist()
}

// Totals folds over the lines and returns the unit count and total price.
// The totals are never cached.
func (cs *CartStore) Totals() (count int, price float64) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, line := range cs.lines {
		count += line.Quantity
		price += line.Subtotal()
	}
	return count, price
}

// Lines returns a copy of the mapping for rendering and order building.
func (cs *CartStore) Lines() map[string]models.CartLine {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	out := make(map[string]models.CartLine, len(cs.lines))
	for id, line := range cs.lines {
		out[id] = line
	}
	return out
}

// Len returns the number of distinct lines in the cart.
func (cs *CartStore) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.lines)
}

// persist writes the full mapping to disk. Callers must hold the mutex. The
// write goes through a temp file and rename so a crash mid-write cannot
// corrupt the saved cart.
func (cs *CartStore) persist() error {
	doc := cartFile{Carts: map[string]map[string]models.CartLine{CartNamespace: cs.lines}}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	dir := filepath.Dir(cs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cart directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, CartNamespace+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cart file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cart file: %w", err)
	}
	if err := os.Rename(tmp.Name(), cs.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cart file: %w", err)
	}
	return nil
}
