package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/models"
)

func newTestStore(t *testing.T) *CartStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fireworks_cart.json")
	return NewCartStore(path, zap.NewNop().Sugar())
}

func peony() models.Product {
	return models.Product{ID: "1", Name: "Red Peony", Price: 12.5, Unit: "箱", ImageFilename: "peony.jpg"}
}

func sparkler() models.Product {
	return models.Product{ID: "2", Name: "Sparkler", Price: 3}
}

func TestCartStore_AddOne(t *testing.T) {
	cs := newTestStore(t)

	require.NoError(t, cs.AddOne("1", peony()))
	require.NoError(t, cs.AddOne("1", peony()))
	require.NoError(t, cs.AddOne("2", sparkler()))

	lines := cs.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines["1"].Quantity)
	assert.Equal(t, 1, lines["2"].Quantity)

	t.Run("snapshot captured at add time", func(t *testing.T) {
		line := lines["1"]
		assert.Equal(t, "Red Peony", line.Name)
		assert.Equal(t, 12.5, line.Price)
		assert.Equal(t, "箱", line.Unit)
		assert.Equal(t, "peony.jpg", line.ImageFilename)
	})

	t.Run("default unit filled in", func(t *testing.T) {
		assert.Equal(t, models.DefaultUnit, lines["2"].Unit)
	})
}

func TestCartStore_TotalsFoldLaw(t *testing.T) {
	cs := newTestStore(t)

	// An arbitrary mutation sequence; totals must always equal the fold
	// over the resulting mapping.
	require.NoError(t, cs.AddOne("1", peony()))
	require.NoError(t, cs.AddOne("2", sparkler()))
	require.NoError(t, cs.AddOne("1", peony()))
	require.NoError(t, cs.AdjustQuantity("1", 3))
	require.NoError(t, cs.AdjustQuantity("2", -1))
	require.NoError(t, cs.AdjustQuantity("missing", 5))

	count, price := cs.Totals()

	wantCount := 0
	wantPrice := 0.0
	for _, line := range cs.Lines() {
		wantCount += line.Quantity
		wantPrice += line.Price * float64(line.Quantity)
	}
	assert.Equal(t, wantCount, count)
	assert.Equal(t, wantPrice, price)
	assert.Equal(t, 5, count)
	assert.Equal(t, 62.5, price)
}

func TestCartStore_AdjustQuantity(t *testing.T) {
	t.Run("decrement to zero removes the line", func(t *testing.T) {
		cs := newTestStore(t)
		require.NoError(t, cs.AddOne("1", peony()))
		require.NoError(t, cs.AdjustQuantity("1", -1))
		assert.Empty(t, cs.Lines())
	})

	t.Run("large negative delta removes the line", func(t *testing.T) {
		cs := newTestStore(t)
		require.NoError(t, cs.AddOne("1", peony()))
		require.NoError(t, cs.AddOne("1", peony()))
		require.NoError(t, cs.AdjustQuantity("1", -10))
		assert.Empty(t, cs.Lines())
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		cs := newTestStore(t)
		require.NoError(t, cs.AdjustQuantity("ghost", 1))
		assert.Empty(t, cs.Lines())
	})

	t.Run("no line is ever stored at quantity zero or less", func(t *testing.T) {
		cs := newTestStore(t)
		require.NoError(t, cs.AddOne("1", peony()))
		require.NoError(t, cs.AddOne("2", sparkler()))
		deltas := []int{2, -1, -1, 1, -5, 3}
		for _, d := range deltas {
			require.NoError(t, cs.AdjustQuantity("1", d))
			require.NoError(t, cs.AdjustQuantity("2", -d))
			for _, line := range cs.Lines() {
				assert.Greater(t, line.Quantity, 0)
			}
		}
	})
}

func TestCartStore_Clear(t *testing.T) {
	cs := newTestStore(t)
	require.NoError(t, cs.AddOne("1", peony()))
	require.NoError(t, cs.Clear())

	assert.Empty(t, cs.Lines())
	count, price := cs.Totals()
	assert.Zero(t, count)
	assert.Zero(t, price)
}

func TestCartStore_Persistence(t *testing.T) {
	t.Run("round trip through the saved file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fireworks_cart.json")
		logger := zap.NewNop().Sugar()

		cs := NewCartStore(path, logger)
		require.NoError(t, cs.AddOne("1", peony()))
		require.NoError(t, cs.AddOne("2", sparkler()))
		require.NoError(t, cs.AdjustQuantity("2", 4))

		rehydrated := NewCartStore(path, logger)
		assert.Equal(t, cs.Lines(), rehydrated.Lines())
	})

	t.Run("missing file hydrates empty", func(t *testing.T) {
		cs := NewCartStore(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop().Sugar())
		assert.Empty(t, cs.Lines())
	})

	t.Run("corrupt file hydrates empty without failing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fireworks_cart.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		cs := NewCartStore(path, zap.NewNop().Sugar())
		assert.Empty(t, cs.Lines())

		// The store must still be usable and persist over the bad file.
		require.NoError(t, cs.AddOne("1", peony()))
		rehydrated := NewCartStore(path, zap.NewNop().Sugar())
		assert.Len(t, rehydrated.Lines(), 1)
	})

	t.Run("zero quantity lines in the file are dropped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fireworks_cart.json")
		payload := `{"carts":{"fireworks_cart":{"1":{"id":"1","name":"Dud","price":1,"unit":"个","quantity":0}}}}`
		require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

		cs := NewCartStore(path, zap.NewNop().Sugar())
		assert.Empty(t, cs.Lines())
	})
}
