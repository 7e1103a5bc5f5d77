package orders

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/models"
)

var orderIDPattern = regexp.MustCompile(`^ORD-\d{8}-\d{6}-\d{3}-[1-9]\d{3}$`)

type stubService struct {
	inserted chan models.OrderSheet
	err      error
}

func (s *stubService) FetchProducts(ctx context.Context) ([]models.Product, error) {
	return nil, nil
}
func (s *stubService) IncrementView(ctx context.Context, productID string) error    { return nil }
func (s *stubService) IncrementCartAdd(ctx context.Context, productID string) error { return nil }
func (s *stubService) InsertOrder(ctx context.Context, sheet models.OrderSheet) error {
	s.inserted <- sheet
	return s.err
}

func newTestBuilder() (*Builder, *stubService) {
	svc := &stubService{inserted: make(chan models.OrderSheet, 4)}
	return NewBuilder(svc, nil, zap.NewNop().Sugar()), svc
}

func sampleLines() map[string]models.CartLine {
	return map[string]models.CartLine{
		"2": {ProductID: "2", Name: "Sparkler", Price: 3.3, Unit: "个", Quantity: 3},
		"1": {ProductID: "1", Name: "Red Peony", Price: 12.5, Unit: "箱", Quantity: 2},
	}
}

func TestBuilder_BuildEmptyCart(t *testing.T) {
	b, _ := newTestBuilder()

	_, err := b.Build(nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = b.Build(map[string]models.CartLine{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuilder_Build(t *testing.T) {
	b, _ := newTestBuilder()

	sheet, err := b.Build(sampleLines())
	require.NoError(t, err)

	t.Run("id matches the order number format", func(t *testing.T) {
		assert.Regexp(t, orderIDPattern, sheet.ID)
	})

	t.Run("lines are copied and ordered by name", func(t *testing.T) {
		require.Len(t, sheet.Lines, 2)
		assert.Equal(t, "Red Peony", sheet.Lines[0].Name)
		assert.Equal(t, "Sparkler", sheet.Lines[1].Name)
	})

	t.Run("total is the rounded fold of the lines", func(t *testing.T) {
		// 12.5*2 + 3.3*3 = 34.9
		assert.Equal(t, 34.9, sheet.TotalPrice)
		assert.Equal(t, 5, sheet.ItemCount())
	})
}

func TestBuilder_BuildDoesNotTrackCartMutations(t *testing.T) {
	b, _ := newTestBuilder()

	lines := sampleLines()
	sheet, err := b.Build(lines)
	require.NoError(t, err)

	line := lines["1"]
	line.Quantity = 99
	lines["1"] = line

	assert.Equal(t, 2, sheet.Lines[0].Quantity)
	assert.Equal(t, 34.9, sheet.TotalPrice)
}

func TestBuilder_OrderIDEmbedsBuildTime(t *testing.T) {
	b, _ := newTestBuilder()
	b.now = func() time.Time {
		return time.Date(2026, 1, 30, 21, 5, 9, 42*int(time.Millisecond), time.Local)
	}
	b.randInt = func(n int) int { return 2345 - 1000 }

	sheet, err := b.Build(sampleLines())
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260130-210509-042-2345", sheet.ID)
}

func TestBuilder_SameMillisecondDistinctSuffixes(t *testing.T) {
	b, _ := newTestBuilder()
	fixed := time.Date(2026, 1, 30, 21, 5, 9, 42*int(time.Millisecond), time.Local)
	b.now = func() time.Time { return fixed }

	suffixes := []int{111, 222}
	b.randInt = func(n int) int {
		s := suffixes[0]
		suffixes = suffixes[1:]
		return s
	}

	first, err := b.Build(sampleLines())
	require.NoError(t, err)
	second, err := b.Build(sampleLines())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestBuilder_PersistIsDetachedAndSilent(t *testing.T) {
	b, svc := newTestBuilder()
	svc.err = errors.New("insert failed")

	sheet, err := b.Build(sampleLines())
	require.NoError(t, err)

	// Persist returns immediately; the insert happens in the background and
	// its failure is swallowed.
	b.Persist(sheet)

	select {
	case got := <-svc.inserted:
		assert.Equal(t, sheet.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("order insert never reached the backend")
	}
}

func TestBuilder_NotifyWithoutMailerIsNoop(t *testing.T) {
	b, _ := newTestBuilder()
	sheet, err := b.Build(sampleLines())
	require.NoError(t, err)

	// Must not panic with notifications unconfigured.
	b.Notify(sheet)
}
