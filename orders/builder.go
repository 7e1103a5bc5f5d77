// orders/builder.go
package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/catalog"
	"github.com/chenyinghua/firework-shop/models"
	"github.com/chenyinghua/firework-shop/utils"
	"github.com/chenyinghua/firework-shop/views"
)

// ErrEmptyCart is returned when an order sheet is requested for an empty
// cart. It maps to the "add items first" message on the storefront.
var ErrEmptyCart = errors.New("cart is empty")

// persistTimeout bounds the detached order insert and notification.
const persistTimeout = 15 * time.Second

// Builder snapshots the cart into immutable order sheets and hands them to
// the backend order log and the notification mailer. Both of those are
// best-effort; only building and image capture report errors to the user.
type Builder struct {
	service catalog.Service
	mailer  *utils.EmailService
	logger  *zap.SugaredLogger

	now     func() time.Time
	randInt func(n int) int
}

// NewBuilder creates a builder. mailer may be nil, in which case no
// notifications are sent.
func NewBuilder(service catalog.Service, mailer *utils.EmailService, logger *zap.SugaredLogger) *Builder {
	return &Builder{
		service: service,
		mailer:  mailer,
		logger:  logger,
		now:     time.Now,
		randInt: rand.Intn,
	}
}

// Build snapshots the given cart lines into an order sheet. Lines are copied
// by value and ordered by product name so the sheet renders the same way
// every time. The id embeds the build time down to the millisecond plus a
// random 4-digit suffix; uniqueness is best-effort.
func (b *Builder) Build(lines map[string]models.CartLine) (models.OrderSheet, error) {
	if len(lines) == 0 {
		return models.OrderSheet{}, ErrEmptyCart
	}

	ordered := views.SortedCartLines(lines)
	total := 0.0
	for _, l := range ordered {
		total += l.Subtotal()
	}

	now := b.now()
	sheet := models.OrderSheet{
		ID:         b.orderID(now),
		CreatedAt:  now,
		Lines:      ordered,
		TotalPrice: math.Round(total*100) / 100,
	}
	return sheet, nil
}

func (b *Builder) orderID(now time.Time) string {
	suffix := 1000 + b.randInt(9000)
	return fmt.Sprintf("ORD-%s-%s-%03d-%d",
		now.Format("20060102"),
		now.Format("150405"),
		now.Nanosecond()/int(time.Millisecond),
		suffix,
	)
}

// Persist appends the sheet to the backend order log in a detached task.
// Failures are logged and never surfaced; the image flow does not wait.
func (b *Builder) Persist(sheet models.OrderSheet) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := b.service.InsertOrder(ctx, sheet); err != nil {
			b.logger.Errorw("failed to save order history", "order_no", sheet.ID, "error", err)
		}
	}()
}

// Notify emails the sheet to the shop owner in a detached task. A nil mailer
// means notifications are not configured and nothing happens.
func (b *Builder) Notify(sheet models.OrderSheet) {
	if b.mailer == nil {
		return
	}
	go func() {
		if err := b.mailer.SendOrderNotification(sheet); err != nil {
			b.logger.Errorw("failed to send order notification", "order_no", sheet.ID, "error", err)
		}
	}()
}
