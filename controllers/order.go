// controllers/order.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/chenyinghua/firework-shop/orders"
	"github.com/chenyinghua/firework-shop/snapshot"
	"github.com/chenyinghua/firework-shop/store"
	"github.com/chenyinghua/firework-shop/views"
)

// captureTimeout bounds a single order image capture.
const captureTimeout = 30 * time.Second

// OrderController handles order-related requests
type OrderController struct {
	Cart     *store.CartStore
	Builder  *orders.Builder
	Renderer snapshot.Renderer
	Views    *views.Renderer
	Logger   *zap.SugaredLogger

	// PersistOnPreview also records an order row when the preview is
	// generated, so one user journey can produce two rows. Off by default.
	PersistOnPreview bool
}

// NewOrderController creates a new OrderController
func NewOrderController(cart *store.CartStore, builder *orders.Builder, renderer snapshot.Renderer, viewRenderer *views.Renderer, logger *zap.SugaredLogger) *OrderController {
	return &OrderController{
		Cart:     cart,
		Builder:  builder,
		Renderer: renderer,
		Views:    viewRenderer,
		Logger:   logger,
	}
}

// PreviewOrder builds an order sheet from the current cart and returns it as
// an HTML document. The cart itself is not modified.
func (oc *OrderController) PreviewOrder(w http.ResponseWriter, r *http.Request) {
	sheet, err := oc.Builder.Build(oc.Cart.Lines())
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			http.Error(w, "请先添加商品到选货单", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "Error building order", http.StatusInternalServerError)
		return
	}

	if oc.PersistOnPreview {
		oc.Builder.Persist(sheet)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := oc.Views.OrderSheet(w, sheet); err != nil {
		oc.Logger.Errorw("failed to render order sheet", "order_no", sheet.ID, "error", err)
	}
}

// SaveOrderImage builds an order sheet, records it best-effort, and returns
// a PNG of the rendered sheet for download. A capture failure is retryable
// and leaves the cart and the sheet flow untouched.
func (oc *OrderController) SaveOrderImage(w http.ResponseWriter, r *http.Request) {
	sheet, err := oc.Builder.Build(oc.Cart.Lines())
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			http.Error(w, "请先添加商品到选货单", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "Error building order", http.StatusInternalServerError)
		return
	}

	// Recorded regardless of whether the capture below succeeds; neither
	// waits for the other.
	oc.Builder.Persist(sheet)
	oc.Builder.Notify(sheet)

	html, err := oc.Views.OrderSheetHTML(sheet)
	if err != nil {
		oc.Logger.Errorw("failed to render order sheet", "order_no", sheet.ID, "error", err)
		http.Error(w, "图片生成失败，请重试", http.StatusBadGateway)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), captureTimeout)
	defer cancel()
	image, err := oc.Renderer.Capture(ctx, html, "#order-sheet", snapshot.DefaultOptions())
	if err != nil {
		oc.Logger.Errorw("image generation failed", "order_no", sheet.ID, "error", err)
		http.Error(w, "图片生成失败，请重试", http.StatusBadGateway)
		return
	}

	filename := fmt.Sprintf("firework-order_%d.png", sheet.CreatedAt.UnixMilli())
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(image); err != nil {
		oc.Logger.Warnw("failed to write order image", "order_no", sheet.ID, "error", err)
	}
}
