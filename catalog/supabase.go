// catalog/supabase.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chenyinghua/firework-shop/models"
)

// SupabaseService talks to a hosted Supabase project over its PostgREST API.
// This is the canonical backend for the shop.
type SupabaseService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewSupabaseService creates a client for the given project URL and anon key.
func NewSupabaseService(baseURL, apiKey string) *SupabaseService {
	return &SupabaseService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// supabaseProduct mirrors the products row with its embedded stats record.
type supabaseProduct struct {
	ID            json.Number `json:"id"`
	Name          string      `json:"name"`
	Price         float64     `json:"price"`
	Unit          string      `json:"unit"`
	ImageFilename string      `json:"image_filename"`
	QRFilename    string      `json:"qr_filename"`
	ProductStats  *struct {
		ViewCount    int `json:"view_count"`
		CartAddCount int `json:"cart_add_count"`
	} `json:"product_stats"`
}

// FetchProducts retrieves all products joined with their counter stats.
// Products without a stats record get zero counters.
func (s *SupabaseService) FetchProducts(ctx context.Context) ([]models.Product, error) {
	query := "/rest/v1/products?select=*,product_stats(view_count,cart_add_count)"
	body, err := s.do(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, err
	}

	var rows []supabaseProduct
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		p := models.Product{
			ID:            row.ID.String(),
			Name:          row.Name,
			Price:         row.Price,
			Unit:          row.Unit,
			ImageFilename: row.ImageFilename,
			QRFilename:    row.QRFilename,
		}
		if row.ProductStats != nil {
			p.ViewCount = row.ProductStats.ViewCount
			p.CartAddCount = row.ProductStats.CartAddCount
		}
		products = append(products, p)
	}
	return products, nil
}

// IncrementView calls the increment_view_count database function.
func (s *SupabaseService) IncrementView(ctx context.Context, productID string) error {
	return s.rpc(ctx, "increment_view_count", productID)
}

// IncrementCartAdd calls the increment_cart_add_count database function.
func (s *SupabaseService) IncrementCartAdd(ctx context.Context, productID string) error {
	return s.rpc(ctx, "increment_cart_add_count", productID)
}

// InsertOrder appends the sheet to the orders table.
func (s *SupabaseService) InsertOrder(ctx context.Context, sheet models.OrderSheet) error {
	payload, err := json.Marshal(map[string]interface{}{
		"order_no":    sheet.ID,
		"items":       sheet.Lines,
		"total_price": sheet.TotalPrice,
	})
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}
	_, err = s.do(ctx, http.MethodPost, "/rest/v1/orders", payload)
	return err
}

func (s *SupabaseService) rpc(ctx context.Context, fn, productID string) error {
	payload, err := json.Marshal(map[string]json.RawMessage{"p_id": idJSON(productID)})
	if err != nil {
		return fmt.Errorf("failed to encode rpc args: %w", err)
	}
	_, err = s.do(ctx, http.MethodPost, "/rest/v1/rpc/"+fn, payload)
	return err
}

func (s *SupabaseService) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// idJSON renders a product id the way PostgREST expects it: numeric ids stay
// numbers, anything else is sent as a JSON string.
func idJSON(productID string) json.RawMessage {
	if _, err := strconv.ParseInt(productID, 10, 64); err == nil {
		return json.RawMessage(productID)
	}
	quoted, _ := json.Marshal(productID)
	return quoted
}
