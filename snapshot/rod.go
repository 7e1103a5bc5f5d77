// snapshot/rod.go
package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodRenderer captures images with a headless Chromium session. The browser
// is launched on first use and shared across captures; each capture gets its
// own page.
type RodRenderer struct {
	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodRenderer returns a renderer whose browser starts lazily.
func NewRodRenderer() *RodRenderer {
	return &RodRenderer{}
}

func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}
	url, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	r.browser = browser
	return r.browser, nil
}

// Capture loads the document and screenshots the element matched by
// selector as a PNG.
func (r *RodRenderer) Capture(ctx context.Context, html, selector string, opts Options) ([]byte, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	metrics := &proto.EmulationSetDeviceMetricsOverride{
		Width:             600,
		Height:            800,
		DeviceScaleFactor: scale,
	}
	if err := metrics.Call(page); err != nil {
		return nil, fmt.Errorf("failed to set capture scale: %w", err)
	}

	if opts.Background != "" {
		html = fmt.Sprintf(`<body style="background:%s;margin:0">%s</body>`, opts.Background, html)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to finish loading: %w", err)
	}

	el, err := page.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("capture target %q not found: %w", selector, err)
	}
	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to capture image: %w", err)
	}
	return data, nil
}

// Close shuts the shared browser down.
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}
