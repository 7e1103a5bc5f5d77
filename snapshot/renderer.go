// snapshot/renderer.go
package snapshot

import "context"

// Renderer turns a rendered HTML document into a downloadable image of the
// element matched by selector. A failed capture leaves no state behind; the
// caller may simply try again.
type Renderer interface {
	Capture(ctx context.Context, html, selector string, opts Options) ([]byte, error)
}

// Options control how a capture is taken.
type Options struct {
	// Scale is the device scale factor; 2 produces retina-quality output.
	Scale float64
	// Background is the CSS background color behind the captured element.
	Background string
}

// DefaultOptions matches the output of the original order sheet images.
func DefaultOptions() Options {
	return Options{Scale: 2, Background: "#ffffff"}
}
