// Package image converts an HTML page into a PNG screenshot.
package image

import (
	"context"
	"fmt"
	"io"

	"github.com/chromedp/chromedp"
)

// Renderer knows how to take a screenshot of an HTML page and write it as PNG.
//
// It drives a headless Chrome instance: rendering fails when no Chrome or
// Chromium binary is installed on the host.
type Renderer struct {
	options
}

// New builds an image [Renderer] from HTML.
func New(opts ...Option) *Renderer {
	return &Renderer{
		options: optionsWithDefaults(opts),
	}
}

// Render a PNG image as a screenshot of the HTML read from source.
func (r *Renderer) Render(dest io.Writer, source io.Reader) error {
	screenshot, err := r.screenshot(source)
	if err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}

	_, err = dest.Write(screenshot)
	if err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}

	return nil
}

func (r *Renderer) screenshot(reader io.Reader) ([]byte, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	const qualityPNG = 100 // 100 to force PNG

	var screenshot []byte
	err = chromedp.Run(ctx,
		chromedp.EmulateViewport(r.Width, r.Height, chromedp.EmulateScale(r.Scale)),
		chromedp.Navigate("data:text/html,"+string(content)),
		chromedp.Sleep(r.SleepDuration), // leave the chart scripts some time to draw
		chromedp.FullScreenshot(&screenshot, qualityPNG),
	)
	if err != nil {
		return nil, err
	}

	return screenshot, nil
}
