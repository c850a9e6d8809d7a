package charts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"tcg-pipeline/utils"
)

const (
	viewportWidth  = 1200
	viewportHeight = 900

	// echarts animates bars in over roughly a second
	settleDelay = 1500 * time.Millisecond
)

// Rasterizer converts chart pages to PNG by screenshotting them in headless Chrome.
type Rasterizer struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

// NewRasterizer uses chromeBin when set, otherwise the first browser found on the host.
func NewRasterizer(chromeBin string, logger *utils.Logger) *Rasterizer {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	return &Rasterizer{chromeBin: chromeBin, timeout: 60 * time.Second, logger: logger}
}

// Available reports whether a browser binary was found.
func (r *Rasterizer) Available() bool {
	return r.chromeBin != ""
}

// PNG loads the html page and returns a screenshot of it once its first
// canvas is drawn.
func (r *Rasterizer) PNG(ctx context.Context, html []byte) ([]byte, error) {
	if !r.Available() {
		return nil, fmt.Errorf("charts: no Chrome/Chromium binary found, set CHROME_BIN")
	}
	r.logger.Debug("[charts] Using browser binary: %s", r.chromeBin)

	dir, err := os.MkdirTemp("", "tcg-chart-*")
	if err != nil {
		return nil, fmt.Errorf("charts: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pagePath := filepath.Join(dir, "chart.html")
	if err := os.WriteFile(pagePath, html, 0644); err != nil {
		return nil, fmt.Errorf("charts: write page: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.ExecPath(r.chromeBin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, r.timeout)
	defer cancelTimeout()

	var png []byte
	err = chromedp.Run(runCtx,
		emulation.SetDeviceMetricsOverride(viewportWidth, viewportHeight, 1, false),
		chromedp.Navigate("file://"+pagePath),
		chromedp.WaitVisible("canvas", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("charts: rasterize: %w", err)
	}
	return png, nil
}

// WritePNG rasterizes html into path.
func (r *Rasterizer) WritePNG(ctx context.Context, html []byte, path string) error {
	png, err := r.PNG(ctx, html)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("charts: write %q: %w", path, err)
	}
	return nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
