package hltv

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

// BrowserFetcher drives a headless chrome instance per page load. a
// fresh browser each time is slower but keeps no session state the
// target could fingerprint across requests.
type BrowserFetcher struct {
	timeout time.Duration
}

func NewBrowserFetcher() BrowserFetcher {
	return BrowserFetcher{timeout: time.Second * 30}
}

func (f BrowserFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "BrowserFetcher.FetchPage")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.NoSandbox,
		chromedp.UserAgent(browserUserAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "navigation failed")
		return "", err
	}

	span.SetAttributes(attribute.Int("content_length", len(html)))
	return html, nil
}
