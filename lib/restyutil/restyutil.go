package restyutil

import (
	"time"

	"forzestats-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

type Options struct {
	BaseUrl string
	// route requests through the cloudflare bot-protection bypass
	// transport, needed for scraping targets behind it
	CloudflareBypass bool
	// zero disables retries
	RetryCount int
}

// the single construction point for outbound http clients: every
// adapter gets the same user agent, timeout, retry policy and span
// instrumentation instead of hand-rolling its own.
func NewClient(opts Options, tracerName string) *resty.Client {
	client := resty.New()
	if opts.BaseUrl != "" {
		client.SetBaseURL(opts.BaseUrl)
	}
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	if opts.RetryCount > 0 {
		client.SetRetryCount(opts.RetryCount)
		client.SetRetryWaitTime(time.Millisecond * 250)
		client.SetRetryMaxWaitTime(time.Second * 2)
		client.AddRetryCondition(func(res *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return res.StatusCode() == 429 || res.StatusCode() >= 500
		})
	}

	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	telemetry.InstrumentResty(client, tracerName)
	return client
}
