package fetch

import (
	"time"

	"gamefinder-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
	DefaultTimeout   = time.Second * 10
)

type Options struct {
	UserAgent string
	Timeout   time.Duration
	// storefronts behind cloudflare reject the default Go transport
	BypassCloudflare bool
}

// NewClient builds the outbound http client shared by search sources:
// a desktop browser user agent, en-US language preference and a fixed
// per-call timeout. The returned client is never mutated after
// construction so concurrent sources can share it freely.
func NewClient(tracerName string, opts Options) *resty.Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")
	client.SetTimeout(opts.Timeout)
	if opts.BypassCloudflare {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	telemetry.InstrumentResty(client, tracerName)
	return client
}
