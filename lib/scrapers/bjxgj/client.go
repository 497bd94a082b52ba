package bjxgj

import (
	"fmt"
	"time"

	"bjxgj-exporter/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/bjxgj")

const (
	defaultAPIBaseURL     = "https://a.welife001.com"
	defaultServiceBaseURL = "https://service.banjixiaoguanjia.com"
)

// headers the mobile-web build of the app sends, the backend rejects
// requests without them so they must be reproduced verbatim
var appHeaders = map[string]string{
	"accept":             "*/*",
	"accept-language":    "zh-CN,zh;q=0.9,en;q=0.8,en-GB;q=0.7,en-US;q=0.6",
	"app-info":           "1/3.0.8/734",
	"cache-control":      "no-cache",
	"content-type":       "application/json; charset=utf-8",
	"sec-ch-ua":          `"Not A(Brand";v="8", "Chromium";v="132", "Microsoft Edge";v="132"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"Windows"`,
	"sec-fetch-dest":     "empty",
	"sec-fetch-mode":     "cors",
	"sec-fetch-site":     "cross-site",
	"user-agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36 Edg/132.0.0.0",
	"referer":            "https://service.banjixiaoguanjia.com/",
	"Referrer-Policy":    "strict-origin-when-cross-origin",
}

type Client struct {
	http *resty.Client
	// base of the user-context API, a different host than the main API
	serviceBaseUrl string
}

type ClientOptions struct {
	// overrides for tests, both default to the production hosts
	APIBaseURL     string
	ServiceBaseURL string
}

func NewClient(opts ClientOptions) *Client {
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = defaultAPIBaseURL
	}
	if opts.ServiceBaseURL == "" {
		opts.ServiceBaseURL = defaultServiceBaseURL
	}

	client := resty.New()
	client.SetBaseURL(opts.APIBaseURL)
	client.SetHeaders(appHeaders)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/bjxgj/http")

	return &Client{
		http:           client,
		serviceBaseUrl: opts.ServiceBaseURL,
	}
}

func checkStatus(res *resty.Response) error {
	if res.IsError() {
		return fmt.Errorf("%s %s: %s", res.Request.Method, res.Request.URL, res.Status())
	}
	return nil
}
