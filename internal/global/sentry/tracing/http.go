package tracing

import (
	"net/url"

	"fest-judging-system/config"

	"github.com/getsentry/sentry-go"
	"github.com/go-resty/resty/v2"
)

// SetupRestyTracing 为 resty 客户端挂上 http.client span，并透传 sentry-trace 头
func SetupRestyTracing(client *resty.Client) {
	if !config.Get().Sentry.Tracing.TraceHTTPCalls {
		return
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		span := StartSpanFromContext(req.Context(), "http.client", req.Method+" "+sanitizeURL(req.URL))
		if span == nil {
			return nil
		}
		span.SetData("http.request.method", req.Method)
		req.SetHeader("sentry-trace", span.ToSentryTrace())
		if baggage := span.ToBaggage(); baggage != "" {
			req.SetHeader("baggage", baggage)
		}
		req.SetContext(span.Context())
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		span := sentry.SpanFromContext(resp.Request.Context())
		if span == nil {
			return nil
		}
		span.SetData("http.response.status_code", resp.StatusCode())
		if resp.StatusCode() >= 400 {
			span.Status = sentry.HTTPtoSpanStatus(resp.StatusCode())
			span.Finish()
			return nil
		}
		finish(span, true, nil)
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if req == nil {
			return
		}
		finish(sentry.SpanFromContext(req.Context()), true, err)
	})
}

// sanitizeURL 只保留 scheme://host/path，去掉可能带 token 的查询参数
func sanitizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return parsed.Scheme + "://" + parsed.Host + parsed.Path
}
