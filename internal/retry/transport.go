package retry

import (
	"context"
	"net/http"
	"time"
)

// Transport is an http.RoundTripper that retries heightmap fetches
// according to RetryStrategy and RetryOn. A nil strategy or policy
// disables retries and the transport degrades to its Base.
type Transport struct {
	Base          http.RoundTripper
	RetryStrategy Strategy
	RetryOn       *On
}

type contextKey string

// The attempt number rides on the request context so the recursive
// RoundTrip calls share one counter per logical fetch.
const retryCountContextKey contextKey = "heightmapFetchRetryCount"

func getRetryCount(ctx context.Context) uint {
	v := ctx.Value(retryCountContextKey)

	i, ok := v.(uint)
	if !ok {
		return 0
	}

	return i
}

func setRetryCount(ctx context.Context, retryCount uint) context.Context {
	return context.WithValue(ctx, retryCountContextKey, retryCount)
}

func (t *Transport) RoundTrip(request *http.Request) (*http.Response, error) {
	retryCount := getRetryCount(request.Context())
	sleep, exceeded := t.retryStrategy().Sleep(retryCount)

	response, err := t.base().RoundTrip(request)
	if exceeded || t.RetryOn == nil {
		return response, err
	}
	if err != nil && !t.RetryOn.CheckError(err) {
		return nil, err
	}
	if err == nil && !t.RetryOn.CheckResponse(response) {
		return response, nil
	}

	timer := time.NewTimer(sleep)
	select {
	case <-request.Context().Done():
		timer.Stop()
		return nil, request.Context().Err()
	case <-timer.C:
	}
	return t.RoundTrip(request.WithContext(setRetryCount(request.Context(), retryCount+1)))
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) retryStrategy() Strategy {
	if t.RetryStrategy != nil {
		return t.RetryStrategy
	}
	return NewNever()
}

func (t *Transport) CancelRequest(request *http.Request) {
	type canceler interface {
		CancelRequest(*http.Request)
	}
	if cr, ok := t.base().(canceler); ok {
		cr.CancelRequest(request)
	}
}
