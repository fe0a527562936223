// Package external is the boundary between the forwarder and third-party
// HTTP services. All outbound calls go through BaseClient, which stamps
// correlation headers and maps transport failures to types.AppError.
//
// Delivery is single-shot: BaseClient never retries and never trips a
// breaker. A failed call surfaces to the Lambda handler immediately.
package external

import (
	"context"
	"errors"
	"net/http"

	"alertforwarder/internal/types"
)

// BaseClient wraps an *http.Client with header injection and error mapping.
type BaseClient struct {
	client    *http.Client
	userAgent string
}

// NewBaseClient creates a BaseClient. A nil httpClient uses http.DefaultClient.
func NewBaseClient(httpClient *http.Client, userAgent string) *BaseClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BaseClient{
		client:    httpClient,
		userAgent: userAgent,
	}
}

// Do executes the HTTP request once with:
//  1. X-Request-ID injection (Lambda request ID from context)
//  2. User-Agent header injection
//  3. Transport error mapping to types.AppError
//
// Any HTTP response, whatever its status, is returned as-is. The caller is
// responsible for closing the response body.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if requestID := types.GetRequestID(req.Context()); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

// mapError translates transport-level failures into AppErrors.
func (c *BaseClient) mapError(err error) *types.AppError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			"upstream request cancelled or timed out",
			err,
		)
	}
	return types.NewAppError(
		types.ErrCodeUpstreamUnavailable,
		"upstream request failed",
		err,
	)
}
