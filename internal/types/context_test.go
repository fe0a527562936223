package types

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "c6af9ac6-7b61-11e6-9a41-93e8deadbeef")

	if got := GetRequestID(ctx); got != "c6af9ac6-7b61-11e6-9a41-93e8deadbeef" {
		t.Errorf("GetRequestID() = %q", got)
	}
}

func TestRequestIDMissing(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on empty context = %q, want empty", got)
	}
}
