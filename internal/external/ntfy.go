package external

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"alertforwarder/internal/config"
	"alertforwarder/internal/types"
)

// maxResponseBodyRead limits how much of an ntfy response body is read for logs.
const maxResponseBodyRead = 4096

var _ NotificationPublisher = (*NtfyClient)(nil)

// NtfyClient publishes plain-text messages to an ntfy topic URL.
//
// ntfy accepts the message body as the raw request payload and reads
// metadata from headers: Title, Priority (1-5) and Tags (comma separated).
type NtfyClient struct {
	base     *BaseClient
	url      string
	priority int
	tags     string
	logger   types.Logger
}

// NewNtfyClient creates an NtfyClient with an http.Client bounded by cfg.Timeout.
func NewNtfyClient(cfg *config.NtfyConfig, logger types.Logger) (*NtfyClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ntfy client: config is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("ntfy client: logger is nil")
	}
	return NewNtfyClientWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, logger), nil
}

// NewNtfyClientWithHTTPClient creates an NtfyClient with a caller-supplied
// HTTP client, e.g. an httptest server client.
func NewNtfyClientWithHTTPClient(cfg *config.NtfyConfig, httpClient *http.Client, logger types.Logger) *NtfyClient {
	return &NtfyClient{
		base:     NewBaseClient(httpClient, cfg.UserAgent),
		url:      cfg.URL,
		priority: cfg.Priority,
		tags:     cfg.Tags,
		logger:   logger,
	}
}

// Publish POSTs msg.Body to the topic URL. Any status other than 200 is an
// AppError with code upstream_ntfy_rejected.
func (n *NtfyClient) Publish(ctx context.Context, msg Message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(msg.Body))
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build ntfy request", err)
	}

	req.Header.Set("Authorization", "Bearer "+msg.Token.Unmask())
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.Title != "" {
		req.Header.Set("Title", encodeHeaderValue(msg.Title))
	}
	if n.priority > 0 {
		req.Header.Set("Priority", strconv.Itoa(n.priority))
	}
	if n.tags != "" {
		req.Header.Set("Tags", n.tags)
	}

	resp, err := n.base.Do(req)
	if err != nil {
		n.logger.Error("ntfy request failed",
			"url", n.url,
			"error", err.Error(),
		)
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyRead))

	n.logger.Info("ntfy response",
		"url", n.url,
		"status", resp.StatusCode,
		"body", string(body),
	)

	if resp.StatusCode != http.StatusOK {
		return types.NewAppError(
			types.ErrCodeUpstreamNtfyRejected,
			fmt.Sprintf("failed to send notification: %d", resp.StatusCode),
			nil,
		).WithDetails(map[string]any{
			"status": resp.StatusCode,
			"body":   string(body),
		})
	}

	return nil
}

// encodeHeaderValue RFC 2047-encodes values that are not printable ASCII,
// which ntfy decodes for the Title header.
func encodeHeaderValue(v string) string {
	for _, r := range v {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return mime.QEncoding.Encode("utf-8", v)
		}
	}
	return v
}
