package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/josiasmanzur02/sevenminutes/internal"
)

// WebhookNotifier posts notifications to a configured HTTP endpoint,
// standing in for the host notification capability.
type WebhookNotifier struct {
	URL        string
	HTTPClient *http.Client
	logger     internal.Logger
}

func NewWebhookNotifier(url string, logger internal.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, title, body, tag string) error {
	payload, err := json.Marshal(map[string]string{
		"title": title,
		"body":  body,
		"tag":   tag,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", n.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logger.Debugf("notify webhook returned %d", resp.StatusCode)
		return errors.New("notify webhook returned non-2xx")
	}
	return nil
}

// NopNotifier is the unsupported-capability fallback.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, title, body, tag string) error {
	return nil
}
