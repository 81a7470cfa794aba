package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/josiasmanzur02/sevenminutes/internal"
)

// HTTPReporter posts completed sessions to a remote endpoint. The
// local streak stays authoritative whether or not the call succeeds.
type HTTPReporter struct {
	URL        string
	HTTPClient *http.Client
	logger     internal.Logger
}

func NewHTTPReporter(url string, logger internal.Logger) *HTTPReporter {
	return &HTTPReporter{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

func (r *HTTPReporter) Report(ctx context.Context, streak int) error {
	payload, err := json.Marshal(map[string]int{"streak": streak})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", r.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		r.logger.Debugf("completion report returned %d", resp.StatusCode)
		return errors.New("completion report returned non-2xx")
	}
	return nil
}
