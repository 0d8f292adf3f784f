package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBodySize caps catalog downloads at 32 MiB. A catalog larger than
// that is almost certainly a misconfigured URL.
const maxBodySize = 32 << 20

// GetJSON fetches url and unmarshals the response body into v.
//
// Network errors and 5xx responses are wrapped in [RetryableError] so a
// surrounding [Retry] loop attempts them again; 4xx responses fail
// immediately. The request carries ctx for cancellation.
func GetJSON(ctx context.Context, client *http.Client, url string, v any) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("get %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &RetryableError{Err: fmt.Errorf("get %s: status %d", url, resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("read %s: %w", url, err)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse %s: %w", url, err)
	}
	return nil
}
