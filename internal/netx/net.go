// Package netx contains plain HTTP helpers that sit outside the authenticated
// API client.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// DownloadTo fetches url with client and streams the body into dst, replacing
// any existing file. It returns the number of bytes written.
func DownloadTo(ctx context.Context, client *http.Client, url, dst string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	return n, nil
}
