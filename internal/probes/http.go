package probes

import (
	"context"
	"net/http"
)

var httpClient = &http.Client{}

func newGet(ctx context.Context, url string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
}
