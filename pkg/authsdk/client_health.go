package authsdk

import (
	"context"
	"net/http"
)

// GetLiveness reports process health and version. It needs no database.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.probe(ctx, "/livez")
}

// GetReadiness succeeds only while the service can reach its database. A 503
// comes back as *APIError.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.probe(ctx, "/readyz")
}

func (c *SDKClient) probe(ctx context.Context, path string) (*HealthResponse, error) {
	var h HealthResponse
	if err := c.do(ctx, call{Method: http.MethodGet, Path: path, Want: http.StatusOK}, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
