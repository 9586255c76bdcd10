package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// call is one round trip to the service. At most one of JSON and Form is set.
type call struct {
	Method string
	Path   string
	JSON   any
	Form   url.Values
	Bearer string

	// Want is the only status decoded into the result; anything else is
	// returned as *APIError or *ValidationError.
	Want int
}

func (c *SDKClient) do(ctx context.Context, in call, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	switch {
	case in.JSON != nil:
		b, err := json.Marshal(in.JSON)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", in.Path, err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	case in.Form != nil:
		body, contentType = strings.NewReader(in.Form.Encode()), "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, in.Method, c.BaseURL+in.Path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", in.Method, in.Path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if in.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+in.Bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", in.Method, in.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", in.Path, err)
	}

	if resp.StatusCode != in.Want {
		if err := parseErrorResponse(resp, raw); err != nil {
			return err
		}
		return fmt.Errorf("%s %s: unexpected status %d", in.Method, in.Path, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", in.Path, err)
	}
	return nil
}
