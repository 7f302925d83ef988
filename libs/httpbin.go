package libs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type HTTPBinClient struct {
	client  *resty.Client
	baseURL string
}

func NewHTTPBinClient(baseURL string) *HTTPBinClient {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")
	return &HTTPBinClient{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Delay calls /delay/{seconds}, which answers after the given number of seconds.
func (c *HTTPBinClient) Delay(ctx context.Context, seconds int) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/delay/%d", c.baseURL, seconds))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("httpbin request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return resp.Body(), nil
}
