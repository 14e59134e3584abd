// Package quotes fetches random quotes from zenquotes.io.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
)

const DefaultURL = "https://zenquotes.io/api/random"

type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{URL: url, HTTP: &http.Client{Timeout: 5 * time.Second}}
}

type zenItem struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Random fetches one quote. The API answers with an array; a bare object is
// accepted as well.
func (c *Client) Random(ctx context.Context) (entity.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return entity.Quote{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return entity.Quote{}, fmt.Errorf("fetch quote: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return entity.Quote{}, err
	}

	var item zenItem
	var list []zenItem
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) > 0 {
			item = list[0]
		}
	} else if err := json.Unmarshal(body, &item); err != nil {
		return entity.Quote{}, fmt.Errorf("decode quote: %w", err)
	}
	if item.Q == "" {
		return entity.Quote{}, errors.New("invalid quote response")
	}
	if item.A == "" {
		item.A = "Unknown"
	}
	return entity.Quote{Text: item.Q, Author: item.A}, nil
}
