// Package sheet fetches tabular JSON from the spreadsheet feed, with an
// advisory TTL cache in front of the network.
package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/zentrixai8-sys/checklist-sub001/internal/cache"
	"github.com/zentrixai8-sys/checklist-sub001/internal/config"
)

// ErrMalformedTable reports a response body without the expected table.rows
// shape. Not retried; surfaced to the viewer.
var ErrMalformedTable = errors.New("malformed sheet response: table.rows missing")

// FetchError carries the HTTP status of a non-2xx upstream response.
type FetchError struct {
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("sheet fetch failed with status %d", e.Status)
}

// CacheKeyPrefix namespaces every cached sheet payload, so a single prefix
// sweep evicts them all.
const CacheKeyPrefix = "sheet:"

type Client struct {
	baseURL string
	ttl     time.Duration
	http    *http.Client
	store   cache.Store
}

func NewClient(cfg config.UpstreamConfig, store cache.Store) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		ttl:     cfg.CacheTTL,
		http:    &http.Client{Timeout: cfg.Timeout},
		store:   store,
	}
}

// FetchTable returns the decoded table for one sheet, served from cache when
// an unexpired entry exists.
func (c *Client) FetchTable(ctx context.Context, sheetName string) (*Table, error) {
	u := fmt.Sprintf("%s?action=fetch&sheet=%s", c.baseURL, url.QueryEscape(sheetName))

	body, err := c.Fetch(ctx, u, CacheKeyPrefix+sheetName, c.ttl)
	if err != nil {
		return nil, err
	}
	return decodeTable(body)
}

// Fetch performs a GET with read-through caching. An empty cacheKey bypasses
// the cache entirely. Expired and corrupt entries are evicted and treated as
// misses; a store write failure after a successful fetch is swallowed, the
// fetched payload is returned regardless. The cache is advisory only: two
// concurrent fetches for one key may both hit the network, last write wins.
func (c *Client) Fetch(ctx context.Context, rawURL, cacheKey string, ttl time.Duration) ([]byte, error) {
	if cacheKey != "" {
		if data, err := c.store.Get(ctx, cacheKey); err == nil {
			if json.Valid(data) {
				return data, nil
			}
			// corrupt entry: evict and fall through to the network
			if err := c.store.Delete(ctx, cacheKey); err != nil {
				log.Printf("Warning: failed to evict corrupt cache entry %s: %v", cacheKey, err)
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Printf("Warning: cache read for %s failed: %v", cacheKey, err)
		}
	}

	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if err := c.store.Set(ctx, cacheKey, body, ttl); err != nil {
			// storage failures never fail the request
			log.Printf("Warning: cache write for %s failed: %v", cacheKey, err)
		}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &FetchError{Status: res.StatusCode}
	}

	return io.ReadAll(res.Body)
}

// Invalidate sweeps every cached sheet payload, forcing the next fetch of
// each sheet back to the network.
func (c *Client) Invalidate(ctx context.Context) error {
	return c.store.DeletePrefix(ctx, CacheKeyPrefix)
}
