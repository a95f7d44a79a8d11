// Package forbes fetches the Forbes real-time billionaires listing.
package forbes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Record is one raw person entry as decoded from the upstream JSON. Numeric
// fields are json.Number so their exact text survives until decimal parsing.
type Record = map[string]any

// DefaultEndpoints are tried in order until one returns a non-empty listing.
var DefaultEndpoints = []string{
	"https://www.forbes.com/forbesapi/person/rtb/0/position/true.json",
	"https://www.forbes.com/forbesapi/person/rtb/0/-estWorthPrev/true.json?fields=rank,uri,personName,lastName,gender,source,industries,countryOfCitizenship,birthDate,finalWorth,estWorthPrev,imageExists,squareImage,listUri",
	"https://www.forbes.com/forbesapi/person/rtb/0/-estWorthPrev/true.json",
}

const (
	DefaultUserAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N)"
	DefaultTimeout   = 30 * time.Second
)

// FetchError reports that no endpoint yielded a usable listing. It wraps the
// last underlying failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("forbes fetch failed (last url %s): %v", e.URL, e.Err)
	}
	return fmt.Sprintf("forbes fetch failed: %v", e.Err)
}
func (e *FetchError) Unwrap() error { return e.Err }

type Options struct {
	UserAgent string
	Timeout   time.Duration
	Endpoints []string
}

type Client struct {
	http      *resty.Client
	endpoints []string
}

func NewClient(opt Options) *Client {
	ua := opt.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	timeout := opt.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	endpoints := opt.Endpoints
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", ua)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Client{http: client, endpoints: endpoints}
}

// Fetch tries each endpoint once, in order, and returns the first non-empty
// person listing. Transport errors, non-2xx statuses, undecodable payloads,
// and empty listings all fall through to the next endpoint; when every
// endpoint fails, the returned error is a *FetchError wrapping the last cause.
func (c *Client) Fetch(ctx context.Context) ([]Record, error) {
	var lastURL string
	var lastErr error
	for _, url := range c.endpoints {
		lastURL = url
		resp, err := c.http.R().SetContext(ctx).Get(url)
		if err != nil {
			lastErr = err
			continue
		}
		if !resp.IsSuccess() {
			lastErr = fmt.Errorf("unexpected status %s", resp.Status())
			continue
		}
		records, err := decodeRecords(resp.Body())
		if err != nil {
			lastErr = err
			continue
		}
		if len(records) == 0 {
			lastErr = errors.New("empty person listing")
			continue
		}
		return records, nil
	}
	return nil, &FetchError{URL: lastURL, Err: lastErr}
}

// decodeRecords pulls the person list out of the payload. The listing lives
// at personList.personsLists, or personList itself when that is an array,
// or data.
func decodeRecords(body []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var raw []any
	switch pl := payload["personList"].(type) {
	case map[string]any:
		raw, _ = pl["personsLists"].([]any)
	case []any:
		raw = pl
	}
	if raw == nil {
		raw, _ = payload["data"].([]any)
	}

	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records, nil
}
