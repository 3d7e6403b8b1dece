// Package pubchem is a minimal client for the PubChem PUG REST API, covering
// the single lookup the matching pipeline needs: compound properties by name.
package pubchem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when PubChem has no compound for the given name.
var ErrNotFound = errors.New("pubchem: compound not found")

// Compound holds the identifier properties the VMH matching cascade
// consults.
type Compound struct {
	CID            int64
	IUPACName      string
	InChI          string
	InChIKey       string
	IsomericSMILES string
}

// Client talks to the PubChem PUG REST API.
type Client struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries int
}

// NewClient creates a PubChem client. If baseURL is empty, defaults to the
// public PUG REST endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://pubchem.ncbi.nlm.nih.gov"
	}
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxRetries: 3,
	}
}

// propertyTableResponse matches the PUG REST property JSON shape.
type propertyTableResponse struct {
	PropertyTable struct {
		Properties []struct {
			CID            int64  `json:"CID"`
			IUPACName      string `json:"IUPACName"`
			InChI          string `json:"InChI"`
			InChIKey       string `json:"InChIKey"`
			IsomericSMILES string `json:"IsomericSMILES"`
		} `json:"Properties"`
	} `json:"PropertyTable"`
}

// CompoundByName resolves a compound name to its identifier properties.
// PubChem returns 404 for unknown names, which surfaces as ErrNotFound.
// Transient failures (429, 5xx) are retried with backoff.
func (c *Client) CompoundByName(ctx context.Context, name string) (*Compound, error) {
	endpoint := fmt.Sprintf(
		"%s/rest/pug/compound/name/%s/property/IUPACName,InChI,InChIKey,IsomericSMILES/JSON",
		c.BaseURL, url.PathEscape(name),
	)

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		compound, retryable, err := c.fetch(ctx, endpoint)
		if err == nil {
			return compound, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("pubchem lookup for %q: %w", name, lastErr)
}

func (c *Client) fetch(ctx context.Context, endpoint string) (*Compound, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("pubchem status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("pubchem status %d", resp.StatusCode)
	}

	var table propertyTableResponse
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return nil, false, fmt.Errorf("decode pubchem response: %w", err)
	}
	props := table.PropertyTable.Properties
	if len(props) == 0 {
		return nil, false, ErrNotFound
	}
	// PubChem may return several hits; the first is the best name match.
	p := props[0]
	return &Compound{
		CID:            p.CID,
		IUPACName:      p.IUPACName,
		InChI:          p.InChI,
		InChIKey:       p.InChIKey,
		IsomericSMILES: p.IsomericSMILES,
	}, false, nil
}
