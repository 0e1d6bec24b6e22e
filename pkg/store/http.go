package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mistaa/flowstudio/pkg/cache"
	"github.com/mistaa/flowstudio/pkg/graph"
)

// HTTPStore talks to a remote flowstudio server's persistence API. Transport
// failures and 5xx responses are retried with backoff; 4xx responses are
// surfaced immediately.
type HTTPStore struct {
	base   string
	client *http.Client
}

// NewHTTPStore creates a client for the server at baseURL
// (e.g. "http://localhost:8085").
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load fetches the stored graph. The server returns an empty graph for
// unknown IDs; a 404 from older servers is treated the same way.
func (s *HTTPStore) Load(ctx context.Context, operatorID, graphID string) (graph.Graph, error) {
	if err := checkIDs(operatorID, graphID); err != nil {
		return graph.Graph{}, err
	}

	var g graph.Graph
	err := cache.RetryWithBackoff(ctx, func() error {
		body, status, err := s.do(ctx, http.MethodGet, s.graphURL(operatorID, graphID), nil)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		switch {
		case status == http.StatusNotFound:
			g = graph.Graph{}
			return nil
		case status >= 500:
			return cache.Retryable(fmt.Errorf("%w: server returned %d", cache.ErrNetwork, status))
		case status != http.StatusOK:
			return fmt.Errorf("load graph: server returned %d", status)
		}
		g, err = graph.ReadGraph(bytes.NewReader(body))
		return err
	})
	return g, err
}

// Save uploads the graph payload.
func (s *HTTPStore) Save(ctx context.Context, operatorID, graphID string, g graph.Graph) error {
	if err := checkIDs(operatorID, graphID); err != nil {
		return err
	}
	payload, err := graph.MarshalGraph(g)
	if err != nil {
		return err
	}

	return cache.RetryWithBackoff(ctx, func() error {
		_, status, err := s.do(ctx, http.MethodPut, s.graphURL(operatorID, graphID), payload)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		if status >= 500 {
			return cache.Retryable(fmt.Errorf("%w: server returned %d", cache.ErrNetwork, status))
		}
		if status != http.StatusOK && status != http.StatusNoContent {
			return fmt.Errorf("save graph: server returned %d", status)
		}
		return nil
	})
}

// Delete removes the stored graph.
func (s *HTTPStore) Delete(ctx context.Context, operatorID, graphID string) error {
	if err := checkIDs(operatorID, graphID); err != nil {
		return err
	}
	return cache.RetryWithBackoff(ctx, func() error {
		_, status, err := s.do(ctx, http.MethodDelete, s.graphURL(operatorID, graphID), nil)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		if status >= 500 {
			return cache.Retryable(fmt.Errorf("%w: server returned %d", cache.ErrNetwork, status))
		}
		if status != http.StatusOK && status != http.StatusNoContent && status != http.StatusNotFound {
			return fmt.Errorf("delete graph: server returned %d", status)
		}
		return nil
	})
}

// List returns the operator's graph IDs.
func (s *HTTPStore) List(ctx context.Context, operatorID string) ([]string, error) {
	if err := checkIDs(operatorID); err != nil {
		return nil, err
	}

	var ids []string
	err := cache.RetryWithBackoff(ctx, func() error {
		u := fmt.Sprintf("%s/api/v1/operators/%s/graphs", s.base, url.PathEscape(operatorID))
		body, status, err := s.do(ctx, http.MethodGet, u, nil)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		if status >= 500 {
			return cache.Retryable(fmt.Errorf("%w: server returned %d", cache.ErrNetwork, status))
		}
		if status != http.StatusOK {
			return fmt.Errorf("list graphs: server returned %d", status)
		}
		ids = nil
		return json.Unmarshal(body, &ids)
	})
	return ids, err
}

// Close does nothing for the HTTP store.
func (s *HTTPStore) Close(ctx context.Context) error {
	return nil
}

func (s *HTTPStore) graphURL(operatorID, graphID string) string {
	return fmt.Sprintf("%s/api/v1/operators/%s/graphs/%s",
		s.base, url.PathEscape(operatorID), url.PathEscape(graphID))
}

// do runs one request and returns the body and status. Transport errors are
// returned as-is for the caller to classify.
func (s *HTTPStore) do(ctx context.Context, method, u string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return data, resp.StatusCode, nil
}

// Ensure HTTPStore implements Store.
var _ Store = (*HTTPStore)(nil)
