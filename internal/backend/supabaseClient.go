// Package backend talks to the target store. The Supabase client goes
// through the PostgREST surface; each call is one synchronous round trip
// and the only throttling point of a migration run.
package backend

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

	"github.com/clinicops/migrator/internal/config"
	"github.com/clinicops/migrator/internal/customHttpClient"
	"github.com/clinicops/migrator/internal/metrics"
	"github.com/clinicops/migrator/pkg/logger_i"
	"golang.org/x/time/rate"
)

type SupabaseClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	writes  *rate.Limiter
	logger  *logger_i.Logger
}

func NewSupabaseClient(settings config.Settings) *SupabaseClient {
	return &SupabaseClient{
		baseURL: strings.TrimRight(settings.SupabaseURL, "/"),
		apiKey:  settings.SupabaseKey,
		http:    customHttpClient.GetPooledClient(),
		writes:  rate.NewLimiter(rate.Limit(config.BackendWritesPerSecond), config.BackendWriteBurst),
		logger:  logger_i.NewLogger("SupabaseClient"),
	}
}

// Insert writes one record and returns the id the backend assigned. The
// write is atomic on its own; there is no cross-record transaction.
func (c *SupabaseClient) Insert(ctx context.Context, table string, record any) (string, error) {
	if err := c.writes.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encoding %s record: %w", table, err)
	}

	start := time.Now()
	defer func() { metrics.CaptureBackendLatency("insert", time.Since(start)) }()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+config.SupabaseRestPath+table, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.setHeaders(request)
	request.Header.Set("Prefer", "return=representation")

	rows, err := c.do(request)
	if err != nil {
		return "", fmt.Errorf("inserting into %s: %w", table, err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("inserting into %s: backend returned no row", table)
	}
	id, _ := rows[0]["id"].(string)
	return id, nil
}

// FindByField fetches at most one record whose field exactly equals value.
func (c *SupabaseClient) FindByField(ctx context.Context, table, field, value string) (map[string]any, bool, error) {
	start := time.Now()
	defer func() { metrics.CaptureBackendLatency("find", time.Since(start)) }()

	query := url.Values{}
	query.Set("select", "*")
	query.Set(field, "eq."+value)
	query.Set("limit", "1")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+config.SupabaseRestPath+table+"?"+query.Encode(), nil)
	if err != nil {
		return nil, false, err
	}
	c.setHeaders(request)

	rows, err := c.do(request)
	if err != nil {
		return nil, false, fmt.Errorf("querying %s by %s: %w", table, field, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

func (c *SupabaseClient) setHeaders(request *http.Request) {
	request.Header.Set("apikey", c.apiKey)
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")
}

func (c *SupabaseClient) do(request *http.Request) ([]map[string]any, error) {
	response, err := c.http.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode >= 300 {
		c.logger.Error("Backend rejected request", "status", response.StatusCode, "body", string(payload))
		return nil, fmt.Errorf("backend status %d", response.StatusCode)
	}

	var rows []map[string]any
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &rows); err != nil {
			return nil, fmt.Errorf("decoding backend response: %w", err)
		}
	}
	return rows, nil
}
