package customHttpClient

import (
	"net/http"

	"github.com/clinicops/migrator/internal/config"
)

// Shared pooled transport for every backend round trip of a run.
var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

func GetPooledClient() *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   config.BackendRequestTimeout,
	}
}
