package backend

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/clinicops/migrator/pkg/logger_i"
	"github.com/google/uuid"
)

var inMemLogger = logger_i.NewLogger("InMem Backend")

// InMemoryBackend stands in for the target store during dry runs and
// tests. Inserted records are flattened to maps so FindByField can match
// on any JSON field, the same way PostgREST does.
type InMemoryBackend struct {
	mu     *sync.RWMutex
	tables map[string][]map[string]any
}

func InitInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		mu:     new(sync.RWMutex),
		tables: make(map[string][]map[string]any),
	}
}

func (b *InMemoryBackend) Insert(ctx context.Context, table string, record any) (string, error) {
	encoded, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	var row map[string]any
	if err := json.Unmarshal(encoded, &row); err != nil {
		return "", err
	}
	row["id"] = uuid.New().String()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[table] = append(b.tables[table], row)
	inMemLogger.Debug("Stored record", "table", table, "id", row["id"])
	return row["id"].(string), nil
}

func (b *InMemoryBackend) FindByField(ctx context.Context, table, field, value string) (map[string]any, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, row := range b.tables[table] {
		if row[field] == value {
			return row, true, nil
		}
	}
	return nil, false, nil
}

// Count reports how many records a table holds, for dry-run summaries.
func (b *InMemoryBackend) Count(table string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tables[table])
}
