package store

import (
	"encoding/json"
	"sync"
)

// Memory is an in-process Store used by tests and dry runs. It applies the
// same update discipline as File without touching disk.
type Memory struct {
	mu   sync.Mutex
	recs []json.RawMessage
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Path() string { return "(memory)" }

func (m *Memory) Load() ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRecords(m.recs), nil
}

func (m *Memory) Update(fn func(recs []json.RawMessage) ([]json.RawMessage, error)) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out, err := fn(cloneRecords(m.recs))
	if err != nil {
		return nil, err
	}
	m.recs = cloneRecords(out)
	return out, nil
}

func cloneRecords(recs []json.RawMessage) []json.RawMessage {
	if recs == nil {
		return nil
	}
	out := make([]json.RawMessage, len(recs))
	for i, r := range recs {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
