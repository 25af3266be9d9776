package storage

import "context"

// MemoryKV is an in-process KV used by tests and as a fallback when no
// state file is available. It is not safe for concurrent use; the
// application drives it from a single UI loop.
type MemoryKV struct {
	data map[string][]byte
	// FailWrites makes Set/Delete return ErrPersistence, for exercising
	// the persist-failure path in store tests.
	FailWrites bool
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	if m.FailWrites {
		return ErrPersistence
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	if m.FailWrites {
		return ErrPersistence
	}
	delete(m.data, key)
	return nil
}
