package preso

import (
	"context"
	"sync"
	"time"

	"custodia.org/internal/ids"
)

var _ Store = (*InMemory)(nil)

// InMemory implements Store in process memory, newest insert first. It backs
// local development runs without a Postgres DSN and the API tests.
type InMemory struct {
	mu      sync.RWMutex
	records []Record
	index   map[string]int
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{index: make(map[string]int)}
}

func (s *InMemory) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, copyRecord(s.records[i]))
	}
	return out, nil
}

func (s *InMemory) Insert(ctx context.Context, p Payload) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := Record{
		ID:        ids.New(),
		CreatedAt: time.Now().UTC(),
		Fields:    copyFields(p.Fields),
	}
	if p.QuandoPrendeu != nil {
		rec.QuandoPrendeu = *p.QuandoPrendeu
	}
	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return copyRecord(rec), nil
}

func (s *InMemory) Update(ctx context.Context, id string, p Payload) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec := &s.records[i]
	if p.QuandoPrendeu != nil {
		rec.QuandoPrendeu = *p.QuandoPrendeu
	}
	if len(p.Fields) > 0 {
		if rec.Fields == nil {
			rec.Fields = make(map[string]any, len(p.Fields))
		}
		for k, v := range p.Fields {
			rec.Fields[k] = v
		}
	}
	return copyRecord(*rec), nil
}

func (s *InMemory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *InMemory) DeleteMany(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		// Best-effort: missing ids are skipped.
		_ = s.deleteLocked(id)
	}
	return nil
}

func (s *InMemory) deleteLocked(id string) error {
	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	return nil
}

func copyRecord(rec Record) Record {
	out := rec
	out.Fields = copyFields(rec.Fields)
	return out
}

func copyFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
