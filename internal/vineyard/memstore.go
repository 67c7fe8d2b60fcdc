package vineyard

import (
	"context"
	"io"
	"sync"
)

// MemStore is an in-process StreamReader used for local development and
// tests. Producers create and populate streams; consumers opened before a
// stream exists block until it is created, matching the store's semantics
// for named objects.
type MemStore struct {
	mu      sync.Mutex
	streams map[ObjectName]*MemStream
	waiters map[ObjectName][]chan *MemStream
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		streams: make(map[ObjectName]*MemStream),
		waiters: make(map[ObjectName][]chan *MemStream),
	}
}

// CreateStream registers a new named stream and returns its writer side.
func (s *MemStore) CreateStream(name ObjectName) (*MemStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.streams[name]; ok {
		return nil, errStreamExists(name)
	}
	st := &MemStream{changed: make(chan struct{})}
	s.streams[name] = st
	for _, w := range s.waiters[name] {
		w <- st
	}
	delete(s.waiters, name)
	return st, nil
}

// Open returns a cursor over the named stream, blocking until the stream
// has been created or the context is done.
func (s *MemStore) Open(ctx context.Context, name ObjectName) (RecordStream, error) {
	s.mu.Lock()
	if st, ok := s.streams[name]; ok {
		s.mu.Unlock()
		return &memCursor{stream: st}, nil
	}
	w := make(chan *MemStream, 1)
	s.waiters[name] = append(s.waiters[name], w)
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case st := <-w:
		return &memCursor{stream: st}, nil
	}
}

func errStreamExists(name ObjectName) error {
	return &streamExistsError{name: name}
}

type streamExistsError struct {
	name ObjectName
}

func (e *streamExistsError) Error() string {
	return "stream already exists: " + string(e.name)
}

// MemStream is the writer side of an in-memory named stream.
type MemStream struct {
	mu      sync.Mutex
	records [][]byte
	closed  bool
	changed chan struct{}
}

// Append adds one record and wakes blocked readers.
func (st *MemStream) Append(record []byte) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return
	}
	st.records = append(st.records, record)
	st.wake()
}

// CloseWrite marks the stream complete. Readers drain the remaining
// records and then observe io.EOF.
func (st *MemStream) CloseWrite() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return
	}
	st.closed = true
	st.wake()
}

// wake must be called with st.mu held.
func (st *MemStream) wake() {
	close(st.changed)
	st.changed = make(chan struct{})
}

// memCursor is an independent read cursor over a MemStream.
type memCursor struct {
	stream *MemStream
	pos    int
}

func (c *memCursor) Next(ctx context.Context) ([]byte, error) {
	for {
		c.stream.mu.Lock()
		if c.pos < len(c.stream.records) {
			record := c.stream.records[c.pos]
			c.pos++
			c.stream.mu.Unlock()
			return record, nil
		}
		if c.stream.closed {
			c.stream.mu.Unlock()
			return nil, io.EOF
		}
		changed := c.stream.changed
		c.stream.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-changed:
		}
	}
}

func (c *memCursor) Close() error { return nil }
