package repository

import (
	"context"
	"sync"
	"sync/atomic"

	model "github.com/okian/planmatch/internal/domain/model"
)

const defaultMaxSize = 10000

// node is one entry in the insertion-ordered list.
type node struct {
	result     model.MatchResult
	prev, next *node
}

func (n *node) reset() {
	n.result = model.MatchResult{}
	n.prev = nil
	n.next = nil
}

// MemoryStore implements Store with a map for lookup and a doubly linked list
// in insertion order for eviction. Nodes are pooled in bounded mode.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*node
	head     *node // most recently added
	tail     *node // oldest, evicted first
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewMemoryStore creates an in-memory result store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(s)
	}
	s.byID = make(map[string]*node)
	s.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return s
}

// Put records r. Replacing an existing ID keeps its original position.
func (s *MemoryStore) Put(ctx context.Context, r model.MatchResult) (int, error) {
	if r.ID == "" {
		return 0, ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.byID[r.ID]; ok {
		n.result = r
		return 0, nil
	}

	evicted := 0
	for s.maxSize > 0 && len(s.byID) >= s.maxSize {
		s.evictOldest()
		evicted++
	}

	n, _ := s.nodePool.Get().(*node)
	if n == nil {
		n = &node{}
	}
	n.result = r
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
	s.byID[r.ID] = n
	s.size.Add(1)
	return evicted, nil
}

// Get returns the stored result for id.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok {
		return model.MatchResult{}, ErrNotFound
	}
	return n.result, nil
}

// Size returns the current number of stored results.
func (s *MemoryStore) Size() int64 {
	return s.size.Load()
}

// evictOldest removes the tail. Must be called with s.mu held.
func (s *MemoryStore) evictOldest() {
	n := s.tail
	if n == nil {
		return
	}
	s.tail = n.prev
	if s.tail != nil {
		s.tail.next = nil
	} else {
		s.head = nil
	}
	delete(s.byID, n.result.ID)
	n.reset()
	s.nodePool.Put(n)
	s.size.Add(-1)
}
