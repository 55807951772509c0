// Package session keeps per-client conversations for the lifetime of the process.
package session

import (
	"sort"
	"sync"

	"github.com/xhad/journey/pkg/conversation"
)

const DefaultID = "default"

// Store maps client-supplied session ids to conversations. Nothing is
// persisted or evicted; a restart starts from an empty store.
type Store struct {
	mu           sync.RWMutex
	systemPrompt string
	sessions     map[string]*conversation.Conversation
}

func NewStore(systemPrompt string) *Store {
	return &Store{
		systemPrompt: systemPrompt,
		sessions:     make(map[string]*conversation.Conversation),
	}
}

// Get returns the conversation for id, creating it on first use.
func (s *Store) Get(id string) *conversation.Conversation {
	if id == "" {
		id = DefaultID
	}

	s.mu.RLock()
	conv, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return conv
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.sessions[id]; ok {
		return conv
	}
	conv = conversation.New(s.systemPrompt)
	s.sessions[id] = conv
	return conv
}

// Delete removes a session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// IDs returns the active session ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// TotalMessages counts every stored message, system prompts included.
func (s *Store) TotalMessages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, conv := range s.sessions {
		total += conv.Len()
	}
	return total
}
