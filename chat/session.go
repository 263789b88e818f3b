// Copyright (c) Microsoft. All rights reserved.

package chat

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
)

// MessageStore persists conversation messages for a [Session].
type MessageStore interface {
	// ListMessages returns all stored messages in order.
	ListMessages(ctx context.Context) ([]Message, error)

	// AddMessages appends messages to the store.
	AddMessages(ctx context.Context, msgs []Message) error
}

// InMemoryStore is a simple in-memory [MessageStore].
// It is safe for concurrent use.
type InMemoryStore struct {
	mu       sync.Mutex
	messages []Message
}

// NewInMemoryStore creates an empty [InMemoryStore].
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) ListMessages(_ context.Context) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Message, len(s.messages))
	copy(cp, s.messages)
	return cp, nil
}

func (s *InMemoryStore) AddMessages(_ context.Context, msgs []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
	return nil
}

// Session manages conversation state for an agent interaction.
// It operates in one of two mutually exclusive modes:
//   - Service-managed: conversation state lives server-side (identified by ServiceID)
//   - Locally-managed: messages are stored locally via a [MessageStore]
//
// Setting one mode locks out the other.
type Session struct {
	mu              sync.Mutex
	id              string
	serviceID       string
	store           MessageStore
	contextProvider ContextProvider
	modeLocked      bool
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithSessionStore sets the local message store for the session.
func WithSessionStore(store MessageStore) SessionOption {
	return func(s *Session) { s.store = store }
}

// WithSessionContextProvider attaches a context provider to the session.
func WithSessionContextProvider(cp ContextProvider) SessionOption {
	return func(s *Session) { s.contextProvider = cp }
}

// NewSession creates a new Session with a generated ID.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id: newUUID(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// ServiceID returns the service-managed thread ID, or empty if locally managed.
func (s *Session) ServiceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serviceID
}

// SetServiceID locks the session into service-managed mode.
// Returns ErrSessionModeLocked if the session is already in local mode.
func (s *Session) SetServiceID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modeLocked && s.store != nil {
		return fmt.Errorf("%w: cannot switch to service mode", ErrSessionModeLocked)
	}
	s.serviceID = id
	s.modeLocked = true
	return nil
}

// Store returns the local message store, or nil if service-managed.
func (s *Session) Store() MessageStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// SetStore locks the session into locally-managed mode.
// Returns ErrSessionModeLocked if the session is already in service mode.
func (s *Session) SetStore(store MessageStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modeLocked && s.serviceID != "" {
		return fmt.Errorf("%w: cannot switch to local mode", ErrSessionModeLocked)
	}
	s.store = store
	s.modeLocked = true
	return nil
}

// ContextProvider returns the session's context provider, if any.
func (s *Session) ContextProvider() ContextProvider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextProvider
}

func newUUID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant 10
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
