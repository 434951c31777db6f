package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Backend is the raw payload storage beneath the Gateway. Implementations
// must keep (userID, key) pairs independent: no two logical keys share a row.
type Backend interface {
	Put(ctx context.Context, userID uuid.UUID, key string, payload []byte) error
	Get(ctx context.Context, userID uuid.UUID, key string) ([]byte, bool, error)
}

// Memory is an in-process store used by tests and the memory dev mode. It
// implements both the record Backend and the user operations of DB.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
	users   map[uuid.UUID]*User
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string][]byte),
		users:   make(map[uuid.UUID]*User),
	}
}

func memoryKey(userID uuid.UUID, key string) string {
	return userID.String() + "/" + key
}

// Put stores a copy of payload under (userID, key).
func (m *Memory) Put(_ context.Context, userID uuid.UUID, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	m.records[memoryKey(userID, key)] = buf
	return nil
}

// Get returns the payload stored under (userID, key), if any.
func (m *Memory) Get(_ context.Context, userID uuid.UUID, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.records[memoryKey(userID, key)]
	if !ok {
		return nil, false, nil
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return buf, true, nil
}

// CreateUser inserts a new user and returns its ID.
func (m *Memory) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	u := &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.users[u.ID] = u
	return u.ID, nil
}

// GetUser retrieves a user by ID. Returns nil without error when absent.
func (m *Memory) GetUser(_ context.Context, userID uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// GetUserByEmail retrieves a user by email. Returns nil without error when
// absent.
func (m *Memory) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// CheckEmailExists reports whether a user with the given email exists.
func (m *Memory) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

// UpdatePassword sets a user's password hash and marks the password as set.
func (m *Memory) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	u.UpdatedAt = time.Now().UTC()
	return nil
}
