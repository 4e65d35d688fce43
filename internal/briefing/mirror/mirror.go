// Package mirror is the local write-through copy of a client's record. Writes
// and reads are best-effort: failures are logged and swallowed so they never
// interrupt editing, and unreadable content reads as absent.
package mirror

import (
	"sync"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

// KeyPrefix is prepended to the identity key of every mirrored record
const KeyPrefix = "backup_"

// Mirror stores one record per identity key
type Mirror interface {
	Write(identityKey string, rec domain.ClientRecord)
	Read(identityKey string) (domain.ClientRecord, bool)
}

// StorageKey returns the key a record is mirrored under
func StorageKey(identityKey string) string {
	return KeyPrefix + identityKey
}

// Memory is an in-process Mirror
type Memory struct {
	mu   sync.Mutex
	data map[string]domain.ClientRecord
}

func NewMemory() *Memory {
	return &Memory{data: map[string]domain.ClientRecord{}}
}

func (m *Memory) Write(identityKey string, rec domain.ClientRecord) {
	m.mu.Lock()
	m.data[StorageKey(identityKey)] = rec.Clone()
	m.mu.Unlock()
}

func (m *Memory) Read(identityKey string) (domain.ClientRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.data[StorageKey(identityKey)]
	if !ok {
		return domain.ClientRecord{}, false
	}
	return rec.Clone(), true
}
