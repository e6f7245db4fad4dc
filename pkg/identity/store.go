package identity

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUserNotFound is returned when no record matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// Store answers passwd lookups for a requesting host.
type Store interface {
	// GetByUID returns the record for uid as seen from hostname.
	GetByUID(hostname string, uid uint32) (*Passwd, error)

	// GetByName returns the record for the login name as seen from hostname.
	GetByName(hostname, name string) (*Passwd, error)

	// Count returns the number of records held.
	Count() int
}

// Record is a Passwd entry as written in a records file, optionally scoped
// to a set of hosts.
type Record struct {
	Passwd `yaml:",inline"`

	// Hosts restricts the record to these hostnames. Empty means every host.
	Hosts []string `yaml:"hosts,omitempty"`
}

// visibleFrom reports whether the record applies to hostname.
func (r *Record) visibleFrom(hostname string) bool {
	return len(r.Hosts) == 0 || slices.Contains(r.Hosts, hostname)
}

// recordsFile is the on-disk layout of a records file.
type recordsFile struct {
	Users []Record `yaml:"users"`
}

// MemoryStore is an in-memory Store. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates a store holding records, in order.
func NewMemoryStore(records []Record) (*MemoryStore, error) {
	s := &MemoryStore{}
	for _, r := range records {
		if err := s.Add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadFile reads a YAML records file:
//
//	users:
//	  - name: alice
//	    passwd: x
//	    uid: 1001
//	    gid: 1001
//	    gecos: Alice
//	    dir: /home/alice
//	    shell: /bin/bash
//	    hosts: [web01]
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var file recordsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse records file %s: %w", path, err)
	}

	store, err := NewMemoryStore(file.Users)
	if err != nil {
		return nil, fmt.Errorf("invalid records file %s: %w", path, err)
	}
	return store, nil
}

// Add appends a record. Names must be non-empty.
func (s *MemoryStore) Add(r Record) error {
	if r.Name == "" {
		return fmt.Errorf("record with uid %d has no name", r.UID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

// GetByUID implements Store. The first matching record wins.
func (s *MemoryStore) GetByUID(hostname string, uid uint32) (*Passwd, error) {
	return s.find(hostname, func(r *Record) bool { return r.UID == uid })
}

// GetByName implements Store. The first matching record wins.
func (s *MemoryStore) GetByName(hostname, name string) (*Passwd, error) {
	return s.find(hostname, func(r *Record) bool { return r.Name == name })
}

// Count implements Store.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) find(hostname string, match func(*Record) bool) (*Passwd, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		r := &s.records[i]
		if match(r) && r.visibleFrom(hostname) {
			p := r.Passwd
			return &p, nil
		}
	}
	return nil, ErrUserNotFound
}
