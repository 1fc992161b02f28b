package model

import (
	"errors"
	"time"
)

var (
	// ErrNameExists is returned when saving under a name that is already taken.
	ErrNameExists = errors.New("name already exists")
	// ErrNotFound is returned when a named entry does not exist.
	ErrNotFound = errors.New("not found")
)

// Named is an entry in a Library: a value saved under a unique name.
type Named[T any] struct {
	Name    string `json:"name"`
	SavedAt string `json:"saved_at"`
	Value   T      `json:"value"`
}

// Library is an insertion-ordered collection of uniquely named values.
// Saved rooms use Library[Layout]; saved cabinets use Library[CabinetTemplate].
type Library[T any] struct {
	Entries []Named[T] `json:"entries"`
}

// NewLibrary returns an empty library that encodes entries as [] rather than null.
func NewLibrary[T any]() Library[T] {
	return Library[T]{Entries: []Named[T]{}}
}

// Add saves value under name. Existing names are never overwritten.
func (l *Library[T]) Add(name string, value T) error {
	if l.index(name) >= 0 {
		return ErrNameExists
	}
	l.Entries = append(l.Entries, Named[T]{
		Name:    name,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Value:   value,
	})
	return nil
}

// Remove deletes the entry with the given name. Returns true if it was found.
func (l *Library[T]) Remove(name string) bool {
	i := l.index(name)
	if i < 0 {
		return false
	}
	l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
	return true
}

// Find returns the value saved under name.
func (l Library[T]) Find(name string) (T, error) {
	i := l.index(name)
	if i < 0 {
		var zero T
		return zero, ErrNotFound
	}
	return l.Entries[i].Value, nil
}

// Names returns all entry names in insertion order.
func (l Library[T]) Names() []string {
	names := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		names[i] = e.Name
	}
	return names
}

func (l Library[T]) index(name string) int {
	for i, e := range l.Entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}
