// Package interner deduplicates identifiers and short strings, handing
// out cheap comparable handles in their place. No other package of this
// module uses it: the lexer, parser and evaluator carry identifiers as
// plain ast.Identifier strings.
package interner

import "sync"

// ID is a handle to an interned string. Equality between two IDs from the
// same Table is equivalent to equality of the strings they represent.
type ID uint32

// Table interns strings, returning the same ID for equal strings.
//
// A Table is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	byText  map[string]ID
	byID    []string
}

// NewTable returns an empty interning table.
func NewTable() *Table {
	return &Table{byText: make(map[string]ID)}
}

// Intern returns the ID for s, allocating a new one if s has not been seen
// before.
func (t *Table) Intern(s string) ID {
	t.mu.RLock()
	if id, ok := t.byText[s]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byText[s]; ok {
		return id
	}
	id := ID(len(t.byID))
	t.byID = append(t.byID, s)
	t.byText[s] = id
	return id
}

// Lookup returns the string for id. It panics if id was not produced by
// this table, which indicates a programming error.
func (t *Table) Lookup(id ID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byID[id]
}

// Len reports how many distinct strings have been interned.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}
