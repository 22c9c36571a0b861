package client

import (
	"net/http"
	"sync"
)

// Headers is the client's header store. Every request issued by the
// client carries a snapshot of it taken just before sending.
type Headers struct {
	mu sync.RWMutex
	h  http.Header
}

// NewHeaders returns an empty store.
func NewHeaders() *Headers {
	return &Headers{h: make(http.Header)}
}

// Set replaces any existing values for key.
func (hs *Headers) Set(key, value string) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.h.Set(key, value)
}

// Add appends value to key.
func (hs *Headers) Add(key, value string) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.h.Add(key, value)
}

func (hs *Headers) Get(key string) string {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.h.Get(key)
}

// Values returns a copy of all values for key.
func (hs *Headers) Values(key string) []string {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return append([]string(nil), hs.h.Values(key)...)
}

func (hs *Headers) Del(key string) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.h.Del(key)
}

// Reset removes every header.
func (hs *Headers) Reset() {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.h = make(http.Header)
}

// Len reports the number of distinct header keys.
func (hs *Headers) Len() int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return len(hs.h)
}

// Clone returns a deep copy of the stored headers.
func (hs *Headers) Clone() http.Header {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.h.Clone()
}

// applyTo overwrites dst's values for every stored key.
func (hs *Headers) applyTo(dst http.Header) {
	hs.mu.RLock()
	defer hs.mu.RUnlock()

	for k, vs := range hs.h {
		dst[k] = append([]string(nil), vs...)
	}
}
