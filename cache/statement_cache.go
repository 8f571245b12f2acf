package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultStatementCacheSize is used when a non-positive size is given.
const DefaultStatementCacheSize = 1024

// Template is finished command text plus the parameter names in
// placeholder order. Values are bound again on every use.
type Template struct {
	SQL   string
	Names []string
}

// StatementCache keeps two kinds of command text. Heads are the metadata
// part before WHERE, keyed by dialect fingerprint, statement kind, table,
// hints and columns. Templates are whole statements, keyed by a head key
// mixed with the predicate shape and ordering. Parameter values are never
// part of a key and are never cached.
type StatementCache struct {
	cache     *lru.Cache[uint64, string]
	templates *lru.Cache[uint64, Template]
}

func NewStatementCache(size int) *StatementCache {
	if size <= 0 {
		size = DefaultStatementCacheSize
	}
	c, _ := lru.New[uint64, string](size)
	t, _ := lru.New[uint64, Template](size)
	return &StatementCache{cache: c, templates: t}
}

func (s *StatementCache) Get(key uint64) (string, bool) {
	return s.cache.Get(key)
}

func (s *StatementCache) Set(key uint64, text string) {
	s.cache.Add(key, text)
}

// GetOrBuild returns the cached text for key or builds and caches it.
// Build errors are returned and nothing is cached.
func (s *StatementCache) GetOrBuild(key uint64, build func() (string, error)) (string, error) {
	if text, ok := s.cache.Get(key); ok {
		return text, nil
	}
	text, err := build()
	if err != nil {
		return "", err
	}
	s.cache.Add(key, text)
	return text, nil
}

func (s *StatementCache) Template(key uint64) (Template, bool) {
	return s.templates.Get(key)
}

func (s *StatementCache) SetTemplate(key uint64, t Template) {
	s.templates.Add(key, t)
}

// Len counts cached heads.
func (s *StatementCache) Len() int {
	return s.cache.Len()
}

func (s *StatementCache) Templates() int {
	return s.templates.Len()
}

// Flush drops every cached head and template.
func (s *StatementCache) Flush() {
	s.cache.Purge()
	s.templates.Purge()
}
