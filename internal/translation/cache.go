package translation

import "sync"

// cacheKey identifies one translation request
type cacheKey struct {
	text      string
	tone      Tone
	direction Direction
}

// TranslationCache stores translations in memory for batch operations
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[cacheKey]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[cacheKey]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(text string, tone Tone, direction Direction, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[cacheKey{text, tone, direction}] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(text string, tone Tone, direction Direction) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[cacheKey{text, tone, direction}]
	return translation, ok
}

// Len returns the number of cached translations
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}
