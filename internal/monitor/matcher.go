package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

const (
	defaultMatchTimeout = 2 * time.Second
	maxCachedPatterns   = 1024
)

// Matcher searches page content for an indicator pattern. Patterns use
// .NET/Perl-style syntax (lookarounds included) and "." also matches newlines,
// so an indicator may span markup line breaks. Compiled patterns are cached.
type Matcher struct {
	mu           sync.RWMutex
	cache        map[string]*regexp2.Regexp
	matchTimeout time.Duration
}

// NewMatcher creates a matcher whose searches give up after matchTimeout.
// A non-positive timeout selects the default.
func NewMatcher(matchTimeout time.Duration) *Matcher {
	if matchTimeout <= 0 {
		matchTimeout = defaultMatchTimeout
	}
	return &Matcher{
		cache:        make(map[string]*regexp2.Regexp),
		matchTimeout: matchTimeout,
	}
}

// Matches reports whether pattern occurs anywhere in content.
func (m *Matcher) Matches(content []byte, pattern string) (bool, error) {
	re, err := m.compile(pattern)
	if err != nil {
		return false, err
	}

	matched, err := re.MatchString(string(content))
	if err != nil {
		return false, fmt.Errorf("matching pattern %q: %w", pattern, err)
	}
	return matched, nil
}

func (m *Matcher) compile(pattern string) (*regexp2.Regexp, error) {
	m.mu.RLock()
	re, ok := m.cache[pattern]
	m.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp2.Compile(pattern, regexp2.Singleline)
	if err != nil {
		return nil, fmt.Errorf("invalid indicator pattern %q: %w", pattern, err)
	}
	re.MatchTimeout = m.matchTimeout

	m.mu.Lock()
	if len(m.cache) >= maxCachedPatterns {
		m.cache = make(map[string]*regexp2.Regexp)
	}
	m.cache[pattern] = re
	m.mu.Unlock()

	return re, nil
}

// EscapePattern turns literal indicator text into a pattern that matches it verbatim.
func EscapePattern(literal string) string {
	return regexp2.Escape(literal)
}
