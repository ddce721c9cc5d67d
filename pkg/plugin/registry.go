package plugin

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"sync"

	"wizard.dev/pluginsdk/pkg/element"
)

var (
	// ErrInvalidTag is returned for names that are not valid custom element names.
	ErrInvalidTag = errors.New("invalid element tag")
	// ErrDuplicateTag is returned when a tag is already defined.
	ErrDuplicateTag = errors.New("element tag already defined")
)

var tagPattern = regexp.MustCompile(`^[a-z][a-z0-9._]*(-[a-z0-9._]*)+$`)

var reservedTags = []string{
	"annotation-xml",
	"color-profile",
	"font-face",
	"font-face-src",
	"font-face-uri",
	"font-face-format",
	"font-face-name",
	"missing-glyph",
}

// ValidateTag reports whether tag can be used as a custom element name.
func ValidateTag(tag string) error {
	if !tagPattern.MatchString(tag) {
		return fmt.Errorf("%w %q: must start with a lowercase letter and contain a hyphen", ErrInvalidTag, tag)
	}
	if slices.Contains(reservedTags, tag) {
		return fmt.Errorf("%w %q: reserved name", ErrInvalidTag, tag)
	}
	return nil
}

// Registry maps tag names to element constructors. Entries live for the life of
// the process. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]element.Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]element.Constructor)}
}

// Define registers ctor under tag.
func (r *Registry) Define(tag string, ctor element.Constructor) error {
	if err := ValidateTag(tag); err != nil {
		return err
	}
	if ctor == nil {
		return fmt.Errorf("element constructor for %q cannot be nil", tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tag]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, tag)
	}
	r.entries[tag] = ctor
	return nil
}

// Lookup returns the constructor registered under tag.
func (r *Registry) Lookup(tag string) (element.Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.entries[tag]
	return ctor, ok
}

// Tags returns all defined tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.entries))
	for tag := range r.entries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
