package renderer

import "fmt"

// UniformCache maps uniform names to locations. Locations are resolved once
// in Create, so a name the program does not declare fails at setup instead
// of being silently skipped every frame.
type UniformCache struct {
	locations map[string]int32
	lookup    func(name string) int32
}

// NewUniformCache creates a cache resolving names with lookup, normally
// gl.GetUniformLocation bound to one program.
func NewUniformCache(lookup func(name string) int32) *UniformCache {
	return &UniformCache{
		locations: make(map[string]int32),
		lookup:    lookup,
	}
}

// Create resolves and stores the location of name.
func (uc *UniformCache) Create(name string) error {
	if _, exists := uc.locations[name]; exists {
		return nil
	}
	loc := uc.lookup(name)
	if loc < 0 {
		return fmt.Errorf("could not find uniform %q", name)
	}
	uc.locations[name] = loc
	return nil
}

// Location returns the stored location of a created uniform.
func (uc *UniformCache) Location(name string) (int32, bool) {
	loc, ok := uc.locations[name]
	return loc, ok
}

// Clear clears the cache (call when shader program changes)
func (uc *UniformCache) Clear() {
	uc.locations = make(map[string]int32)
}
