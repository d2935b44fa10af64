package ai

// Registry holds all configured answer providers
type Registry struct {
	providers []Provider
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: []Provider{},
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(provider Provider) {
	r.providers = append(r.providers, provider)
}

// GetAll returns all registered providers
func (r *Registry) GetAll() []Provider {
	return r.providers
}

// Filter returns the providers whose names appear in the given set.
// An empty set selects all registered providers.
func (r *Registry) Filter(names []string) []Provider {
	if len(names) == 0 {
		return r.providers
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []Provider
	for _, p := range r.providers {
		if wanted[p.Name()] {
			out = append(out, p)
		}
	}
	return out
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	return len(r.providers)
}
