package llm

import (
	"sort"

	"github.com/samber/lo"
)

// Registry maps a short model id to its handle. It is never mutated after
// NewRegistry returns, so concurrent Lookups need no locking.
type Registry struct {
	models map[string]Model
	names  []string
}

func NewRegistry(models map[string]Model) *Registry {
	cp := make(map[string]Model, len(models))
	for k, v := range models {
		cp[k] = v
	}
	names := lo.Keys(cp)
	sort.Strings(names)
	return &Registry{
		models: cp,
		names:  names,
	}
}

func (r *Registry) Lookup(name string) (Model, bool) {
	if name == "" {
		return nil, false
	}
	m, ok := r.models[name]
	return m, ok
}

// Names returns the registered ids in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Len() int {
	return len(r.models)
}
