package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agenthands/ragsearch/internal/core/model"
)

// ErrUnknownProvider is returned by the registry when its fallback provider
// is not registered.
var ErrUnknownProvider = errors.New("unsupported search provider")

// Params are the provider query parameters. Locale is only sent when set.
type Params struct {
	Query  string
	Num    int
	Locale string
}

// Provider returns raw hits for a query, each with a fresh UUID.
type Provider interface {
	Search(ctx context.Context, params Params) ([]model.SearchResult, error)
}

// Registry resolves a provider by the name carried in the request.
type Registry struct {
	providers map[string]Provider
	fallback  string
}

func NewRegistry(fallback string) *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		fallback:  strings.ToLower(fallback),
	}
}

func (r *Registry) Register(name string, p Provider) {
	r.providers[strings.ToLower(name)] = p
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Get returns the provider for name. Empty and unregistered names select the
// fallback, so the request field never fails a search on its own.
func (r *Registry) Get(name string) (Provider, error) {
	if p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p, nil
	}
	p, ok := r.providers[r.fallback]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, r.fallback)
	}
	return p, nil
}
