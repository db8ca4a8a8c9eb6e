package provider

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Constructor builds one adapter from its environment-scoped credentials.
type Constructor func(env Environment, creds Credentials, deps Deps) (Adapter, error)

// Registry holds the successfully-initialized adapters, keyed by provider
// type. It is built once at startup and read-only afterwards, so lookups
// need no synchronization.
type Registry struct {
	adapters map[Type]Adapter
}

// BuildRegistry instantiates an adapter for every configured provider.
// A provider whose constructor fails (or that has no constructor at all)
// is logged and left out; registry construction itself never fails, and
// requests naming an omitted provider are rejected by validation instead.
func BuildRegistry(env Environment, configs map[Type]Credentials, constructors map[Type]Constructor, deps Deps) *Registry {
	registry := &Registry{adapters: make(map[Type]Adapter)}

	for providerType, creds := range configs {
		construct, ok := constructors[providerType]
		if !ok {
			log.Error().
				Str("provider", string(providerType)).
				Msg("no constructor for configured provider, skipping")
			continue
		}

		adapter, err := construct(env, creds, deps)
		if err != nil {
			log.Error().
				Str("provider", string(providerType)).
				Err(err).
				Msg("failed to initialize provider, skipping")
			continue
		}

		registry.adapters[providerType] = adapter
		log.Info().
			Str("provider", string(providerType)).
			Str("name", adapter.Name()).
			Strs("operations", operationsToStrings(adapter.SupportedOperations())).
			Msg("registered payment provider")
	}

	return registry
}

// Get returns the adapter for a provider type.
func (r *Registry) Get(providerType Type) (Adapter, bool) {
	adapter, ok := r.adapters[providerType]
	return adapter, ok
}

// MustGet returns the adapter or an error; used where presence has already
// been established by validation.
func (r *Registry) MustGet(providerType Type) (Adapter, error) {
	adapter, ok := r.adapters[providerType]
	if !ok {
		return nil, &Error{
			Code:    "provider_not_found",
			Message: fmt.Sprintf("provider %s not registered", providerType),
		}
	}
	return adapter, nil
}

// Types returns all registered provider types; the request validator derives
// its known-provider set from this.
func (r *Registry) Types() []Type {
	types := make([]Type, 0, len(r.adapters))
	for t := range r.adapters {
		types = append(types, t)
	}
	return types
}

func operationsToStrings(ops []Operation) []string {
	strs := make([]string, 0, len(ops))
	for _, op := range ops {
		strs = append(strs, string(op))
	}
	return strs
}
