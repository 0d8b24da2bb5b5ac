// Package oauth normalizes federated identity payloads into the canonical
// shape the auth service works with. The OAuth2 handshake itself happens
// upstream; this package only receives the provider's user-info attribute
// bag and maps provider-specific keys onto Identity.
package oauth

import "errors"

// ErrUnsupportedProvider is returned when no normalizer is registered for
// the provider tag.
var ErrUnsupportedProvider = errors.New("not supported oauth provider")

// ErrMissingConsent is returned when a provider payload carries no email.
// Email is the account key, so a login cannot proceed without it; callers
// should revoke the just-granted provider token before surfacing this.
var ErrMissingConsent = errors.New("required consent missing: email")

// Identity is the provider-agnostic result of normalization. It is never
// persisted directly, only used to upsert an account.
type Identity struct {
	Email       string
	DisplayName string
	Provider    string
}

// Normalizer maps one provider's attribute bag to an Identity.
type Normalizer interface {
	// Provider returns the tag this normalizer handles (e.g. "google").
	Provider() string

	// Normalize extracts the canonical identity from the provider's
	// user-info attributes.
	Normalize(attrs map[string]any) (Identity, error)
}

// Registry dispatches normalization by provider tag. Adding a provider
// means registering one more Normalizer, never touching the dispatch.
type Registry struct {
	normalizers map[string]Normalizer
}

// NewRegistry registers the given normalizers by provider tag.
func NewRegistry(list ...Normalizer) *Registry {
	m := make(map[string]Normalizer, len(list))
	for _, n := range list {
		m[n.Provider()] = n
	}
	return &Registry{normalizers: m}
}

// DefaultRegistry returns a registry with every built-in provider.
func DefaultRegistry() *Registry {
	return NewRegistry(Google{}, Kakao{})
}

// Normalize dispatches to the registered normalizer for the tag and
// enforces that the resulting identity has an email.
func (r *Registry) Normalize(provider string, attrs map[string]any) (Identity, error) {
	n, ok := r.normalizers[provider]
	if !ok {
		return Identity{}, ErrUnsupportedProvider
	}
	id, err := n.Normalize(attrs)
	if err != nil {
		return Identity{}, err
	}
	if id.Email == "" {
		return Identity{}, ErrMissingConsent
	}
	return id, nil
}

func stringAttr(attrs map[string]any, key string) string {
	v, _ := attrs[key].(string)
	return v
}

func mapAttr(attrs map[string]any, key string) map[string]any {
	v, _ := attrs[key].(map[string]any)
	return v
}
