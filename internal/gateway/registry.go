package gateway

import "fmt"

// Registry holds the gateways available to the service, keyed by name.
// Populated once at startup; only one gateway is active per deployment.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry() *Registry {
	return &Registry{gateways: make(map[string]Gateway)}
}

// Register adds a gateway. Registering the same name twice is an error
// so wiring mistakes surface at startup.
func (r *Registry) Register(gw Gateway) error {
	name := gw.Name()
	if _, exists := r.gateways[name]; exists {
		return fmt.Errorf("gateway %q already registered", name)
	}
	r.gateways[name] = gw
	return nil
}

// Get returns the gateway registered under name.
func (r *Registry) Get(name string) (Gateway, error) {
	gw, ok := r.gateways[name]
	if !ok {
		return nil, fmt.Errorf("unknown gateway %q", name)
	}
	return gw, nil
}
