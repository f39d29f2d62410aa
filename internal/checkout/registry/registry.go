package registry

import (
	"strings"
	"sync"

	"github.com/openmerchant/paygate/internal/checkout/domain"
)

// Registry holds the payment gateways available to checkout. Gateways
// register during startup, after their own dependencies are built, and
// lookups at request time are read-only.
type Registry struct {
	mu       sync.RWMutex
	gateways map[string]domain.PaymentGateway
}

func New() *Registry {
	return &Registry{gateways: map[string]domain.PaymentGateway{}}
}

func (r *Registry) Register(gateway domain.PaymentGateway) error {
	if gateway == nil {
		return domain.ErrGatewayNotFound
	}
	id := strings.ToLower(strings.TrimSpace(gateway.ID()))
	if id == "" {
		return domain.ErrGatewayNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.gateways[id]; ok {
		return domain.ErrDuplicateID
	}
	r.gateways[id] = gateway
	return nil
}

func (r *Registry) Resolve(id string) (domain.PaymentGateway, error) {
	id = strings.ToLower(strings.TrimSpace(id))

	r.mu.RLock()
	defer r.mu.RUnlock()
	gateway, ok := r.gateways[id]
	if !ok {
		return nil, domain.ErrGatewayNotFound
	}
	return gateway, nil
}

func (r *Registry) All() []domain.PaymentGateway {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PaymentGateway, 0, len(r.gateways))
	for _, gateway := range r.gateways {
		out = append(out, gateway)
	}
	return out
}
