package payment

import (
	"fmt"
	"strings"

	"swiftcart/internal/config"
)

// Processor identifiers. Methods backed by the hosted gateway go through
// intention creation; manual methods (cash on delivery) skip it.
const (
	ProcessorGateway = "gateway"
	ProcessorManual  = "manual"
)

// Method is one entry of the payment-method registry.
type Method struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Processor   string `json:"processor"`
	Icon        string `json:"icon"`
}

// Registry maps payment-method ids to their processor and display
// metadata. It is built once from configuration at startup and passed
// explicitly to the checkout service.
type Registry struct {
	methods []Method
	index   map[string]Method
}

// display metadata for well-known method ids; unknown ids fall back to a
// titleized form of the id.
var knownMethods = map[string]Method{
	"credit_card": {
		Name:        "Credit Card",
		Description: "Pay with Visa, Mastercard, American Express, or Discover",
		Icon:        "credit-card",
	},
	"mobile_wallet": {
		Name:        "Mobile Wallet",
		Description: "Pay with your mobile wallet",
		Icon:        "wallet",
	},
	"cash_on_delivery": {
		Name:        "Cash on Delivery",
		Description: "Pay when you receive your order",
		Icon:        "money-bill",
	},
}

// NewRegistry builds a registry from parsed configuration entries.
func NewRegistry(specs []config.MethodSpec) (*Registry, error) {
	r := &Registry{index: make(map[string]Method, len(specs))}

	for _, spec := range specs {
		if spec.Processor != ProcessorGateway && spec.Processor != ProcessorManual {
			return nil, fmt.Errorf("unsupported payment processor %q for method %q", spec.Processor, spec.ID)
		}
		if _, dup := r.index[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate payment method %q", spec.ID)
		}

		method := Method{ID: spec.ID, Processor: spec.Processor}
		if meta, ok := knownMethods[spec.ID]; ok {
			method.Name = meta.Name
			method.Description = meta.Description
			method.Icon = meta.Icon
		} else {
			method.Name = titleize(spec.ID)
		}

		r.methods = append(r.methods, method)
		r.index[spec.ID] = method
	}

	if len(r.methods) == 0 {
		return nil, fmt.Errorf("payment method registry is empty")
	}

	return r, nil
}

// List returns all registered methods in configuration order.
func (r *Registry) List() []Method {
	out := make([]Method, len(r.methods))
	copy(out, r.methods)
	return out
}

// Get looks up a method by id.
func (r *Registry) Get(id string) (Method, bool) {
	m, ok := r.index[id]
	return m, ok
}

func titleize(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
