package gateway

import "context"

// InitializeRequest carries the fields sent to the gateway when a
// checkout session is created. Reference must equal the local payment's
// purchase key; it is the correlation key for the whole flow.
type InitializeRequest struct {
	Email     string  `json:"email"`
	Name      string  `json:"name,omitempty"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
	Callback  string  `json:"callback"`
	Currency  string  `json:"currency"`
}

// Transaction is the gateway-side view of a payment.
type Transaction struct {
	Reference string
	Status    string
	Raw       []byte
}

// Gateway is implemented by payment gateway integrations.
type Gateway interface {
	// Name returns the gateway identifier.
	Name() string

	// Initialize creates a hosted checkout session and returns the
	// authorization URL the donor is redirected to.
	Initialize(ctx context.Context, req InitializeRequest) (string, error)

	// FetchTransaction retrieves the transaction for a gateway reference.
	FetchTransaction(ctx context.Context, reference string) (*Transaction, error)
}
