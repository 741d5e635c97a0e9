package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/common-repository/notch-pay-for-give/internal/pkg/httpclient"
)

const defaultBaseURL = "https://api.notchpay.co"

// NotchPay implements the Gateway interface against the Notch Pay REST
// API. The public key is the Authorization header value; which key
// (test or live) is selected by configuration, not here.
type NotchPay struct {
	baseURL   string
	publicKey string
	client    *httpclient.Client
}

func NewNotchPay(baseURL, publicKey string) *NotchPay {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &NotchPay{
		baseURL:   baseURL,
		publicKey: publicKey,
		client: httpclient.New().
			WithTimeout(60 * time.Second).
			WithAuthorization(publicKey),
	}
}

func (n *NotchPay) Name() string {
	return "notchpay"
}

// Initialize POSTs the checkout payload. Notch Pay signals success with
// 201 Created and an authorization_url in the body.
func (n *NotchPay) Initialize(ctx context.Context, req InitializeRequest) (string, error) {
	resp, err := n.client.Post(ctx, n.baseURL+"/payments/initialize", req)
	if err != nil {
		return "", fmt.Errorf("%w: initialize: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: initialize returned %d: %s",
			ErrRejected, resp.StatusCode, resp.Body)
	}

	var body struct {
		AuthorizationURL string `json:"authorization_url"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("%w: initialize: %v", ErrProtocol, err)
	}
	if body.AuthorizationURL == "" {
		return "", fmt.Errorf("%w: initialize response has no authorization_url", ErrProtocol)
	}

	return body.AuthorizationURL, nil
}

// FetchTransaction GETs the transaction record by gateway reference.
func (n *NotchPay) FetchTransaction(ctx context.Context, reference string) (*Transaction, error) {
	resp, err := n.client.Get(ctx, n.baseURL+"/payments/"+reference)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch transaction: %v", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: fetch transaction returned %d: %s",
			ErrRejected, resp.StatusCode, resp.Body)
	}

	var body struct {
		Transaction *struct {
			Reference string `json:"reference"`
			Status    string `json:"status"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: fetch transaction: %v", ErrProtocol, err)
	}
	if body.Transaction == nil || body.Transaction.Status == "" {
		return nil, fmt.Errorf("%w: response carries no transaction", ErrProtocol)
	}

	trxRef := body.Transaction.Reference
	if trxRef == "" {
		trxRef = reference
	}

	return &Transaction{
		Reference: trxRef,
		Status:    body.Transaction.Status,
		Raw:       resp.Body,
	}, nil
}
