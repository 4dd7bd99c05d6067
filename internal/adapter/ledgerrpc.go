package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

// LedgerRPC defines an interface for read-only calls against the object
// ledger's fullnode. The return value is the raw binary payload of the
// inspected call, already base64-decoded.
//
//go:generate mockgen -source=ledgerrpc.go -destination=../mocks/ledger_rpc.go -package=mocks -mock_names=LedgerRPC=MockLedgerRPC
type LedgerRPC interface {
	Call(ctx context.Context, function string, args []string) ([]byte, error)
}

// RealLedgerRPC implements LedgerRPC over the fullnode's JSON-RPC inspect
// endpoint
type RealLedgerRPC struct {
	url    string
	http   HTTPClient
	base64 Base64
}

// NewLedgerRPC creates a new real object-ledger RPC adapter
func NewLedgerRPC(url string, http HTTPClient, base64 Base64) LedgerRPC {
	return &RealLedgerRPC{url: url, http: http, base64: base64}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result *struct {
		ReturnValue string `json:"return_value"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *RealLedgerRPC) Call(ctx context.Context, function string, args []string) ([]byte, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "ledger_inspectCall",
		Params:  []interface{}{function, args},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal RPC request: %w", err)
	}

	respBody, err := c.http.Post(ctx, c.url, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode RPC response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: RPC error %d: %s", domain.ErrUpstreamUnavailable, resp.Error.Code, resp.Error.Message)
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: empty RPC result", domain.ErrUpstreamUnavailable)
	}

	raw, err := c.base64.Decode(resp.Result.ReturnValue)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 return value: %s", domain.ErrMalformedPayload, err)
	}

	return raw, nil
}
