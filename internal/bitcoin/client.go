package bitcoin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/logger"
)

// Unspent is one spendable output reported by the node
type Unspent struct {
	TxHash        string
	Vout          uint32
	Amount        int64 // satoshi
	Address       string
	ScriptPubKey  string
	Confirmations int
}

// Client defines the interface to the Bitcoin node to enable mocking
//
//go:generate mockgen -source=client.go -destination=../mocks/bitcoin.go -package=mocks -mock_names=Client=MockBitcoinClient
type Client interface {
	// PushTransaction broadcasts a signed raw transaction and returns its
	// network hash
	PushTransaction(ctx context.Context, rawHex string) (string, error)

	// GetConfirmations returns the confirmation count for a transaction,
	// zero while it sits in the mempool. ErrTxNotFound when the node has
	// never seen the hash.
	GetConfirmations(ctx context.Context, txHash string) (int, error)

	// ImportAddress registers an address for wallet tracking so the node
	// reports its unspents
	ImportAddress(ctx context.Context, address string) error

	// ListUnspent lists spendable outputs held by an address
	ListUnspent(ctx context.Context, address string) ([]Unspent, error)
}

// ErrTxNotFound is returned when the node does not know a transaction hash
var ErrTxNotFound = fmt.Errorf("transaction not found")

// rpcErrNoTxInfo is bitcoind's error code for an unknown transaction
const rpcErrNoTxInfo = -5

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// NodeClient implements Client against a bitcoind JSON-RPC endpoint
type NodeClient struct {
	endpoint string
	username string
	password string
	client   *http.Client
}

// NewNodeClient creates a new node client
func NewNodeClient(endpoint, username, password string, timeout time.Duration) *NodeClient {
	return &NodeClient{
		endpoint: endpoint,
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
	}
}

// call performs one JSON-RPC request with exponential backoff for transport
// errors. RPC-level errors are permanent; the node gave a definitive answer.
func (c *NodeClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "1.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode rpc request: %w", err)
	}

	var raw json.RawMessage

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(c.username, c.password)

		resp, err := c.client.Do(req)
		if err != nil {
			// Network errors are retryable
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", zap.Error(err), zap.String("method", method))
			}
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
			logger.Warn("node busy, retrying with backoff", zap.String("method", method), zap.Int("status", resp.StatusCode))
			return fmt.Errorf("node unavailable (%d)", resp.StatusCode)
		}

		var decoded rpcResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body)))
		}
		if decoded.Error != nil {
			if decoded.Error.Code == rpcErrNoTxInfo {
				return backoff.Permanent(ErrTxNotFound)
			}
			return backoff.Permanent(fmt.Errorf("rpc %s: %s (%d)", method, decoded.Error.Message, decoded.Error.Code))
		}

		raw = decoded.Result
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 1 * time.Minute
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode rpc result: %w", err)
		}
	}
	return nil
}

// PushTransaction broadcasts a signed raw transaction
func (c *NodeClient) PushTransaction(ctx context.Context, rawHex string) (string, error) {
	var txHash string
	if err := c.call(ctx, "sendrawtransaction", []interface{}{rawHex}, &txHash); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrBroadcastFailed, err)
	}
	return txHash, nil
}

// GetConfirmations returns the confirmation count for a transaction
func (c *NodeClient) GetConfirmations(ctx context.Context, txHash string) (int, error) {
	var result struct {
		Confirmations int `json:"confirmations"`
	}
	if err := c.call(ctx, "getrawtransaction", []interface{}{txHash, true}, &result); err != nil {
		return 0, err
	}
	return result.Confirmations, nil
}

// ImportAddress registers an address for wallet tracking. rescan=false:
// the engine only cares about outputs created after import.
func (c *NodeClient) ImportAddress(ctx context.Context, address string) error {
	return c.call(ctx, "importaddress", []interface{}{address, "", false}, nil)
}

// ListUnspent lists spendable outputs held by an address
func (c *NodeClient) ListUnspent(ctx context.Context, address string) ([]Unspent, error) {
	var result []struct {
		TxID          string  `json:"txid"`
		Vout          uint32  `json:"vout"`
		Address       string  `json:"address"`
		ScriptPubKey  string  `json:"scriptPubKey"`
		Amount        float64 `json:"amount"` // BTC
		Confirmations int     `json:"confirmations"`
	}
	if err := c.call(ctx, "listunspent", []interface{}{0, 9999999, []string{address}}, &result); err != nil {
		return nil, err
	}

	unspents := make([]Unspent, 0, len(result))
	for _, u := range result {
		unspents = append(unspents, Unspent{
			TxHash:        u.TxID,
			Vout:          u.Vout,
			Amount:        btcToSatoshi(u.Amount),
			Address:       u.Address,
			ScriptPubKey:  u.ScriptPubKey,
			Confirmations: u.Confirmations,
		})
	}
	return unspents, nil
}

// btcToSatoshi converts the node's BTC float amounts, rounding to the
// nearest satoshi to absorb float representation error
func btcToSatoshi(btc float64) int64 {
	return int64(btc*1e8 + 0.5)
}
