// Package ethcall issues the launcher's single read-only contract call. It
// wraps a go-ethereum RPC client with the transport bounds the enclave boot
// path needs: a connect timeout, a total-duration timeout, and a hard response
// size cap so a hostile or buggy endpoint can neither stall boot nor exhaust
// memory. Oversized responses abort the call rather than truncate, since a
// truncated payload could be silently misinterpreted downstream.
package ethcall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethhexutil "github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrResponseTooLarge is returned when the RPC response body exceeds the
// response size cap.
var ErrResponseTooLarge = errors.New("rpc response exceeds size limit")

const (
	connectTimeout  = 10 * time.Second
	totalTimeout    = 30 * time.Second
	maxResponseSize = 1 << 20 // 1 MiB
)

// Client performs eth_call requests against a single JSON-RPC endpoint.
type Client struct {
	rpc *rpc.Client
	log *slog.Logger
}

// New creates a client for the given JSON-RPC endpoint. The underlying HTTP
// client applies the connect timeout, total timeout, and response size cap.
func New(rpcURL string, log *slog.Logger) (*Client, error) {
	httpClient := &http.Client{
		Timeout: totalTimeout,
		Transport: &cappedTransport{
			inner: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: connectTimeout}).DialContext,
				TLSHandshakeTimeout: connectTimeout,
			},
			max: maxResponseSize,
		},
	}

	rpcClient, err := rpc.DialOptions(context.Background(), rpcURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("dialing rpc endpoint: %w", err)
	}

	return &Client{rpc: rpcClient, log: log}, nil
}

// Close releases the underlying RPC client.
func (c *Client) Close() {
	c.rpc.Close()
}

type callArgs struct {
	To   common.Address    `json:"to"`
	Data gethhexutil.Bytes `json:"data"`
}

// Call performs a single eth_call against the contract at the given address
// and returns the raw hex-encoded result string. Any transport failure,
// RPC-level error, or missing/non-string result surfaces as an error.
func (c *Client) Call(ctx context.Context, to common.Address, calldata []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, totalTimeout)
	defer cancel()

	start := time.Now()
	var result string
	err := c.rpc.CallContext(ctx, &result, "eth_call", callArgs{To: to, Data: calldata}, "latest")
	if err != nil {
		return "", fmt.Errorf("eth_call to %s failed: %w", to.Hex(), err)
	}

	c.log.Debug("eth_call succeeded",
		slog.String("contract", to.Hex()),
		slog.Int("result_len", len(result)),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// cappedTransport rejects responses whose body exceeds max bytes.
type cappedTransport struct {
	inner http.RoundTripper
	max   int64
}

func (t *cappedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.ContentLength > t.max {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: content length %d", ErrResponseTooLarge, resp.ContentLength)
	}
	resp.Body = &cappedReader{inner: resp.Body, remaining: t.max}
	return resp, nil
}

type cappedReader struct {
	inner     io.ReadCloser
	remaining int64
}

func (r *cappedReader) Read(p []byte) (int, error) {
	if r.remaining == 0 {
		// Probe one byte to distinguish a body ending exactly at the cap
		// from one exceeding it.
		var probe [1]byte
		n, err := r.inner.Read(probe[:])
		if n > 0 {
			return 0, ErrResponseTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.inner.Read(p)
	r.remaining -= int64(n)
	return n, err
}

func (r *cappedReader) Close() error {
	return r.inner.Close()
}
