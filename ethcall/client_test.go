package ethcall

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testContract = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type rpcRequest struct {
	Jsonrpc string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

func TestCallRequestEnvelope(t *testing.T) {
	var captured rpcRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0xabcd"}`))
	}))
	defer server.Close()

	client, err := New(server.URL, testLogger())
	require.NoError(t, err)
	defer client.Close()

	result, err := client.Call(context.Background(), testContract, []byte{0x06, 0x2e, 0x22, 0x52})
	require.NoError(t, err)
	assert.Equal(t, "0xabcd", result)

	assert.Equal(t, "2.0", captured.Jsonrpc)
	assert.Equal(t, "eth_call", captured.Method)
	assert.JSONEq(t, "1", string(captured.ID), "a fresh client must use request id 1")
	require.Len(t, captured.Params, 2)
	assert.JSONEq(t,
		`{"to":"0x00000000000000000000000000000000000000aa","data":"0x062e2252"}`,
		string(captured.Params[0]))
	assert.JSONEq(t, `"latest"`, string(captured.Params[1]))
}

func TestCallFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "rpc error member",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"execution reverted"}}`))
			},
		},
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			},
		},
		{
			name: "unparsable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json at all`))
			},
		},
		{
			name: "missing result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"jsonrpc":"2.0","id":1}`))
			},
		},
		{
			name: "non-string result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"nested":true}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client, err := New(server.URL, testLogger())
			require.NoError(t, err)
			defer client.Close()

			_, err = client.Call(context.Background(), testContract, []byte{0x06, 0x2e, 0x22, 0x52})
			require.Error(t, err)
		})
	}
}

func TestCallResponseSizeCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x`))
		w.Write(bytes.Repeat([]byte("ab"), maxResponseSize))
		w.Write([]byte(`"}`))
	}))
	defer server.Close()

	client, err := New(server.URL, testLogger())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Call(context.Background(), testContract, []byte{0x06, 0x2e, 0x22, 0x52})
	require.Error(t, err)
	assert.ErrorContains(t, err, "exceeds size limit")
}

func TestCallTransportFailure(t *testing.T) {
	// Reserve a port and close the listener so nothing is accepting.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(url, testLogger())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Call(context.Background(), testContract, []byte{0x06, 0x2e, 0x22, 0x52})
	require.Error(t, err)
}
