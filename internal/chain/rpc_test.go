package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentEpoch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "suix_getLatestSuiSystemState", req.Method)

		_ = json.NewEncoder(w).Encode(&RPCResponse{
			JSONRPC: "2.0",
			Result:  json.RawMessage(`{"epoch": "412"}`),
			ID:      req.ID,
		})
	}))
	defer server.Close()

	epoch, err := NewRPCClient(server.URL).CurrentEpoch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(412), epoch)
}

func TestCurrentEpochRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(&RPCResponse{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: -32601, Message: "method not found"},
			ID:      1,
		})
	}))
	defer server.Close()

	_, err := NewRPCClient(server.URL).CurrentEpoch(context.Background())
	assert.Error(t, err)
}

func TestCurrentEpochMalformedEpoch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(&RPCResponse{
			JSONRPC: "2.0",
			Result:  json.RawMessage(`{"epoch": "not-a-number"}`),
			ID:      1,
		})
	}))
	defer server.Close()

	_, err := NewRPCClient(server.URL).CurrentEpoch(context.Background())
	assert.Error(t, err)
}
