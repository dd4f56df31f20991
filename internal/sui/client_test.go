package sui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/sui-swap-bot/internal/apperror"
)

// rpcServer answers each JSON-RPC method with a canned result or error.
func rpcServer(t *testing.T, handlers map[string]func(params []json.RawMessage) (any, *rpcError)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64            `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h, ok := handlers[req.Method]
		if !ok {
			http.Error(w, "unknown method", http.StatusNotFound)
			return
		}
		result, rpcErr := h(req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetCoins(t *testing.T) {
	owner := MustParseAddress("0xa11ce")
	srv := rpcServer(t, map[string]func([]json.RawMessage) (any, *rpcError){
		"suix_getCoins": func(params []json.RawMessage) (any, *rpcError) {
			var gotOwner, gotType string
			_ = json.Unmarshal(params[0], &gotOwner)
			_ = json.Unmarshal(params[1], &gotType)
			if gotOwner != owner.String() || gotType != "0x2::sui::SUI" {
				return nil, &rpcError{Code: -32602, Message: "bad params"}
			}
			return map[string]any{
				"data": []map[string]any{{
					"coinType":     "0x2::sui::SUI",
					"coinObjectId": "0x1234",
					"version":      "42",
					"digest":       "11111111111111111111111111111111",
					"balance":      "1500000000",
				}},
				"nextCursor":  "0x1234",
				"hasNextPage": false,
			}, nil
		},
	})

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	page, err := c.GetCoins(context.Background(), owner, "0x2::sui::SUI", nil, 50)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.False(t, page.HasNextPage)

	bal, ok := page.Data[0].BalanceInt()
	require.True(t, ok)
	assert.Equal(t, "1500000000", bal.String())

	ref, err := page.Data[0].Ref()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), ref.Version)
}

func TestClient_ReferenceGasPrice(t *testing.T) {
	srv := rpcServer(t, map[string]func([]json.RawMessage) (any, *rpcError){
		"suix_getReferenceGasPrice": func([]json.RawMessage) (any, *rpcError) { return "750", nil },
	})
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	price, err := c.GetReferenceGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(750), price)
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Run("invalid signature", func(t *testing.T) {
		srv := rpcServer(t, map[string]func([]json.RawMessage) (any, *rpcError){
			"sui_executeTransactionBlock": func([]json.RawMessage) (any, *rpcError) {
				return nil, &rpcError{Code: -32002, Message: "Invalid user signature: Signature is not valid"}
			},
		})
		c, err := NewClient(srv.URL)
		require.NoError(t, err)

		_, err = c.Execute(context.Background(), []byte{1}, "sig")
		require.Error(t, err)
		assert.Equal(t, apperror.CodeInvalidSignature, apperror.GetCode(err))
		assert.False(t, apperror.GetCode(err).Transient())
	})

	t.Run("bad gateway", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		c, err := NewClient(srv.URL)
		require.NoError(t, err)

		_, err = c.GetReferenceGasPrice(context.Background())
		require.Error(t, err)
		assert.Equal(t, apperror.CodeServiceUnavailable, apperror.GetCode(err))
		assert.True(t, apperror.GetCode(err).Transient())
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()
		c, err := NewClient(srv.URL)
		require.NoError(t, err)

		_, err = c.GetReferenceGasPrice(context.Background())
		assert.Equal(t, apperror.CodeRateLimitExceeded, apperror.GetCode(err))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		c, err := NewClient(url)
		require.NoError(t, err)
		_, err = c.GetReferenceGasPrice(context.Background())
		require.Error(t, err)
		assert.True(t, apperror.GetCode(err).Transient(), "got %v", err)
	})
}

func TestTransactionBlockResponse_MoveCalls(t *testing.T) {
	raw := `{
		"digest": "abc",
		"timestampMs": "1700000000000",
		"transaction": {"data": {"sender": "0x1", "transaction": {
			"kind": "ProgrammableTransaction",
			"transactions": [
				{"SplitCoins": ["GasCoin", [{"Input": 0}]]},
				{"MoveCall": {"package": "0x70", "module": "trade", "function": "flash_swap"}}
			]
		}}}
	}`
	var tx TransactionBlockResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))

	calls := tx.MoveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "flash_swap", calls[0].Function)
}

func TestBalanceChange_OwnerVariants(t *testing.T) {
	raw := `[
		{"owner": {"AddressOwner": "0xabc"}, "coinType": "0x2::sui::SUI", "amount": "-10"},
		{"owner": "Immutable", "coinType": "0x2::sui::SUI", "amount": "1"}
	]`
	var changes []BalanceChange
	require.NoError(t, json.Unmarshal([]byte(raw), &changes))
	assert.Equal(t, "0xabc", changes[0].Owner.AddressOwner)
	assert.Empty(t, changes[1].Owner.AddressOwner)
}
