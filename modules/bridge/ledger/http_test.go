package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPService(t *testing.T) {
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	var received []ledgerRequest
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ledgerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received = append(received, req)
		paths = append(paths, r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/burn" && req.Amount == "999" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"not enough tokens"}`))
			return
		}
		if r.URL.Path == "/v1/burn" && req.Amount == "500" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":{}}`))
	}))
	defer server.Close()

	svc, err := NewHTTPService(HTTPConfig{URL: server.URL})
	require.NoError(t, err)

	require.NoError(t, svc.Mint(ctx, 100, owner))
	require.NoError(t, svc.Burn(ctx, 40, owner))

	err = svc.Burn(ctx, 999, owner)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.ErrorContains(t, err, "not enough tokens")

	err = svc.Burn(ctx, 500, owner)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientBalance)
	assert.ErrorContains(t, err, "boom")

	assert.Equal(t, []string{"/v1/mint", "/v1/burn", "/v1/burn", "/v1/burn"}, paths)
	assert.Equal(t, ledgerRequest{Amount: "100", Account: owner.String()}, received[0])
}

func TestNewHTTPServiceRequiresURL(t *testing.T) {
	_, err := NewHTTPService(HTTPConfig{})
	assert.Error(t, err)
}
