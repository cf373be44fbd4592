package lcdquery_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zeebo/assert"

	lcdquery "github.com/Cogwheel-Validator/spectra-adapter/adapter/lcd_query"
)

const pair = "juno1pair"

func newNode(t *testing.T, failing *atomic.Bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/base/tendermint/v1beta1/node_info", func(w http.ResponseWriter, r *http.Request) {
		if failing != nil && failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/cosmwasm/wasm/v1/contract/", func(w http.ResponseWriter, r *http.Request) {
		if failing != nil && failing.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/cosmwasm/wasm/v1/contract/")
		addr, query, isSmart := strings.Cut(rest, "/smart/")
		if addr != pair {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":5,"message":"not found"}`))
			return
		}
		if !isSmart {
			_, _ = w.Write([]byte(`{"address":"juno1pair","contract_info":{"code_id":"42","creator":"juno1c","admin":"","label":"pair"}}`))
			return
		}
		raw, err := base64.URLEncoding.DecodeString(query)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var msg map[string]json.RawMessage
		_ = json.Unmarshal(raw, &msg)
		if _, ok := msg["pool"]; !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"total_share":"1000"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func fastConfig() lcdquery.FailoverConfig {
	return lcdquery.FailoverConfig{
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Timeout:    time.Second,
	}
}

func TestContractInfo(t *testing.T) {
	node := newNode(t, nil)
	client, err := lcdquery.NewLcdQueryClientWithFailover(node.URL, nil, fastConfig())
	assert.NoError(t, err)
	defer client.Close()

	info, err := client.ContractInfo(context.Background(), pair)
	assert.NoError(t, err)
	assert.Equal(t, info.CodeID, uint64(42))
	assert.Equal(t, info.Label, "pair")

	_, err = client.ContractInfo(context.Background(), "juno1wallet")
	assert.Error(t, err)
}

func TestSmartQuery(t *testing.T) {
	node := newNode(t, nil)
	client, err := lcdquery.NewLcdQueryClientWithFailover(node.URL, nil, fastConfig())
	assert.NoError(t, err)
	defer client.Close()

	var out struct {
		TotalShare string `json:"total_share"`
	}
	err = client.Smart(context.Background(), pair, map[string]any{"pool": struct{}{}}, &out)
	assert.NoError(t, err)
	assert.Equal(t, out.TotalShare, "1000")
}

func TestFailoverToBackup(t *testing.T) {
	var primaryDown atomic.Bool
	primaryDown.Store(true)
	primary := newNode(t, &primaryDown)
	backup := newNode(t, nil)

	client, err := lcdquery.NewLcdQueryClientWithFailover(primary.URL, []string{backup.URL}, fastConfig())
	assert.NoError(t, err)
	defer client.Close()

	info, err := client.ContractInfo(context.Background(), pair)
	assert.NoError(t, err)
	assert.Equal(t, info.CodeID, uint64(42))
	assert.Equal(t, client.CurrentURL(), backup.URL)
}

func TestInvalidPrimaryURL(t *testing.T) {
	_, err := lcdquery.NewLcdQueryClient("not a url")
	assert.Error(t, err)
}

func TestDelegationsFollowsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/cosmos/staking/v1beta1/delegations/juno1delegator")
		if r.URL.Query().Get("pagination.key") == "" {
			_, _ = w.Write([]byte(`{"delegation_responses":[{"delegation":{"validator_address":"junovaloper1a"}}],"pagination":{"next_key":"abc"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"delegation_responses":[{"delegation":{"validator_address":"junovaloper1b"}}],"pagination":{"next_key":null}}`))
	}))
	defer srv.Close()

	client, err := lcdquery.NewLcdQueryClientWithFailover(srv.URL, nil, fastConfig())
	assert.NoError(t, err)
	defer client.Close()

	validators, err := client.Delegations(context.Background(), "juno1delegator")
	assert.NoError(t, err)
	assert.DeepEqual(t, validators, []string{"junovaloper1a", "junovaloper1b"})
}
