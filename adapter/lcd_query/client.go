// Package lcdquery reads CosmWasm contract state through the LCD (REST)
// endpoints of a node, with failover across several nodes.
package lcdquery

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "lcd").Logger()
}

// SetLogger allows setting a custom logger
func SetLogger(l zerolog.Logger) {
	log = l.With().Str("component", "lcd").Logger()
}

const healthPath = "/cosmos/base/tendermint/v1beta1/node_info"

// LcdQueryClient answers contract queries against a primary LCD endpoint and
// switches to a backup endpoint when the primary is unavailable.
type LcdQueryClient struct {
	httpClient     *http.Client
	primaryURL     string
	backupURLs     []string
	currentURL     string
	mu             sync.RWMutex
	healthChecker  *healthChecker
	failoverConfig FailoverConfig
}

var (
	_ host.Querier           = (*LcdQueryClient)(nil)
	_ host.DelegationQuerier = (*LcdQueryClient)(nil)
)

// FailoverConfig controls failover behavior
type FailoverConfig struct {
	// MaxRetries is the number of times to retry a failed request on the current endpoint
	MaxRetries int
	// RetryDelay is the initial delay between retries (doubles with each retry)
	RetryDelay time.Duration
	// HealthCheckInterval is how often to check if the primary endpoint is back up
	HealthCheckInterval time.Duration
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

func DefaultFailoverConfig() FailoverConfig {
	return FailoverConfig{
		MaxRetries:          2,
		RetryDelay:          500 * time.Millisecond,
		HealthCheckInterval: 30 * time.Second,
		Timeout:             10 * time.Second,
	}
}

// StatusError is returned when a node answers with a client error. Those are
// not retried since another node would answer the same.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

type healthChecker struct {
	client    *LcdQueryClient
	stopCh    chan struct{}
	stoppedCh chan struct{}
	isRunning bool
	mu        sync.Mutex
}

// NewLcdQueryClient creates a client with a single endpoint.
func NewLcdQueryClient(apiURL string) (*LcdQueryClient, error) {
	return NewLcdQueryClientWithFailover(apiURL, nil, DefaultFailoverConfig())
}

// NewLcdQueryClientWithFailover creates a client that fails over to backupURLs.
func NewLcdQueryClientWithFailover(primaryURL string, backupURLs []string, config FailoverConfig) (*LcdQueryClient, error) {
	if _, err := url.ParseRequestURI(primaryURL); err != nil {
		return nil, fmt.Errorf("failed to parse primary LCD URL %q: %w", primaryURL, err)
	}

	validBackups := make([]string, 0, len(backupURLs))
	for _, u := range backupURLs {
		if _, err := url.ParseRequestURI(u); err != nil {
			log.Warn().Err(err).Str("url", u).Msg("Invalid backup URL, skipping")
			continue
		}
		validBackups = append(validBackups, strings.TrimRight(u, "/"))
	}

	primaryURL = strings.TrimRight(primaryURL, "/")
	client := &LcdQueryClient{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		primaryURL:     primaryURL,
		backupURLs:     validBackups,
		currentURL:     primaryURL,
		failoverConfig: config,
	}

	if len(validBackups) > 0 && config.HealthCheckInterval > 0 {
		client.startHealthChecker()
	}

	log.Info().
		Str("primary", primaryURL).
		Int("backups", len(validBackups)).
		Msg("LCD client initialized")
	return client, nil
}

func (c *LcdQueryClient) startHealthChecker() {
	c.healthChecker = &healthChecker{
		client:    c,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	c.healthChecker.start()
}

func (h *healthChecker) start() {
	h.mu.Lock()
	if h.isRunning {
		h.mu.Unlock()
		return
	}
	h.isRunning = true
	h.mu.Unlock()

	go func() {
		defer close(h.stoppedCh)
		ticker := time.NewTicker(h.client.failoverConfig.HealthCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-h.stopCh:
				return
			case <-ticker.C:
				h.checkAndRestore()
			}
		}
	}()
}

func (h *healthChecker) stop() {
	h.mu.Lock()
	if !h.isRunning {
		h.mu.Unlock()
		return
	}
	h.isRunning = false
	h.mu.Unlock()

	close(h.stopCh)
	<-h.stoppedCh
}

// checkAndRestore moves back to the primary endpoint once it answers again
func (h *healthChecker) checkAndRestore() {
	h.client.mu.RLock()
	currentURL := h.client.currentURL
	primaryURL := h.client.primaryURL
	h.client.mu.RUnlock()

	if currentURL == primaryURL {
		return
	}

	if h.client.isEndpointHealthy(context.Background(), primaryURL) {
		h.client.mu.Lock()
		h.client.currentURL = primaryURL
		h.client.mu.Unlock()
		log.Info().Str("url", primaryURL).Msg("Restored primary endpoint")
	}
}

func (c *LcdQueryClient) isEndpointHealthy(ctx context.Context, endpoint string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+healthPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", endpoint).Msg("Health check failed")
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	log.Debug().Str("url", endpoint).Int("status", resp.StatusCode).Msg("Health check response")
	return resp.StatusCode == http.StatusOK
}

// CurrentURL returns the endpoint requests are currently sent to.
func (c *LcdQueryClient) CurrentURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentURL
}

// failover switches to the next healthy endpoint
func (c *LcdQueryClient) failover(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	allURLs := append([]string{c.primaryURL}, c.backupURLs...)
	currentIdx := -1
	for i, u := range allURLs {
		if u == c.currentURL {
			currentIdx = i
			break
		}
	}

	for i := 1; i <= len(allURLs); i++ {
		nextURL := allURLs[(currentIdx+i)%len(allURLs)]
		if nextURL == c.currentURL {
			continue
		}
		if c.isEndpointHealthy(ctx, nextURL) {
			c.currentURL = nextURL
			log.Info().Str("url", nextURL).Msg("Failover to endpoint")
			return true
		}
	}

	log.Warn().Str("url", c.currentURL).Msg("All endpoints unhealthy, staying on current")
	return false
}

// Close stops the health checker
func (c *LcdQueryClient) Close() {
	if c.healthChecker != nil {
		c.healthChecker.stop()
	}
}

func (c *LcdQueryClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CurrentURL()+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func isClientError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500
}

// doRequestWithFailover performs a GET with retries, then fails over once.
func (c *LcdQueryClient) doRequestWithFailover(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	retryDelay := c.failoverConfig.RetryDelay

	for attempt := 0; attempt <= c.failoverConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
			retryDelay *= 2
		}

		body, err := c.get(ctx, path)
		if err == nil {
			return body, nil
		}
		if isClientError(err) {
			return nil, err
		}
		lastErr = err
	}

	if len(c.backupURLs) > 0 && c.failover(ctx) {
		body, err := c.get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failover request failed: %w (original: %w)", err, lastErr)
		}
		return body, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.failoverConfig.MaxRetries+1, lastErr)
}

type contractInfoResponse struct {
	Address      string            `json:"address"`
	ContractInfo host.ContractInfo `json:"contract_info"`
}

// ContractInfo reads the metadata of a contract. Addresses without code fail.
func (c *LcdQueryClient) ContractInfo(ctx context.Context, addr string) (*host.ContractInfo, error) {
	body, err := c.doRequestWithFailover(ctx, "/cosmwasm/wasm/v1/contract/"+url.PathEscape(addr))
	if err != nil {
		return nil, fmt.Errorf("failed to query contract info of %s: %w", addr, err)
	}
	var resp contractInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse contract info response: %w", err)
	}
	if resp.ContractInfo.CodeID == 0 {
		return nil, fmt.Errorf("address %s has no contract code", addr)
	}
	return &resp.ContractInfo, nil
}

type smartResponse struct {
	Data json.RawMessage `json:"data"`
}

// Smart runs a smart query and decodes the answer into out.
func (c *LcdQueryClient) Smart(ctx context.Context, contract string, msg any, out any) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal smart query: %w", err)
	}
	path := fmt.Sprintf("/cosmwasm/wasm/v1/contract/%s/smart/%s",
		url.PathEscape(contract), base64.URLEncoding.EncodeToString(raw))

	body, err := c.doRequestWithFailover(ctx, path)
	if err != nil {
		return fmt.Errorf("smart query on %s failed: %w", contract, err)
	}
	var resp smartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse smart query response: %w", err)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to decode smart query data: %w", err)
	}
	return nil
}

type delegationsResponse struct {
	DelegationResponses []struct {
		Delegation struct {
			ValidatorAddress string `json:"validator_address"`
		} `json:"delegation"`
	} `json:"delegation_responses"`
	Pagination struct {
		NextKey *string `json:"next_key"`
	} `json:"pagination"`
}

// Delegations lists the validators delegator has bonded to, following pagination.
func (c *LcdQueryClient) Delegations(ctx context.Context, delegator string) ([]string, error) {
	var validators []string
	nextKey := ""
	for {
		path := "/cosmos/staking/v1beta1/delegations/" + url.PathEscape(delegator)
		if nextKey != "" {
			path += "?pagination.key=" + url.QueryEscape(nextKey)
		}
		body, err := c.doRequestWithFailover(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to query delegations of %s: %w", delegator, err)
		}
		var resp delegationsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse delegations response: %w", err)
		}
		for _, d := range resp.DelegationResponses {
			validators = append(validators, d.Delegation.ValidatorAddress)
		}
		if resp.Pagination.NextKey == nil || *resp.Pagination.NextKey == "" {
			return validators, nil
		}
		nextKey = *resp.Pagination.NextKey
	}
}
