package config

import (
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/host"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/models"
)

type RPCAdapterConfig struct {
	// rpc configs
	Port int    `toml:"port" mapstructure:"port"`
	Host string `toml:"host" mapstructure:"host"`

	// CORS configs
	AllowedOrigins []string `toml:"allowed_origins" mapstructure:"allowed_origins"`

	// rate limiting configs
	RatePerMinute         int `toml:"rate_per_minute" mapstructure:"rate_per_minute"`
	MaxConcurrentRequests int `toml:"max_concurrent_requests" mapstructure:"max_concurrent_requests"`

	// OpenTelemetry configs
	ServiceName    string `toml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `toml:"service_version" mapstructure:"service_version"`
	Environment    string `toml:"environment" mapstructure:"environment"` // PROD, DEV, TEST, LOCAL
	EnableTracing  bool   `toml:"enable_tracing" mapstructure:"enable_tracing"`
	UseOTLPTraces  bool   `toml:"use_otlp_traces" mapstructure:"use_otlp_traces"`
	OTLPTracesURL  string `toml:"otlp_traces_url" mapstructure:"otlp_traces_url"`
	EnableMetrics  bool   `toml:"enable_metrics" mapstructure:"enable_metrics"`
	UsePrometheus  bool   `toml:"use_prometheus" mapstructure:"use_prometheus"`
	UseOTLPMetrics bool   `toml:"use_otlp_metrics" mapstructure:"use_otlp_metrics"`
	OTLPMetricsURL string `toml:"otlp_metrics_url" mapstructure:"otlp_metrics_url"`
	EnableLogs     bool   `toml:"enable_logs" mapstructure:"enable_logs"`
	UseOTLPLogs    bool   `toml:"use_otlp_logs" mapstructure:"use_otlp_logs"`
	OTLPLogsURL    string `toml:"otlp_logs_url" mapstructure:"otlp_logs_url"`

	InsecureOTLP bool `toml:"insecure_otlp" mapstructure:"insecure_otlp"`

	// Development mode uses stdout exporters
	DevelopmentMode bool `toml:"development_mode" mapstructure:"development_mode"`

	// LCD endpoints, the first one is primary
	LcdURLs []string `toml:"lcd_urls" mapstructure:"lcd_urls"`

	// Directory file and an optional go-getter source it is fetched from
	DirectoryPath   string `toml:"directory_path" mapstructure:"directory_path"`
	DirectorySource string `toml:"directory_source" mapstructure:"directory_source"`

	// Fee store
	FeeDBPath   string `toml:"fee_db_path" mapstructure:"fee_db_path"`
	FeeLockPath string `toml:"fee_lock_path" mapstructure:"fee_lock_path"`
}

// FeeDefaults seeds the fee store the first time it is opened.
type FeeDefaults struct {
	Share     string `json:"share" toml:"share" yaml:"share"`
	Recipient string `json:"recipient" toml:"recipient" yaml:"recipient"`
}

// DirectoryFile is the on-disk description of the chain an adapter serves:
// the name service content, the registered accounts and the fee defaults.
type DirectoryFile struct {
	Chain        string `json:"chain" toml:"chain" yaml:"chain"`
	Bech32Prefix string `json:"bech32_prefix" toml:"bech32_prefix" yaml:"bech32_prefix"`
	BondDenom    string `json:"bond_denom" toml:"bond_denom" yaml:"bond_denom"`
	// OwnerAccount, when set, is the only account allowed to update the fee
	OwnerAccount *uint32 `json:"owner_account,omitempty" toml:"owner_account,omitempty" yaml:"owner_account,omitempty"`

	Fee      FeeDefaults    `json:"fee" toml:"fee" yaml:"fee"`
	Accounts []host.Account `json:"accounts" toml:"accounts" yaml:"accounts"`

	Assets    map[string]models.AssetInfo `json:"assets" toml:"assets" yaml:"assets"`
	Contracts map[string]string           `json:"contracts" toml:"contracts" yaml:"contracts"`
	Pools     map[string]string           `json:"pools" toml:"pools" yaml:"pools"`
}
