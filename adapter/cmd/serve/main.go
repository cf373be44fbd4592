package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/app"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/config"
	"github.com/Cogwheel-Validator/spectra-adapter/adapter/rpc"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Logger()

	rpc.SetLogger(log)
}

func main() {
	configRpc := flag.String("config-rpc", "", "toml config file for the rpc server, empty reads ADAPTER_* env vars")
	tlsCert := flag.String("tls-cert", "", "TLS certificate file")
	tlsKey := flag.String("tls-key", "", "TLS key file")
	flag.Parse()

	var configPath *string
	if *configRpc != "" {
		configPath = configRpc
	}
	log.Info().Str("rpcConfig", *configRpc).Msg("Starting Spectra adapter")

	rpcConfig, err := config.LoadRPCAdapterConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load RPC config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if rpcConfig.DirectorySource != "" {
		if err := config.FetchDirectory(ctx, rpcConfig.DirectorySource, rpcConfig.DirectoryPath); err != nil {
			log.Fatal().Err(err).Str("source", rpcConfig.DirectorySource).Msg("Failed to fetch directory")
		}
		log.Info().Str("source", rpcConfig.DirectorySource).Msg("Fetched directory")
	}

	adapters, err := app.New(app.Options{
		DirectoryPath: rpcConfig.DirectoryPath,
		FeeDBPath:     rpcConfig.FeeDBPath,
		FeeLockPath:   rpcConfig.FeeLockPath,
		LcdURLs:       rpcConfig.LcdURLs,
		Logger:        &log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build adapters")
	}
	log.Info().
		Str("chain", adapters.Directory.Chain).
		Int("accounts", len(adapters.Directory.Accounts)).
		Int("lcdEndpoints", len(rpcConfig.LcdURLs)).
		Bool("nativeStaking", adapters.Tendermint != nil).
		Msg("Adapters ready")

	server, err := rpc.NewServer(ctx, buildServerConfig(rpcConfig),
		rpc.NewAdapterServer(adapters.Dex, adapters.Staking, adapters.Tendermint))
	if err != nil {
		_ = adapters.Close()
		log.Fatal().Err(err).Msg("Failed to create RPC server")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var err error
		if *tlsCert != "" && *tlsKey != "" {
			err = server.StartTLS(*tlsCert, *tlsKey)
		} else {
			err = server.Start()
		}
		if err != nil {
			log.Error().Err(err).Msg("Server error")
			sigCh <- syscall.SIGTERM
		}
	}()

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
	if err := adapters.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close fee store")
	}
}

// buildServerConfig converts the loaded RPCAdapterConfig to rpc.ServerConfig
func buildServerConfig(cfg *config.RPCAdapterConfig) *rpc.ServerConfig {
	serverConfig := &rpc.ServerConfig{
		Address:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		AllowedOrigins: cfg.AllowedOrigins,
		EnableMetrics:  cfg.UsePrometheus,
	}
	if cfg.RatePerMinute > 0 {
		serverConfig.RatePerMinute = &cfg.RatePerMinute
	}
	if cfg.MaxConcurrentRequests > 0 {
		serverConfig.MaxConcurrentRequests = &cfg.MaxConcurrentRequests
	}

	if cfg.EnableTracing || cfg.EnableMetrics || cfg.EnableLogs || cfg.UsePrometheus {
		serverConfig.OTelConfig = &rpc.OTelConfig{
			ServiceName:     defaultString(cfg.ServiceName, "spectra-adapter"),
			ServiceVersion:  defaultString(cfg.ServiceVersion, "1.0.0"),
			Environment:     defaultString(cfg.Environment, "development"),
			EnableTracing:   cfg.EnableTracing,
			UseOTLPTraces:   cfg.UseOTLPTraces,
			OTLPTracesURL:   cfg.OTLPTracesURL,
			EnableMetrics:   cfg.EnableMetrics || cfg.UsePrometheus,
			UsePrometheus:   cfg.UsePrometheus,
			UseOTLPMetrics:  cfg.UseOTLPMetrics,
			OTLPMetricsURL:  cfg.OTLPMetricsURL,
			EnableLogs:      cfg.EnableLogs,
			UseOTLPLogs:     cfg.UseOTLPLogs,
			OTLPLogsURL:     cfg.OTLPLogsURL,
			InsecureOTLP:    cfg.InsecureOTLP,
			DevelopmentMode: cfg.DevelopmentMode,
		}
	}
	return serverConfig
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
