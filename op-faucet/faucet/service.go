package faucet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/mantlenetworkio/faucet-devnet/op-faucet/config"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet/backend"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/faucet/frontend"
	"github.com/mantlenetworkio/faucet-devnet/op-faucet/metrics"
	"github.com/mantlenetworkio/faucet-devnet/op-ledger/devkeys"
	"github.com/mantlenetworkio/faucet-devnet/op-service/cliapp"
	"github.com/mantlenetworkio/faucet-devnet/op-service/httputil"
	oplog "github.com/mantlenetworkio/faucet-devnet/op-service/log"
	opmetrics "github.com/mantlenetworkio/faucet-devnet/op-service/metrics"
	oprpc "github.com/mantlenetworkio/faucet-devnet/op-service/rpc"
)

type Service struct {
	closing atomic.Bool

	log log.Logger

	backend *backend.Backend

	metrics    metrics.Metricer
	metricsSrv *httputil.HTTPServer
	rpcHandler *oprpc.Handler
	httpServer *httputil.HTTPServer
}

var _ cliapp.Lifecycle = (*Service)(nil)
var _ frontend.AdminBackend = (*Service)(nil)

func FromConfig(ctx context.Context, cfg *config.Config, logger log.Logger) (*Service, error) {
	su := &Service{log: logger}
	if err := su.initFromCLIConfig(ctx, cfg); err != nil {
		return nil, errors.Join(err, su.Stop(ctx)) // try to clean up our failed initialization attempt
	}
	return su, nil
}

func (s *Service) initFromCLIConfig(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	s.initMetrics(cfg)
	if err := s.initMetricsServer(cfg); err != nil {
		return fmt.Errorf("failed to start Metrics server: %w", err)
	}
	if err := s.initRPCHandler(cfg); err != nil {
		return fmt.Errorf("failed to start RPC handler: %w", err)
	}
	if err := s.initBackend(ctx, cfg); err != nil {
		return fmt.Errorf("failed to start backend: %w", err)
	}
	if err := s.initHTTPServer(cfg); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

func (s *Service) initMetrics(cfg *config.Config) {
	if cfg.MetricsConfig.Enabled {
		procName := "default"
		s.metrics = metrics.NewMetrics(procName)
		s.metrics.RecordInfo(cfg.Version)
	} else {
		s.metrics = metrics.NoopMetrics{}
	}
}

func (s *Service) initMetricsServer(cfg *config.Config) error {
	if !cfg.MetricsConfig.Enabled {
		s.log.Info("Metrics disabled")
		return nil
	}
	m, ok := s.metrics.(opmetrics.RegistryMetricer)
	if !ok {
		return fmt.Errorf("metrics were enabled, but metricer %T does not expose registry for metrics-server", s.metrics)
	}
	s.log.Debug("Starting metrics server", "addr", cfg.MetricsConfig.ListenAddr, "port", cfg.MetricsConfig.ListenPort)
	metricsSrv, err := opmetrics.StartServer(m.Registry(), cfg.MetricsConfig.ListenAddr, cfg.MetricsConfig.ListenPort)
	if err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	s.log.Info("Started metrics server", "addr", metricsSrv.Addr())
	s.metricsSrv = metricsSrv
	return nil
}

func (s *Service) initRPCHandler(cfg *config.Config) error {
	s.rpcHandler = oprpc.NewHandler(cfg.Version, oprpc.WithLogger(s.log))
	if cfg.RPC.EnableAdmin {
		s.log.Info("Admin RPC enabled")
		if err := s.rpcHandler.AddAPI(rpc.API{
			Namespace: "admin",
			Service:   frontend.NewAdminFrontend(s),
		}); err != nil {
			return fmt.Errorf("failed to add admin API: %w", err)
		}
	}
	return nil
}

func (s *Service) initBackend(ctx context.Context, cfg *config.Config) error {
	devnetCfg, err := cfg.Devnet.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load devnet config: %w", err)
	}
	b, err := backend.FromConfig(ctx, s.log, s.metrics, devnetCfg, s.rpcHandler)
	if err != nil {
		return fmt.Errorf("failed to setup backend: %w", err)
	}
	s.backend = b
	return nil
}

func (s *Service) initHTTPServer(cfg *config.Config) error {
	endpoint := net.JoinHostPort(cfg.RPC.ListenAddr, strconv.Itoa(cfg.RPC.ListenPort))
	s.httpServer = httputil.NewHTTPServer(endpoint, s.rpcHandler)
	return nil
}

func (s *Service) Start(ctx context.Context) error {
	s.log.Info("Starting JSON-RPC server")
	if err := s.httpServer.Start(); err != nil {
		return fmt.Errorf("unable to start RPC server: %w", err)
	}

	s.metrics.RecordUp()
	s.log.Info("JSON-RPC Server started", "endpoint", s.httpServer.HTTPEndpoint(),
		"faucet", s.backend.FaucetAddress(), "accounts", len(s.backend.Accounts()))
	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	if !s.closing.CompareAndSwap(false, true) {
		s.log.Warn("Already closing")
		return nil // already closing
	}
	s.log.Info("Stopping JSON-RPC server")
	var result error
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			result = errors.Join(result, fmt.Errorf("failed to stop HTTP server: %w", err))
		}
	}
	if s.rpcHandler != nil {
		s.rpcHandler.Stop()
	}
	s.log.Info("Stopped RPC Server")
	if s.backend != nil {
		if err := s.backend.Stop(ctx); err != nil {
			result = errors.Join(result, fmt.Errorf("failed to close backend: %w", err))
		}
	}
	s.log.Info("Stopped Backend")
	if s.metricsSrv != nil {
		if err := s.metricsSrv.Stop(ctx); err != nil {
			result = errors.Join(result, fmt.Errorf("failed to stop metrics server: %w", err))
		}
	}
	s.log.Info("JSON-RPC server stopped")
	return result
}

func (s *Service) Stopped() bool {
	return s.closing.Load()
}

func (s *Service) RPC() string {
	return s.httpServer.HTTPEndpoint()
}

// MetricsEndpoint returns the address of the metrics server, or an empty string if metrics are disabled.
func (s *Service) MetricsEndpoint() string {
	if s.metricsSrv == nil {
		return ""
	}
	return s.metricsSrv.HTTPEndpoint()
}

func (s *Service) FaucetAddress() common.Address {
	return s.backend.FaucetAddress()
}

// Keys returns the dev keys of the funded accounts.
func (s *Service) Keys() devkeys.Keys {
	return s.backend.Keys()
}

func (s *Service) Accounts() []common.Address {
	return s.backend.Accounts()
}

func (s *Service) SetLogLevel(lvl slog.Level) error {
	h, ok := oplog.FindLvlSetter(s.log.Handler())
	if !ok {
		return fmt.Errorf("log handler type %T cannot change log level", s.log.Handler())
	}
	h.SetLogLevel(lvl)
	s.log.Info("Changed log level", "level", lvl)
	return nil
}
