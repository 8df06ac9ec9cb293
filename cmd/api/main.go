package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	adactor "github.com/berfenger/zeversolar2mqtt/internal/adapter/actor"
	"github.com/berfenger/zeversolar2mqtt/internal/config"
	"github.com/berfenger/zeversolar2mqtt/internal/core/actor"
	"github.com/berfenger/zeversolar2mqtt/internal/core/domain"
	"github.com/berfenger/zeversolar2mqtt/internal/metrics"
	"github.com/berfenger/zeversolar2mqtt/internal/server"
	"github.com/berfenger/zeversolar2mqtt/internal/util/actorutil"
	"github.com/berfenger/zeversolar2mqtt/pkg/zeversolar"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	SHUTDOWN_TIMEOUT = 5 * time.Second
)

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		os.Exit(1)
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("zeversolar2mqtt stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("graceful shutdown complete")
}

// run starts the bridge and blocks until ctx is cancelled or the HTTP
// server fails.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {

	// inverter device, fails only on an unusable endpoint
	device, err := zeversolar.Setup(zeversolar.Config{
		Host:      cfg.Inverter.Host,
		Port:      int(cfg.Inverter.Port),
		Resources: cfg.Inverter.Resources,
	}, logger)
	if err != nil {
		return fmt.Errorf("inverter setup: %w", err)
	}

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	defer as.Shutdown()

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, inverterActorProvider(device, logger), mqttActorProvider(cfg, logger), logger)
	})
	pid, err := as.Root.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	if err != nil {
		return fmt.Errorf("spawn master actor: %w", err)
	}
	defer as.Root.Stop(pid)

	// prometheus registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewCollector(device),
	)

	apiServer := server.NewServer(*cfg, as.Root, pid, reg)
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", apiServer.Addr))
		serverErr <- apiServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server forced to shutdown", zap.Error(err))
	}
	return nil
}

func initConfig() (*config.Config, error) {

	// alias PORT => ZEVERSOLAR_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("ZEVERSOLAR_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("zeversolar")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = config.ParseLogLevel(viper.GetString("log_level"))

	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func inverterActorProvider(device *zeversolar.Device, logger *zap.Logger) actor.InverterActorProvider {
	return func() *adactor.InverterActor {
		return adactor.NewInverterActor(device, logger)
	}
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, logger)
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("inverter.host", "")
	viper.SetDefault("inverter.port", zeversolar.DEFAULT_PORT)
	viper.SetDefault("inverter.resources", []string{})
	viper.SetDefault("mqtt.host", "localhost")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.base_topic", "zeversolar")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	viper.SetDefault("monitor.poll_interval_millis", 10000)
	viper.SetDefault("port", 8080)
	viper.SetDefault("http_log", false)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
