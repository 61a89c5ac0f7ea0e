package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/2beens/admingate/internal"
	"github.com/2beens/admingate/internal/config"
	"github.com/2beens/admingate/internal/logging"
	"github.com/2beens/admingate/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "admin-gateway",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	// missing secrets are logged (names only, never values), and the server
	// still starts; the affected endpoints respond with 500 / failed logins
	adminLogin := os.Getenv("ADMIN_GATE_ADMIN_LOGIN")
	adminPasswordHash := os.Getenv("ADMIN_GATE_ADMIN_PASSWORD_HASH")
	if adminLogin == "" || adminPasswordHash == "" {
		log.Errorf("admin login and password hash not set. use ADMIN_GATE_ADMIN_LOGIN and ADMIN_GATE_ADMIN_PASSWORD_HASH")
	}

	signingSecret := os.Getenv("ADMIN_GATE_JWT_SECRET")
	if signingSecret == "" {
		log.Errorf("session signing secret not set. use ADMIN_GATE_JWT_SECRET")
	}

	appsJSON := os.Getenv("ADMIN_GATE_APPS_JSON")
	if appsJSON == "" {
		log.Errorf("apps config not set. use ADMIN_GATE_APPS_JSON, e.g. {\"status_board\":\"https://status.example.com\"}")
	}

	redisPassword := os.Getenv("ADMIN_GATE_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use ADMIN_GATE_REDIS_PASS")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			AdminLogin:              adminLogin,
			AdminPasswordHash:       adminPasswordHash,
			SigningSecret:           signingSecret,
			AppsJSON:                appsJSON,
			RedisPassword:           redisPassword,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	// go to sleep 🥱
	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
