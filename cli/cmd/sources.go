package cmd

import (
	"time"

	"github.com/liamzebedee/feevote-go/core/feevote"
	"github.com/liamzebedee/feevote-go/core/registry"
	"github.com/liamzebedee/feevote-go/core/xrpl"
	"github.com/urfave/cli/v2"
)

// SourceFlags configure where the ledger and the registry are fetched from.
func SourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ledger",
			Usage:   "WebSocket URL of the XRPL server to read the active fees from",
			Value:   xrpl.DefaultConfig().URL,
			EnvVars: []string{"FEEVOTE_LEDGER_URL"},
		},
		&cli.StringFlag{
			Name:    "registry",
			Usage:   "URL of the validator registry feed",
			Value:   registry.DefaultConfig().URL,
			EnvVars: []string{"FEEVOTE_REGISTRY_URL"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Timeout for a single fetch cycle",
			Value:   30 * time.Second,
			EnvVars: []string{"FEEVOTE_TIMEOUT"},
		},
	}
}

type sourceConfig struct {
	ledger   xrpl.Config
	registry registry.Config
	timeout  time.Duration
}

func newSourceConfig(cmdCtx *cli.Context) sourceConfig {
	timeout := cmdCtx.Duration("timeout")

	ledgerConfig := xrpl.DefaultConfig()
	ledgerConfig.URL = cmdCtx.String("ledger")
	ledgerConfig.Timeout = timeout

	registryConfig := registry.DefaultConfig()
	registryConfig.URL = cmdCtx.String("registry")
	registryConfig.Timeout = timeout

	return sourceConfig{
		ledger:   ledgerConfig,
		registry: registryConfig,
		timeout:  timeout,
	}
}

func newCycle(config sourceConfig) *feevote.Cycle {
	return feevote.NewCycle(
		xrpl.NewClient(config.ledger),
		registry.NewClient(config.registry),
	)
}
