package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/liamzebedee/feevote-go/dashboard"
	"github.com/urfave/cli/v2"
)

func RunShow(cmdCtx *cli.Context) error {
	config := newSourceConfig(cmdCtx)

	ctx, cancel := context.WithTimeout(cmdCtx.Context, config.timeout)
	defer cancel()

	agg, err := newCycle(config).Run(ctx)
	if err != nil {
		return err
	}
	return dashboard.RenderTables(os.Stdout, agg)
}

func RunSnapshot(cmdCtx *cli.Context) error {
	config := newSourceConfig(cmdCtx)

	ctx, cancel := context.WithTimeout(cmdCtx.Context, config.timeout)
	defer cancel()

	agg, err := newCycle(config).Run(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(agg)
}
