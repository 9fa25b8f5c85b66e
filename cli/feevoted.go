package main

import (
	"log"
	"os"
	"time"

	"github.com/liamzebedee/feevote-go/cli/cmd"
	"github.com/urfave/cli/v2"
)

func main() {
	sourceFlags := cmd.SourceFlags()

	app := &cli.App{
		Name:                 "feevoted",
		Usage:                "shows how XRPL validators vote on the fee schedule",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "dashboard",
				Usage:  "runs the fee voting dashboard",
				Action: cmd.RunDashboard,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Usage:   "The port to serve the dashboard on",
						Value:   8080,
						EnvVars: []string{"FEEVOTE_PORT"},
					},
					&cli.StringFlag{
						Name:    "db",
						Usage:   "The path to the snapshot database",
						Value:   "feevote.db",
						EnvVars: []string{"FEEVOTE_DB"},
					},
					&cli.DurationFlag{
						Name:    "interval",
						Usage:   "How often to refetch the ledger and the registry",
						Value:   5 * time.Minute,
						EnvVars: []string{"FEEVOTE_INTERVAL"},
					},
				}, sourceFlags...),
			},
			{
				Name:   "show",
				Usage:  "fetches once and prints the ranked votes as tables",
				Action: cmd.RunShow,
				Flags:  sourceFlags,
			},
			{
				Name:   "snapshot",
				Usage:  "fetches once and prints the aggregation as JSON",
				Action: cmd.RunSnapshot,
				Flags:  sourceFlags,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
