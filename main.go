package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/agnosticeng/panicsafe"
	"github.com/agnosticeng/slogcli"
	"github.com/urfave/cli/v2"

	// Handler registration of all supported DBMS
	_ "dbhandler/dbms"
)

const (
	version    = "1.0.0"
	executable = "dbhandler"
)

func main() {
	app := cli.App{
		Name:    executable,
		Usage:   "run SQL statements and catalog lookups against configured database instances",
		Version: version,
		Flags: append(
			slogcli.SlogFlags(),
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   executable + ".yaml",
				Usage:   "config file name",
			},
		),
		Before: slogcli.SlogBefore,
		Commands: []*cli.Command{
			checkCommand(),
			queryCommand(),
			selectCommand(),
			tablesCommand(),
			columnsCommand(),
			passwordCommand(),
		},
	}

	var err = panicsafe.Recover(func() error { return app.Run(os.Args) })

	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		os.Exit(1)
	}
}
