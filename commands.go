package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"dbhandler/handler"
)

// initEnv loads the config file and the password store.
func initEnv(ctx *cli.Context) error {
	if err := setupEnv(ctx.String("config")); err != nil {
		return err
	}
	return readPasswordStore()
}

// instanceHandler builds the handler for the instance named by the -i flag.
func instanceHandler(ctx *cli.Context) (handler.Handler, error) {
	instance := ctx.String("instance")
	if instance == "" {
		return nil, errors.New("the instance command option '-i <instance name>' is required")
	}
	return newHandler(instance)
}

func instanceFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "instance",
		Aliases: []string{"i"},
		Usage:   "instance name in the format <DBMS>.<instance ID>",
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "check the connection of one or all configured instances",
		Flags: []cli.Flag{
			instanceFlag(),
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "check all configured instances"},
		},
		Action: func(ctx *cli.Context) error {
			if err := initEnv(ctx); err != nil {
				return err
			}
			if ctx.Bool("all") {
				return checkAllInstances(ctx)
			}
			h, err := instanceHandler(ctx)
			if err != nil {
				return err
			}
			status := h.CheckConnection(ctx.Context)
			if !status.Success {
				return fmt.Errorf("%s: %s", h.Name(), status.ErrorMessage)
			}
			fmt.Printf("%s: connection ok\n", h.Name())
			return nil
		},
	}
}

// checkAllInstances checks every configured instance concurrently.
func checkAllInstances(ctx *cli.Context) error {
	var (
		mtx     sync.Mutex
		results = make(map[string]handler.StatusResponse, len(instanceConfig))
	)
	group, groupctx := errgroup.WithContext(ctx.Context)
	for instance := range instanceConfig {
		instance := instance
		group.Go(func() error {
			h, err := newHandler(instance)
			if err != nil {
				return err
			}
			status := h.CheckConnection(groupctx)
			mtx.Lock()
			results[instance] = status
			mtx.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	failed := 0
	for instance, status := range results {
		if status.Success {
			fmt.Printf("%s: connection ok\n", instance)
			continue
		}
		failed++
		fmt.Printf("%s: %s\n", instance, status.ErrorMessage)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d connection checks failed", failed, len(results))
	}
	return nil
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "execute a native SQL statement",
		ArgsUsage: "<sql>",
		Flags:     []cli.Flag{instanceFlag()},
		Action: func(ctx *cli.Context) error {
			if ctx.Args().Len() == 0 {
				return errors.New("a SQL statement argument is required")
			}
			if err := initEnv(ctx); err != nil {
				return err
			}
			h, err := instanceHandler(ctx)
			if err != nil {
				return err
			}
			return printResponse(h.NativeQuery(ctx.Context, ctx.Args().First()))
		},
	}
}

func selectCommand() *cli.Command {
	return &cli.Command{
		Name:  "select",
		Usage: "build and execute a select statement through the abstract query renderer",
		Flags: []cli.Flag{
			instanceFlag(),
			&cli.StringFlag{Name: "from", Aliases: []string{"t"}, Usage: "table to select from", Required: true},
			&cli.StringFlag{Name: "columns", Aliases: []string{"f"}, Value: "*", Usage: "comma separated column list"},
			&cli.StringSliceFlag{Name: "where", Aliases: []string{"w"}, Usage: "equality condition <column>=<value>, repeatable"},
			&cli.Uint64Flag{Name: "limit", Aliases: []string{"l"}, Usage: "maximum number of rows"},
		},
		Action: func(ctx *cli.Context) error {
			if err := initEnv(ctx); err != nil {
				return err
			}
			h, err := instanceHandler(ctx)
			if err != nil {
				return err
			}

			builder := sq.Select(splitColumns(ctx.String("columns"))...).From(ctx.String("from"))
			for _, cond := range ctx.StringSlice("where") {
				column, value, ok := strings.Cut(cond, "=")
				if !ok {
					return fmt.Errorf("invalid where condition '%s', expected <column>=<value>", cond)
				}
				builder = builder.Where(sq.Eq{column: value})
			}
			if limit := ctx.Uint64("limit"); limit > 0 {
				builder = builder.Limit(limit)
			}
			return printResponse(h.Query(ctx.Context, builder))
		},
	}
}

func tablesCommand() *cli.Command {
	return &cli.Command{
		Name:  "tables",
		Usage: "list the tables of the configured schema",
		Flags: []cli.Flag{instanceFlag()},
		Action: func(ctx *cli.Context) error {
			if err := initEnv(ctx); err != nil {
				return err
			}
			h, err := instanceHandler(ctx)
			if err != nil {
				return err
			}
			return printResponse(h.GetTables(ctx.Context))
		},
	}
}

func columnsCommand() *cli.Command {
	return &cli.Command{
		Name:      "columns",
		Usage:     "list the columns of a table",
		ArgsUsage: "<table>",
		Flags:     []cli.Flag{instanceFlag()},
		Action: func(ctx *cli.Context) error {
			if ctx.Args().Len() == 0 {
				return errors.New("a table name argument is required")
			}
			if err := initEnv(ctx); err != nil {
				return err
			}
			h, err := instanceHandler(ctx)
			if err != nil {
				return err
			}
			return printResponse(h.GetColumns(ctx.Context, ctx.Args().First()))
		},
	}
}

// splitColumns splits a comma separated column list. Spaces inside a
// list element (quoted identifiers, expressions) are kept.
func splitColumns(list string) []string {
	return lo.Map(strings.Split(list, ","), func(column string, _ int) string {
		return strings.TrimSpace(column)
	})
}

// printResponse writes a response envelope to STDOUT.
func printResponse(resp handler.Response) error {
	if err := resp.Err(); err != nil {
		return err
	}
	if resp.Type == handler.ResponseTypeOK {
		fmt.Printf("ok (%d rows affected)\n", resp.RowsAffected)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(resp.Columns, "\t"))
	for _, row := range resp.Rows {
		values := lo.Map(row, func(v any, _ int) string { return formatValue(v) })
		fmt.Fprintln(w, strings.Join(values, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("(%d rows)\n", len(resp.Rows))
	return nil
}

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	default:
		return fmt.Sprint(value)
	}
}
