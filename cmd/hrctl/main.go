// Package main provides hrctl, a command line client for the HR attrition
// backend. It shares the token store with the web console.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"hrconsole/internal/api"
	"hrconsole/internal/platform/config"
	"hrconsole/internal/platform/logger"
	"hrconsole/internal/session"
	"hrconsole/internal/tokenstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, config.FromEnv(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs one command and returns the process exit code. Resources opened
// here are released before it returns.
func execute(ctx context.Context, cfg config.Config, args []string, out, errOut io.Writer) int {
	log := logger.NewWithWriter(errOut, cfg.LogLevel)

	store, redisClient, err := tokenstore.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "hrctl: %v\n", err)
		return 1
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn("failed to close redis client", "error", err)
			}
		}()
	}

	client := api.New(cfg.APIURL, store, api.WithTimeout(cfg.APITimeout), api.WithLogger(log))
	a := &app{
		client:       client,
		sess:         session.New(client.Auth(), store, session.WithLogger(log), session.WithNavigator(logNavigator{log: log})),
		out:          out,
		listLimit:    cfg.EmployeeListLimit,
		historyLimit: cfg.HistoryLimit,
	}
	return a.run(ctx, args, errOut)
}

// logNavigator records session navigation; a terminal has no pages to show.
type logNavigator struct {
	log *slog.Logger
}

func (n logNavigator) Navigate(ctx context.Context, route session.Route) {
	n.log.DebugContext(ctx, "session navigation", "route", string(route))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `hrctl - command line client for the HR attrition backend

Usage:
  hrctl <command> [flags]

Commands:
  login       Sign in and store the token
  register    Create an account and sign in with it
  logout      Forget the stored token
  whoami      Show the signed-in user
  employees   List employees, filtered locally
  employee    Show one employee
  add         Create an employee
  update      Update fields of an employee
  delete      Delete an employee
  dashboard   Show headline statistics
  analytics   Show attrition by department, salary or role
  predict     Predict attrition for an employee profile
  batch       Predict attrition for every row of a CSV file
  history     Show recent predictions

Environment:
  HR_API_URL        Backend base URL (default http://localhost:8000/api)
  HR_TOKEN_STORE    file or redis (default file)
  HR_TOKEN_FILE     Token file path (default ~/.hrconsole/storage.json)

Examples:
  hrctl login -email ada@example.com -password s3cret
  hrctl employees -department Sales -status yes
  hrctl predict -age 28 -department Sales -job-role "Sales Representative" \
        -salary 2500 -education Bachelor -years 1
  hrctl batch -file staff.csv`)
}
