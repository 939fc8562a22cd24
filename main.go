package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/vegasq/logq/app"
	"github.com/vegasq/logq/common"
)

var (
	cli     = kingpin.New("logq", "Query structured access-log files (ELB, ALB, Squid, S3) with SQL SELECT statements.")
	verbose = cli.Flag("verbose", "Enable debug logging.").Short('v').Bool()

	selectCmd  = cli.Command("select", "Run a SELECT query against a log file.")
	queryArg   = selectCmd.Arg("query", "Query, e.g. \"SELECT * FROM elb LIMIT 10\".").Required().String()
	fileArg    = selectCmd.Arg("file", "Log file to read; '-' reads standard input.").Required().String()
	explainArg = selectCmd.Flag("explain", "Print the compiled query plan instead of executing it.").Bool()
	outputArg  = selectCmd.Flag("output", "Output mode.").Default("table").Enum("table", "csv", "json")
)

func newLogger(verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func main() {
	switch kingpin.MustParse(cli.Parse(os.Args[1:])) {
	case selectCmd.FullCommand():
		logger := newLogger(*verbose)

		mode, err := app.ParseOutputMode(*outputArg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		source := common.NewFileSource(*fileArg)
		if *fileArg == "-" {
			source = common.NewStdinSource()
		}

		if err := app.Run(*queryArg, source, *explainArg, mode, os.Stdout, logger); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
