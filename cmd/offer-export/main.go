package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"offer-export/internal/app"
	"offer-export/internal/export"
	"offer-export/internal/logger"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	bannerColor  = color.New(color.FgCyan, color.Bold)
)

const (
	exitOK          = 0
	exitFailed      = 1
	exitInterrupted = 130
)

func main() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	code := run(os.Stdout, sigCh)
	signal.Stop(sigCh)
	os.Exit(code)
}

func run(out io.Writer, sigCh <-chan os.Signal) int {
	a, err := app.Load()
	if err != nil {
		_, _ = errorColor.Fprintf(out, "Failed to load configuration: %v\n", err)
		return exitFailed
	}
	defer a.Close()

	printBanner(out)
	return execute(out, a.Runner().Run, sigCh, a.Log)
}

type runFunc func(ctx context.Context, opts export.RunOptions) (export.Result, error)

// execute runs one export and maps its outcome to an exit code. A signal on
// sigCh cancels the run and wins over whatever the run returns afterwards.
func execute(out io.Writer, runExport runFunc, sigCh <-chan os.Signal, log logger.LoggerService) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type outcome struct {
		res export.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := runExport(ctx, export.RunOptions{
			Progress: func(msg string) { fmt.Fprintln(out, msg) },
		})
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		return report(out, o.res, o.err)
	case sig := <-sigCh:
		cancel()
		log.Warn(fmt.Sprintf("interrupted by signal: %s", sig))
		_, _ = warnColor.Fprintln(out, "\n\nOperation cancelled by the user.")
		return exitInterrupted
	}
}

func report(out io.Writer, res export.Result, err error) int {
	switch {
	case errors.Is(err, export.ErrNoData):
		_, _ = warnColor.Fprintln(out, export.Describe(err))
		return exitFailed
	case err != nil:
		_, _ = errorColor.Fprintln(out, export.Describe(err))
		return exitFailed
	}

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	_, _ = successColor.Fprintln(out, "SUCCESS! File generated:")
	fmt.Fprintln(out, res.Path)
	fmt.Fprintln(out, rule)
	return exitOK
}

func printBanner(out io.Writer) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, rule)
	_, _ = bannerColor.Fprintln(out, "FLASH OFFER SPREADSHEET EXPORT")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)
}
