package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/cs-logstats/internal/aggregator"
	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/model"
	"github.com/pable/cs-logstats/internal/report"
	"github.com/pable/cs-logstats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the log library. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openLibrary()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	cGreeting.Println("cslogstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	return shellLoop(cmd.Context(), db, os.Stdin, os.Stdout)
}

// shellLoop reads commands from in until EOF or exit. Command errors are
// printed and the session continues.
func shellLoop(ctx context.Context, db *storage.DB, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		cPrompt.Fprint(out, "cslogstats")
		cMuted.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		var err error
		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp(out)
		case "list":
			err = shellList(db, out)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(out, "usage: show <hash-prefix> [--round N | --final]")
				continue
			}
			err = shellShow(db, out, args)
		case "player":
			if len(args) == 0 {
				cError.Fprintln(out, "usage: player <steam-id> [...]")
				continue
			}
			err = shellPlayer(ctx, db, out, args)
		default:
			cWarn.Fprintf(out, "unknown command %q, type 'help'\n", cmd)
		}
		if err != nil {
			cError.Fprintf(out, "error: %v\n", err)
		}
	}
}

func shellHelp(out io.Writer) {
	fmt.Fprintln(out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored logs"},
		{"show <hash-prefix>", "recompute and show a log's per-round stats"},
		{"show <hash-prefix> --round N", "same, only round N"},
		{"show <hash-prefix> --final", "same, only the final round"},
		{"player <steam-id> [...]", "cross-log totals for one or more players"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(out, "  ")
		cCmd.Fprintf(out, "%-32s", r.cmd)
		fmt.Fprintln(out, r.desc)
	}
	fmt.Fprintln(out)
}

func shellList(db *storage.DB, out io.Writer) error {
	logs, err := db.ListLogs()
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		cMuted.Fprintln(out, "No logs stored yet.")
		return nil
	}
	report.PrintLogList(out, logs, time.Now())
	return nil
}

func shellShow(db *storage.DB, out io.Writer, args []string) error {
	prefix := args[0]
	var (
		round int
		final bool
	)
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--final":
			final = true
		case "--round":
			if i+1 >= len(args) {
				return fmt.Errorf("--round needs a number")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid round %q", args[i+1])
			}
			round = n
			i++
		}
	}

	summary, res, err := storedLog(db, prefix)
	if err != nil {
		return err
	}
	if summary == nil {
		cWarn.Fprintf(out, "no log found with prefix %q\n", prefix)
		return nil
	}
	stats, err := selectRounds(res.RoundStats, round, final)
	if err != nil {
		return err
	}
	report.PrintLogSummary(out, *summary)
	report.PrintRounds(out, stats, res.Teams)
	return nil
}

func shellPlayer(ctx context.Context, db *storage.DB, out io.Writer, args []string) error {
	_, all, err := recomputeAll(ctx, db)
	if err != nil {
		return err
	}
	careers := aggregator.Careers(all)

	var found []model.PlayerCareer
	for _, arg := range args {
		c, ok := findCareer(careers, arg)
		if !ok {
			cWarn.Fprintf(out, "no data for %s\n", arg)
			continue
		}
		found = append(found, c)
	}
	if len(found) > 0 {
		report.PrintCareerTable(out, found)
	}
	return nil
}
