package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pable/cs-logstats/internal/loader"
	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/model"
	"github.com/pable/cs-logstats/internal/pipeline"
	"github.com/pable/cs-logstats/internal/storage"
)

var (
	exportFormat string
	exportOut    string
	exportRound  int
	exportFinal  bool
)

// exportDoc is the document written by export.
type exportDoc struct {
	Hash    string             `json:"hash" yaml:"hash"`
	Source  string             `json:"source" yaml:"source"`
	MapName string             `json:"map_name,omitempty" yaml:"map_name,omitempty"`
	Teams   []string           `json:"teams" yaml:"teams"`
	Players []model.Player     `json:"players" yaml:"players"`
	Rounds  []model.RoundStats `json:"rounds" yaml:"rounds"`
}

var exportCmd = &cobra.Command{
	Use:   "export <log | url | - | hash-prefix>",
	Short: "Export per-round stats as JSON or YAML",
	Long: `Compute per-round stats and write them as a JSON or YAML document. The
argument is read as a log source when it is "-", an http(s) URL or an existing
file; otherwise it is looked up as a hash prefix in the library.

Example:
  cslogstats export match.log --format yaml --out match.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().IntVar(&exportRound, "round", 0, "export only this round (1-based)")
	exportCmd.Flags().BoolVar(&exportFinal, "final", false, "export only the final round")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "json" && exportFormat != "yaml" {
		return fmt.Errorf("unknown format %q: want json or yaml", exportFormat)
	}

	doc, err := buildExport(cmd, args[0])
	if err != nil {
		return err
	}
	if doc == nil {
		fmt.Fprintf(os.Stderr, "No log found with hash prefix %q\n", args[0])
		return nil
	}

	doc.Rounds, err = selectRounds(doc.Rounds, exportRound, exportFinal)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer log.Closer(f)
		w = f
	}

	if err := writeExport(w, doc, exportFormat); err != nil {
		return err
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d rounds to %s\n", len(doc.Rounds), exportOut)
	}
	return nil
}

func buildExport(cmd *cobra.Command, arg string) (*exportDoc, error) {
	if isSource(arg) {
		res, raw, err := loadAndRun(cmd.Context(), arg)
		if err != nil {
			return nil, err
		}
		return newExportDoc(storage.HashLog(raw), arg, res), nil
	}

	db, err := openLibrary()
	if err != nil {
		return nil, err
	}
	defer log.Closer(db)

	summary, res, err := storedLog(db, arg)
	if err != nil || summary == nil {
		return nil, err
	}
	return newExportDoc(summary.Hash, summary.Source, res), nil
}

func isSource(arg string) bool {
	if arg == loader.Stdin || loader.IsRemote(arg) {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

func newExportDoc(hash, source string, res *pipeline.Result) *exportDoc {
	teams := make([]string, len(res.Teams))
	for i, t := range res.Teams {
		teams[i] = t.Name
	}
	return &exportDoc{
		Hash:    hash,
		Source:  source,
		MapName: res.MapName,
		Teams:   teams,
		Players: res.Players,
		Rounds:  res.RoundStats,
	}
}

func writeExport(w io.Writer, doc *exportDoc, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
