package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"express-ledger-service/internal/api/dto"
	"express-ledger-service/internal/dates"
	"express-ledger-service/internal/domain"
	"express-ledger-service/internal/manifest"
	"express-ledger-service/internal/ports"
)

type options struct {
	json  bool
	title string
	clock ports.Clock
}

func newRootCmd() *cobra.Command {
	opts := &options{clock: ports.SystemClock}

	root := &cobra.Command{
		Use:           "manifest",
		Short:         "Parse express roll-call text",
		Long:          "Parse pasted express roll-call text into entries, totals or a shareable export. Reads FILE, or stdin when no file is given.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Write JSON instead of text")

	parseCmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the parsed entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readEntries(cmd, args)
			if err != nil {
				return err
			}
			return runParse(cmd.OutOrStdout(), opts, entries)
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Print the totals per category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readEntries(cmd, args)
			if err != nil {
				return err
			}
			return runStats(cmd.OutOrStdout(), opts, entries)
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Print a renumbered roll-call with a title and summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readEntries(cmd, args)
			if err != nil {
				return err
			}
			return runExport(cmd.OutOrStdout(), opts, entries)
		},
	}
	exportCmd.Flags().StringVar(&opts.title, "title", "", "Title line text (default today, e.g. \"1月2日 星期五\")")

	root.AddCommand(parseCmd, statsCmd, exportCmd)
	return root
}

func readEntries(cmd *cobra.Command, args []string) ([]domain.ManifestEntry, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return manifest.SplitAndParse(string(data)), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runParse(w io.Writer, opts *options, entries []domain.ManifestEntry) error {
	if opts.json {
		res := dto.ParseResponse{
			Entries:    make([]dto.EntryResponse, 0, len(entries)),
			Statistics: dto.FromStatistics(manifest.Aggregate(entries)),
		}
		for _, e := range entries {
			res.Entries = append(res.Entries, dto.FromEntry(e))
		}
		return writeJSON(w, res)
	}

	for i, e := range entries {
		fmt.Fprintf(w, "%d. 接龙人=%s 电话=%s 地址=%s 数量=%s",
			i+1, e.Recorder, e.Phone, e.Address, manifest.QuantityToken(e.Quantities))
		if e.Recipient != "" {
			fmt.Fprintf(w, " 收件人=%s", e.Recipient)
		}
		if e.Remark != "" {
			fmt.Fprintf(w, " 备注=%s", e.Remark)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func runStats(w io.Writer, opts *options, entries []domain.ManifestEntry) error {
	s := manifest.Aggregate(entries)
	if opts.json {
		return writeJSON(w, dto.FromStatistics(s))
	}
	_, err := fmt.Fprintln(w, manifest.SummaryLine(s))
	return err
}

func runExport(w io.Writer, opts *options, entries []domain.ManifestEntry) error {
	title := opts.title
	if title == "" {
		title = dates.Display(dates.Today(opts.clock))
	}
	text := manifest.RenderExport(title, entries)
	if opts.json {
		return writeJSON(w, map[string]string{"title": title, "text": text})
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
