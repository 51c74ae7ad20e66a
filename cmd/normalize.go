package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/siimots/sadamad-data/internal/fetcher"
	"github.com/siimots/sadamad-data/internal/model"
	"github.com/siimots/sadamad-data/internal/normalize"
)

var (
	normalizeID   string
	normalizeName string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE",
	Short: "Normalize a saved port detail JSON file and print the feature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return normalizeFile(args[0], model.PortID(normalizeID), normalizeName, cmd.OutOrStdout())
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeID, "id", "", "register id of the port")
	normalizeCmd.Flags().StringVar(&normalizeName, "name", "", "port name as listed")
	_ = normalizeCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(normalizeCmd)
}

func normalizeFile(path string, id model.PortID, name string, w io.Writer) error {
	fh, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "normalize: open %s", path)
	}
	defer fh.Close() //nolint:errcheck

	detail, err := fetcher.DecodeJSONObject[model.RawPortDetail](fh)
	if err != nil {
		return eris.Wrapf(err, "normalize: decode %s", path)
	}

	feature, err := normalize.Normalize(model.RawPortSummary{ID: id, Name: name}, *detail)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(feature); err != nil {
		return eris.Wrap(err, "normalize: encode feature")
	}
	return nil
}
