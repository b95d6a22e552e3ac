package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nasabhq/nasab/internal/kinship"
)

type exportFlags struct {
	format     string
	output     string
	types      string
	activeOnly bool
}

var validExportFormats = []string{"json", "csv"}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export <person-id>",
		Short: "Export a person's relationships to file",
		Long:  "Exports a person's relationship edges to JSON or CSV with audit fields stripped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.types, "types", "t", "", "Comma-separated relationship types to include")
	cmd.Flags().BoolVar(&flags.activeOnly, "active", false, "Only ACTIVE relationships")

	return cmd
}

func runExport(cmd *cobra.Command, personID string, flags exportFlags) error {
	if !contains(validExportFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validExportFormats)
	}

	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		result, err := d.Engine.Export(ctx, kinship.ExportFilter{
			PersonID:   personID,
			Types:      parseTypeList(flags.types),
			ActiveOnly: flags.activeOnly,
		})
		if err != nil {
			return err
		}

		if err := writeExport(flags, result); err != nil {
			return err
		}
		if flags.output != "" {
			fmt.Printf("Exported %d records to %s\n", result.RecordCount, flags.output)
		}
		return nil
	})
}

func writeExport(flags exportFlags, result *kinship.ExportResult) (err error) {
	var w io.Writer
	var f *os.File

	if flags.output != "" {
		f, err = os.OpenFile(flags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	switch flags.format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "csv":
		return formatCSV(w, result.Records)
	default:
		return fmt.Errorf("unknown format: %s", flags.format)
	}
}

func formatCSV(w io.Writer, records []kinship.ExportRecord) error {
	writer := csv.NewWriter(w)

	header := []string{
		"person_id", "related_person_id", "relationship_type",
		"reciprocal_relationship_type", "relationship_status",
		"certainty_level", "is_biological", "start_date", "end_date",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.PersonID,
			r.RelatedPersonID,
			string(r.Type),
			string(r.ReciprocalType),
			string(r.Status),
			string(r.Certainty),
			fmt.Sprintf("%t", r.IsBiological),
			formatDate(r.StartDate),
			formatDate(r.EndDate),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
