package main

import (
	"context"
	"fmt"

	"github.com/rentdesk/cli/export"
)

type exporter interface {
	Export(ctx context.Context) ([]byte, error)
}

// exportCommand downloads a resource workbook and saves it as xlsx or csv.
func exportCommand(resource string, svc func(*app) exporter) command {
	return func(ctx context.Context, a *app, args []string) error {
		fs := newFlagSet(resource + " export")
		output := fs.String("o", "", "output file (default: "+resource+".<format>)")
		format := fs.String("format", "xlsx", "output format: xlsx or csv")
		if err := fs.Parse(args); err != nil {
			return err
		}
		f, err := export.ParseFormat(*format)
		if err != nil {
			return err
		}
		path := *output
		if path == "" {
			path = export.FileName(resource, f)
		}

		if err := a.ensureSession(ctx); err != nil {
			return err
		}
		a.display.Working("Exporting " + resource)

		workbook, err := svc(a).Export(ctx)
		if err != nil {
			return err
		}
		rows, err := export.Save(workbook, path, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Wrote %d rows to %s\n", rows, path)
		a.display.Done(fmt.Sprintf("Exported %s to %s", resource, path))
		return nil
	}
}
