package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var inspectAnnotated string

var inspectCmd = &cobra.Command{
	Use:   "inspect <image>...",
	Short: "Detect defects on local images and print the report",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectAnnotated, "annotated", "", "write the annotated JPEG to this path (an index is added for several images)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	d, err := offline()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		res, err := d.services.InspectionService.ProcessDefectPhoto(ctx, data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		desc, err := d.services.Describer.Describe(ctx, res.Result, res.Report)
		if err != nil {
			return err
		}

		if len(args) > 1 {
			fmt.Fprintf(out, "== %s\n", path)
		}
		fmt.Fprintln(out, desc.Text)

		if inspectAnnotated != "" && len(res.Highlighted) > 0 {
			dst := annotatedPath(inspectAnnotated, i, len(args))
			if err := os.WriteFile(dst, res.Highlighted, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(out, "annotated image: %s\n", dst)
		}
	}
	return nil
}

// annotatedPath out.jpg -> out_1.jpg, когда изображений несколько
func annotatedPath(base string, i, total int) string {
	if total <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), i+1, ext)
}
