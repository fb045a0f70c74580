package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adminpanel-sm/adminpanel-backend/internal/migration"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the store to disk in the layout migrate reads",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	cmd.Flags().String("out", "export", "Output directory")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("out")

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	sum, err := migration.NewExporter(e.store, e.log).Export(cmd.Context(), dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported %d projects, %d sections, %d items, %d schemas to %s\n",
		sum.Projects, sum.Sections, sum.Items, sum.Schemas, sum.Dir)
	return nil
}
