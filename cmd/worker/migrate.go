package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/adminpanel-sm/adminpanel-backend/internal/migration"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import projects, items or a schema from a file",
		Long: `Import records from a JSON or YAML file.

Every record is checked before it is written. Invalid records are reported
and skipped; the rest are written at most --rate per second.

Examples:
  worker migrate projects projects.json
  worker migrate items --project kemet --section gods data/kemet/gods.json
  worker migrate schema --project bharat --section history schema-db/bharat-history.json
`,
	}
	cmd.PersistentFlags().Float64("rate", migration.DefaultRate, "Maximum store writes per second (0 = unlimited)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "projects <file>",
			Short: "Set each project under its key",
			Args:  cobra.ExactArgs(1),
			RunE:  runMigrateProjects,
		},
		sectionCmd("items <file>", "Add each item under a fresh id", runMigrateItems),
		sectionCmd("schema <file>", "Replace the section schema", runMigrateSchema),
	)
	return cmd
}

func sectionCmd(use, short string, run func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	cmd.Flags().String("project", "", "Project key (required)")
	if err := cmd.MarkFlagRequired("project"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("section", "", "Section name (required)")
	if err := cmd.MarkFlagRequired("section"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	return cmd
}

func runMigrateProjects(cmd *cobra.Command, args []string) error {
	return runImport(cmd, args[0], func(im *migration.Importer, records []any) (migration.Report, error) {
		return im.ImportProjects(cmd.Context(), records)
	})
}

func runMigrateItems(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	section, _ := cmd.Flags().GetString("section")
	return runImport(cmd, args[0], func(im *migration.Importer, records []any) (migration.Report, error) {
		return im.ImportItems(cmd.Context(), project, section, records)
	})
}

func runMigrateSchema(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	section, _ := cmd.Flags().GetString("section")
	return runImport(cmd, args[0], func(im *migration.Importer, records []any) (migration.Report, error) {
		return im.ImportSchema(cmd.Context(), project, section, records)
	})
}

func runImport(cmd *cobra.Command, path string, do func(*migration.Importer, []any) (migration.Report, error)) error {
	records, err := migration.ReadRecords(path)
	if err != nil {
		return err
	}

	perSecond, _ := cmd.Flags().GetFloat64("rate")

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	rep, err := do(migration.NewImporter(e.store, perSecond, e.log), records)

	out := cmd.OutOrStdout()
	for _, r := range rep.Results {
		if r.Accepted {
			fmt.Fprintf(out, "ok    #%d %s\n", r.Index, r.Label)
		} else {
			fmt.Fprintf(out, "skip  #%d %s: %s\n", r.Index, r.Label, r.Reason)
		}
	}
	fmt.Fprintln(out, rep.Summary())
	return err
}
