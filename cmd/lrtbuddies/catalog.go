package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	flags := &appFlags{}
	var dump bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the station catalog database",
		RunE: func(cmd *cobra.Command, args []string) error {
			coreApp, err := BuildApplication(flags.toConfig())
			if err != nil {
				return err
			}
			defer func() { _ = coreApp.CatalogDB.Close() }()
			defer coreApp.Metrics.Shutdown()

			out := cmd.OutOrStdout()

			if dump {
				contents, err := coreApp.CatalogDB.DumpCatalog(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(out, contents)
				return nil
			}

			counts, err := coreApp.CatalogDB.TableCounts()
			if err != nil {
				return err
			}

			tables := make([]string, 0, len(counts))
			for table := range counts {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				fmt.Fprintf(out, "%-15s %d\n", table, counts[table])
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the full catalog contents")
	return cmd
}
