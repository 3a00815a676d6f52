package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrijr/blockflow"
)

func catalogCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the step templates available to a sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(g.cfg.CatalogPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), catalogTable(cat.Templates()))
			return nil
		},
	}
}

func loadCatalog(path string) (*blockflow.Catalog, error) {
	if path == "" {
		return blockflow.DefaultCatalog(), nil
	}
	return blockflow.LoadCatalogFile(path)
}

func catalogTable(templates []blockflow.Template) string {
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			t.Kind,
			t.Label,
			t.EstimatedDuration.String(),
			t.Description,
		})
	}
	return Table([]string{"KIND", "LABEL", "ESTIMATE", "DESCRIPTION"}, rows)
}
