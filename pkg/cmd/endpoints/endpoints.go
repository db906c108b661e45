package endpoints

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/openf1-analysis/pkg/openf1"
)

func NewEndpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints [endpoint]",
		Short: "lists the OpenF1 endpoints and their filter fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eps := openf1.Endpoints()
			if len(args) == 1 {
				e, err := openf1.LookupEndpoint(args[0])
				if err != nil {
					return err
				}
				eps = []openf1.Endpoint{e}
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Endpoint", "Description", "Fields"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 2, WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
				{Number: 3, WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
			})
			for _, e := range eps {
				t.AppendRow(table.Row{e.Name, e.Description, strings.Join(e.Fields, ", ")})
				t.AppendSeparator()
			}
			t.Render()
			return nil
		},
	}
}
