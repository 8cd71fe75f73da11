package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func printersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "printers",
		Short: "List installed printers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printers, err := c.app.Printers.Refresh()
			if err != nil {
				return err
			}
			sort.Slice(printers, func(i, j int) bool { return printers[i].Name < printers[j].Name })

			w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tPORT\tDRIVER\tDEFAULT")
			for _, p := range printers {
				mark := ""
				if p.IsDefault {
					mark = "*"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Port, p.Driver, mark)
			}
			return w.Flush()
		},
	}
}

func papersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "papers <printer>",
		Short: "List the paper sizes a printer's driver supports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caps, err := c.app.Papers.Capabilities(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME")
			for _, p := range caps {
				_, _ = fmt.Fprintf(w, "%d\t%s\n", p.PaperID, p.PaperName)
			}
			return w.Flush()
		},
	}
}
