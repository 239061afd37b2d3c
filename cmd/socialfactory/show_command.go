package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"socialfactory/internal/ipc"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <runID>",
		Short: "Show full details for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RunDescribe(id)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, line := range runDetailLines(resp.Item) {
					fmt.Fprintln(out, line)
				}

				if rows := buildStepRows(resp.Item); len(rows) > 0 {
					fmt.Fprintln(out)
					table := renderTable(
						[]string{"Step", "Status", "Error"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft},
					)
					fmt.Fprintln(out, table)
				}

				if lines := runResultLines(resp.Item); len(lines) > 0 {
					fmt.Fprintln(out)
					for _, line := range lines {
						fmt.Fprintln(out, line)
					}
				}
				return nil
			})
		},
	}
}
