package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"socialfactory/internal/ipc"
)

func newApproveCommand(ctx *commandContext) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "approve <runID>",
		Short: "Approve a run waiting at the approval gate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Approve(id, note); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Run %d approved\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "Optional review note")
	return cmd
}

func newRejectCommand(ctx *commandContext) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "reject <runID>",
		Short: "Reject a run waiting at the approval gate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Reject(id, note); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Run %d rejected\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "Optional review note")
	return cmd
}

func parseRunID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run id %q", value)
	}
	return id, nil
}
