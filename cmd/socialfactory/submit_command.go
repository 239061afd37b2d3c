package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"socialfactory/internal/api"
	"socialfactory/internal/ipc"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var platform string
	var tone string
	var requireApproval bool
	var generateVideo bool

	cmd := &cobra.Command{
		Use:   "submit <topic>",
		Short: "Queue a content run for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.TrimSpace(strings.Join(args, " "))
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Submit(ipc.SubmitRequest{
					Topic:           topic,
					Platform:        platform,
					Tone:            tone,
					RequireApproval: requireApproval,
					GenerateVideo:   generateVideo,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %d queued for %s\n", resp.Item.ID, api.PlatformLabel(resp.Item.Platform))
				if resp.Item.RequireApproval {
					fmt.Fprintln(out, "The run will pause for approval before publishing")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "linkedin", "Target platform (instagram, tiktok, youtube, twitter, linkedin, wordpress)")
	cmd.Flags().StringVar(&tone, "tone", "", "Optional tone hint for generated copy")
	cmd.Flags().BoolVar(&requireApproval, "approval", true, "Pause the run for manual approval before publishing")
	cmd.Flags().BoolVar(&generateVideo, "video", true, "Also generate a short video for the run")
	return cmd
}
