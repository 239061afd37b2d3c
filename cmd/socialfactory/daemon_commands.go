package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"socialfactory/internal/api"
	"socialfactory/internal/daemonrun"
	"socialfactory/internal/ipc"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var development bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the socialfactory daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:    logLevel,
				Development: development,
			})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().BoolVar(&development, "dev", false, "Enable development logging")
	return cmd
}

func newStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the socialfactory daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			socket := ctx.socketPath()

			if client, err := ipc.Dial(socket); err == nil {
				client.Close()
				fmt.Fprintln(stdout, "Daemon already running")
				return nil
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}

			launch := exec.Command(exe, launchArgs(ctx)...)
			launch.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
			if err := launch.Start(); err != nil {
				return fmt.Errorf("launch daemon: %w", err)
			}
			if err := launch.Process.Release(); err != nil {
				return fmt.Errorf("detach daemon process: %w", err)
			}
			fmt.Fprintln(stdout, "Daemon not running, launching...")

			deadline := time.Now().Add(10 * time.Second)
			for time.Now().Before(deadline) {
				if client, err := ipc.Dial(socket); err == nil {
					client.Close()
					fmt.Fprintln(stdout, "Daemon started")
					return nil
				}
				time.Sleep(200 * time.Millisecond)
			}
			return errors.New("daemon did not become reachable within 10s")
		},
	}
}

func launchArgs(ctx *commandContext) []string {
	args := []string{"run"}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			args = append(args, "--config", config)
		}
	}
	return args
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop daemon run processing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Stop(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped")
				return nil
			})
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and run queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				running := "stopped"
				if status.Running {
					running = "running"
				}
				fmt.Fprintf(out, "Daemon: %s (pid %d)\n", running, status.PID)
				fmt.Fprintf(out, "Database: %s\n", status.RunDBPath)
				if status.LastError != "" {
					fmt.Fprintf(out, "Last error: %s\n", status.LastError)
				}

				if len(status.StageHealth) > 0 {
					fmt.Fprintln(out)
					rows := make([][]string, 0, len(status.StageHealth))
					for _, stage := range status.StageHealth {
						detail := stage.Detail
						if stage.Ready && detail == "" {
							detail = "ready"
						}
						rows = append(rows, []string{api.StepLabel(stage.Name), yesNo(stage.Ready), detail})
					}
					table := renderTable(
						[]string{"Step", "Ready", "Detail"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft},
					)
					fmt.Fprintln(out, table)
				}

				fmt.Fprintln(out)
				rows := buildQueueStatusRows(status.QueueStats)
				if len(rows) == 0 {
					fmt.Fprintln(out, "No runs queued")
					return nil
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}
}
