package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the command group for managing runs.
func NewRunCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage runs",
	}

	cmd.AddCommand(
		newRunStartCmd(clientFn, outputFn),
		newRunListCmd(clientFn, outputFn),
		newRunShowCmd(clientFn, outputFn),
		newRunLogsCmd(clientFn, outputFn),
		newRunWatchCmd(clientFn, outputFn),
	)

	return cmd
}

func newRunStartCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var inputs []string
	var watch bool

	cmd := &cobra.Command{
		Use:   "start GRAPH_ID",
		Short: "Start a new run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			state := make(map[string]any)
			for _, kv := range inputs {
				parts := strings.SplitN(kv, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid input format %q, expected KEY=VALUE", kv)
				}
				state[parts[0]] = parts[1]
			}

			created, err := client.StartRun(args[0], state)
			if err != nil {
				return err
			}

			if watch {
				out.Success("Run " + created.RunID + " started")
				return client.WatchRun(created.RunID, out.Line)
			}

			out.Print(
				[]string{"RUN_ID", "STATUS"},
				[][]string{{created.RunID, created.Status}},
				created,
			)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&inputs, "input", nil, "Initial state entry in KEY=VALUE form (repeatable)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Stream log lines until the run finishes")

	return cmd
}

func newRunListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			runs, err := client.ListRuns()
			if err != nil {
				return err
			}

			headers := []string{"ID", "GRAPH_ID", "STATUS", "STEPS", "CREATED"}
			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{r.ID, r.GraphID, r.Status, fmt.Sprintf("%d", len(r.History)), r.Created}
			}

			out.Print(headers, rows, runs)
			return nil
		},
	}
}

func newRunShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show a run record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			run, err := client.GetRun(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "GRAPH_ID", "STATUS", "STEPS", "ERROR"}
			rows := [][]string{{run.ID, run.GraphID, run.Status, fmt.Sprintf("%d", len(run.History)), run.Error}}

			out.Print(headers, rows, run)
			return nil
		},
	}
}

func newRunLogsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "logs RUN_ID",
		Short: "Print the stored log lines of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			run, err := client.GetRun(args[0])
			if err != nil {
				return err
			}

			for _, line := range run.Logs {
				out.Line(line)
			}
			return nil
		},
	}
}

func newRunWatchCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "watch RUN_ID",
		Short: "Stream log lines of a run until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			return client.WatchRun(args[0], out.Line)
		},
	}
}
