package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewGraphCmd creates the command group for managing graphs.
func NewGraphCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Manage graphs",
	}

	cmd.AddCommand(
		newGraphCreateCmd(clientFn, outputFn),
		newGraphListCmd(clientFn, outputFn),
	)

	return cmd
}

func newGraphCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var specFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a graph from a JSON definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := os.ReadFile(specFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", specFile, err)
			}

			var spec GraphSpec
			if err := json.Unmarshal(data, &spec); err != nil {
				return fmt.Errorf("invalid graph definition: %w", err)
			}

			created, err := client.CreateGraph(spec)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"GRAPH_ID", "MESSAGE"},
				[][]string{{created.GraphID, created.Message}},
				created,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&specFile, "file", "f", "", "Path to the graph definition JSON file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newGraphListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List graph ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			ids, err := client.ListGraphs()
			if err != nil {
				return err
			}

			rows := make([][]string, len(ids))
			for i, id := range ids {
				rows[i] = []string{id}
			}

			out.Print([]string{"GRAPH_ID"}, rows, ids)
			return nil
		},
	}
}
