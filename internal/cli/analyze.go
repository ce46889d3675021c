package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spoor-app/spoor/internal/canvas"
	"github.com/spoor-app/spoor/internal/db"
)

var analyzeThreshold float64

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", canvas.DefaultClusterThreshold, "similarity threshold for grouping")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [hunt]",
	Short: "Group a hunt's nodes by text similarity",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		hunt, err := resolveHunt(ctx, database, args)
		if err != nil {
			return err
		}

		nodes, err := db.NewNodeRepository(database).ListNodes(ctx, hunt.ID)
		if err != nil {
			return err
		}

		clusters := canvas.Clusters(nodes, analyzeThreshold)

		if jsonOutput {
			return writeJSON(os.Stdout, clusters)
		}
		if len(clusters) == 0 {
			fmt.Fprintln(os.Stdout, "No similar node groups found.")
			return nil
		}

		for i, cluster := range clusters {
			fmt.Fprintf(os.Stdout, "Group %d (center %.0f, %.0f):\n", i+1, cluster.CenterX, cluster.CenterY)
			for _, node := range cluster.Nodes {
				fmt.Fprintf(os.Stdout, "  - %s\n", node.Text)
			}
		}
		return nil
	},
}
