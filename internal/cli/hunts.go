package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spoor-app/spoor/internal/config"
	"github.com/spoor-app/spoor/internal/db"
	"github.com/spoor-app/spoor/internal/models"
)

var (
	huntCreateTerrain  string
	huntCreateVictory  string
	huntCreateFailure  string
	huntCreateDuration string
	huntUpdateStatus   string
	huntUpdateVictory  string
	huntUpdateFailure  string
	huntUpdateTerrain  string
	huntsDeleteConfirm bool
)

func init() {
	rootCmd.AddCommand(huntsCmd)
	huntsCmd.AddCommand(huntsListCmd)
	huntsCmd.AddCommand(huntsCreateCmd)
	huntsCmd.AddCommand(huntsShowCmd)
	huntsCmd.AddCommand(huntsUpdateCmd)
	huntsCmd.AddCommand(huntsDeleteCmd)
	huntsCmd.AddCommand(huntsSelectCmd)

	huntsCreateCmd.Flags().StringVar(&huntCreateTerrain, "terrain", "", "where the hunt happens")
	huntsCreateCmd.Flags().StringVar(&huntCreateVictory, "victory", "", "what success looks like")
	huntsCreateCmd.Flags().StringVar(&huntCreateFailure, "failure-modes", "", "known ways this hunt dies")
	huntsCreateCmd.Flags().StringVar(&huntCreateDuration, "duration", "", "intended duration (e.g. 12 weeks)")

	huntsUpdateCmd.Flags().StringVar(&huntUpdateStatus, "status", "", "hunt status (active, completed, abandoned)")
	huntsUpdateCmd.Flags().StringVar(&huntUpdateTerrain, "terrain", "", "where the hunt happens")
	huntsUpdateCmd.Flags().StringVar(&huntUpdateVictory, "victory", "", "what success looks like")
	huntsUpdateCmd.Flags().StringVar(&huntUpdateFailure, "failure-modes", "", "known ways this hunt dies")

	huntsDeleteCmd.Flags().BoolVar(&huntsDeleteConfirm, "yes", false, "skip confirmation")
}

var huntsCmd = &cobra.Command{
	Use:   "hunts",
	Short: "Manage hunts",
	Long:  "Create, list and update hunts. A hunt owns a canvas of nodes and a weekly log.",
}

var huntsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hunts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		hunts, err := db.NewHuntRepository(database).List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list hunts: %w", err)
		}

		if jsonOutput {
			return writeJSON(os.Stdout, hunts)
		}
		if len(hunts) == 0 {
			fmt.Fprintln(os.Stdout, "No hunts yet. Start one with: spoor hunts create <name>")
			return nil
		}

		rows := make([][]string, 0, len(hunts))
		for _, hunt := range hunts {
			rows = append(rows, []string{
				shortID(hunt.ID),
				hunt.Name,
				string(hunt.Status),
				hunt.StartDate.Format("2006-01-02"),
			})
		}
		return writeTable(os.Stdout, []string{"ID", "NAME", "STATUS", "STARTED"}, rows)
	},
}

var huntsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a hunt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		hunt := &models.Hunt{
			Name:              args[0],
			Terrain:           huntCreateTerrain,
			VictoryConditions: huntCreateVictory,
			FailureModes:      huntCreateFailure,
			Duration:          huntCreateDuration,
		}
		if err := db.NewHuntRepository(database).Create(ctx, hunt); err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(os.Stdout, hunt)
		}
		fmt.Fprintf(os.Stdout, "Created hunt %s (%s)\n", hunt.Name, shortID(hunt.ID))
		return nil
	},
}

var huntsShowCmd = &cobra.Command{
	Use:   "show [hunt]",
	Short: "Show a hunt's details",
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

		if jsonOutput {
			return writeJSON(os.Stdout, hunt)
		}

		fmt.Fprintf(os.Stdout, "Name:       %s\n", hunt.Name)
		fmt.Fprintf(os.Stdout, "ID:         %s\n", hunt.ID)
		fmt.Fprintf(os.Stdout, "Status:     %s\n", hunt.Status)
		fmt.Fprintf(os.Stdout, "Started:    %s\n", hunt.StartDate.Format("2006-01-02"))
		if hunt.Terrain != "" {
			fmt.Fprintf(os.Stdout, "Terrain:    %s\n", hunt.Terrain)
		}
		if hunt.VictoryConditions != "" {
			fmt.Fprintf(os.Stdout, "Victory:    %s\n", hunt.VictoryConditions)
		}
		if hunt.FailureModes != "" {
			fmt.Fprintf(os.Stdout, "Failure:    %s\n", hunt.FailureModes)
		}
		if hunt.Duration != "" {
			fmt.Fprintf(os.Stdout, "Duration:   %s\n", hunt.Duration)
		}
		return nil
	},
}

var huntsUpdateCmd = &cobra.Command{
	Use:   "update [hunt]",
	Short: "Update a hunt",
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

		if huntUpdateStatus != "" {
			hunt.Status = models.HuntStatus(huntUpdateStatus)
		}
		if huntUpdateTerrain != "" {
			hunt.Terrain = huntUpdateTerrain
		}
		if huntUpdateVictory != "" {
			hunt.VictoryConditions = huntUpdateVictory
		}
		if huntUpdateFailure != "" {
			hunt.FailureModes = huntUpdateFailure
		}

		if err := db.NewHuntRepository(database).Update(ctx, hunt); err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(os.Stdout, hunt)
		}
		fmt.Fprintf(os.Stdout, "Updated hunt %s\n", hunt.Name)
		return nil
	},
}

var huntsDeleteCmd = &cobra.Command{
	Use:   "delete <hunt>",
	Short: "Delete a hunt and everything on its canvas",
	Args:  cobra.ExactArgs(1),
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

		if !huntsDeleteConfirm {
			fmt.Fprintf(os.Stdout, "Delete hunt %q and all its nodes and logs? Re-run with --yes to confirm.\n", hunt.Name)
			return nil
		}

		if err := db.NewHuntRepository(database).Delete(ctx, hunt.ID); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted hunt %s\n", hunt.Name)
		return nil
	},
}

var huntsSelectCmd = &cobra.Command{
	Use:   "select <hunt>",
	Short: "Select the current hunt for canvas and log commands",
	Args:  cobra.ExactArgs(1),
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

		store := config.DefaultContextStore()
		current, err := store.Load()
		if err != nil {
			return err
		}
		current.SetHunt(hunt.ID, hunt.Name)
		if err := store.Save(current); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Selected hunt %s\n", hunt.Name)
		return nil
	},
}

// resolveHunt finds a hunt from an argument (id, id prefix, or exact
// name) or falls back to the selected hunt context.
func resolveHunt(ctx context.Context, database *db.DB, args []string) (*models.Hunt, error) {
	repo := db.NewHuntRepository(database)

	ref := ""
	if len(args) > 0 {
		ref = strings.TrimSpace(args[0])
	}
	if ref == "" {
		current, err := config.DefaultContextStore().Load()
		if err != nil {
			return nil, err
		}
		if current.IsEmpty() {
			return nil, fmt.Errorf("no hunt given and none selected; run: spoor hunts select <hunt>")
		}
		ref = current.HuntID
	}

	if hunt, err := repo.Get(ctx, ref); err == nil {
		return hunt, nil
	}

	hunts, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *models.Hunt
	for _, hunt := range hunts {
		if strings.HasPrefix(hunt.ID, ref) || strings.EqualFold(hunt.Name, ref) {
			if match != nil {
				return nil, fmt.Errorf("hunt reference %q is ambiguous", ref)
			}
			match = hunt
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no hunt matches %q", ref)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
