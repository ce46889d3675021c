package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spoor-app/spoor/internal/db"
	"github.com/spoor-app/spoor/internal/models"
)

var (
	logsAddWeek          int
	logsAddBreakthroughs []string
	logsAddFailed        []string
	logsHunt             string
)

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsAddCmd)
	logsCmd.AddCommand(logsDeleteCmd)

	logsCmd.PersistentFlags().StringVar(&logsHunt, "hunt", "", "hunt id or name (default: selected hunt)")

	logsAddCmd.Flags().IntVar(&logsAddWeek, "week", 0, "week number")
	logsAddCmd.Flags().StringArrayVar(&logsAddBreakthroughs, "breakthrough", nil, "a breakthrough this week (repeatable)")
	logsAddCmd.Flags().StringArrayVar(&logsAddFailed, "failed", nil, "an approach that failed this week (repeatable)")
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Manage a hunt's weekly log",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List log entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		hunt, err := resolveHunt(ctx, database, argsOrHuntFlag(nil))
		if err != nil {
			return err
		}

		logs, err := db.NewLogRepository(database).ListByHunt(ctx, hunt.ID)
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(os.Stdout, logs)
		}
		if len(logs) == 0 {
			fmt.Fprintln(os.Stdout, "No log entries yet.")
			return nil
		}

		rows := make([][]string, 0, len(logs))
		for _, log := range logs {
			rows = append(rows, []string{
				shortID(log.ID),
				strconv.Itoa(log.WeekNumber),
				log.CreatedAt.Format("2006-01-02"),
				log.Entry,
			})
		}
		return writeTable(os.Stdout, []string{"ID", "WEEK", "DATE", "ENTRY"}, rows)
	},
}

var logsAddCmd = &cobra.Command{
	Use:   "add <entry>",
	Short: "Add a log entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		hunt, err := resolveHunt(ctx, database, argsOrHuntFlag(nil))
		if err != nil {
			return err
		}

		log := &models.HuntLog{
			HuntID:           hunt.ID,
			WeekNumber:       logsAddWeek,
			Entry:            args[0],
			Breakthroughs:    logsAddBreakthroughs,
			FailedApproaches: logsAddFailed,
		}
		if err := db.NewLogRepository(database).Create(ctx, log); err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(os.Stdout, log)
		}
		fmt.Fprintf(os.Stdout, "Logged week %d for %s\n", log.WeekNumber, hunt.Name)
		return nil
	},
}

var logsDeleteCmd = &cobra.Command{
	Use:   "delete <log-id>",
	Short: "Delete a log entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.NewLogRepository(database).Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Deleted log entry")
		return nil
	},
}

// argsOrHuntFlag lets log commands take the hunt from --hunt while
// reusing the positional resolver.
func argsOrHuntFlag(args []string) []string {
	if logsHunt != "" {
		return []string{logsHunt}
	}
	return args
}
