package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spoor-app/spoor/internal/canvas"
	"github.com/spoor-app/spoor/internal/canvastui"
	"github.com/spoor-app/spoor/internal/client"
	"github.com/spoor-app/spoor/internal/db"
	"github.com/spoor-app/spoor/internal/logging"
	"github.com/spoor-app/spoor/internal/models"
)

var canvasAddr string

func init() {
	rootCmd.AddCommand(canvasCmd)
	canvasCmd.Flags().StringVar(&canvasAddr, "addr", "", "connect to a remote spoor server instead of the local database")
}

var canvasCmd = &cobra.Command{
	Use:   "canvas [hunt]",
	Short: "Open the interactive canvas for a hunt",
	Long: `Open the node-graph canvas. Drag nodes to move them, drag empty
space to pan, double-click to create or edit, right-click to create
anywhere. With --addr the canvas runs against a remote spoor server.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var hunt *models.Hunt
		var store canvas.Store

		if canvasAddr != "" {
			remote := client.New(normalizeAddr(canvasAddr))
			if err := remote.Health(ctx); err != nil {
				return fmt.Errorf("server at %s is not reachable: %w", canvasAddr, err)
			}
			resolved, err := resolveRemoteHunt(ctx, remote, args)
			if err != nil {
				return err
			}
			hunt = resolved
			store = remote
		} else {
			database, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			resolved, err := resolveHunt(ctx, database, args)
			if err != nil {
				return err
			}
			hunt = resolved
			store = db.NewNodeRepository(database)
		}

		return canvastui.Run(canvastui.Options{
			Hunt:        hunt,
			Store:       store,
			Logger:      logging.Component("canvas"),
			Theme:       cfg.TUI.Theme,
			DoubleClick: time.Duration(cfg.TUI.DoubleClickMs) * time.Millisecond,
		})
	},
}

func normalizeAddr(addr string) string {
	if len(addr) >= 7 && (addr[:7] == "http://" || (len(addr) >= 8 && addr[:8] == "https://")) {
		return addr
	}
	return "http://" + addr
}

func resolveRemoteHunt(ctx context.Context, remote *client.Client, args []string) (*models.Hunt, error) {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	if ref == "" {
		return nil, fmt.Errorf("a hunt id or name is required with --addr")
	}

	if hunt, err := remote.GetHunt(ctx, ref); err == nil {
		return hunt, nil
	}

	hunts, err := remote.ListHunts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range hunts {
		if hunts[i].Name == ref {
			return &hunts[i], nil
		}
	}
	return nil, fmt.Errorf("no hunt matches %q on %s", ref, canvasAddr)
}
