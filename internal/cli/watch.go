// Copyright 2025 Scott Friedman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/zisraw/internal/watch"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch directories for new or changed CZI files",
		Long: `Watch one or more directories for file changes and register any CZI file
that appears or changes into the registry, debounced so a multi-gigabyte
file being written doesn't trigger a scan mid-write.

Examples:
  # Add a directory to watch
  zisraw watch add /data/microscope

  # List active watches
  zisraw watch list

  # Remove a watch
  zisraw watch remove /data/microscope-1700000000`,
	}

	cmd.AddCommand(NewWatchAddCmd())
	cmd.AddCommand(NewWatchListCmd())
	cmd.AddCommand(NewWatchRemoveCmd())

	return cmd
}

// NewWatchAddCmd creates the watch add subcommand.
func NewWatchAddCmd() *cobra.Command {
	var (
		debounce int
		minAge   int
	)

	cmd := &cobra.Command{
		Use:   "add <source>",
		Short: "Watch a directory and register new CZI files as they land",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]

			if verbose {
				fmt.Printf("Adding watch: %s\n", source)
			}

			store, err := openConfiguredStore()
			if err != nil {
				return err
			}

			manager := watch.NewManager(store)

			cfg := watch.DefaultConfig()
			cfg.Source = source
			cfg.DebounceDelay = time.Duration(debounce) * time.Second
			cfg.MinAge = time.Duration(minAge) * time.Second

			watchID := fmt.Sprintf("%s-%d", source, time.Now().Unix())

			if err := manager.AddWatch(watchID, cfg); err != nil {
				return fmt.Errorf("add watch: %w", err)
			}

			fmt.Printf("✓ Watch started: %s\n", watchID)
			fmt.Printf("  Source: %s\n", source)

			return nil
		},
	}

	cmd.Flags().IntVar(&debounce, "debounce", 5, "debounce delay in seconds")
	cmd.Flags().IntVar(&minAge, "min-age", 10, "minimum file age before registering in seconds")

	return cmd
}

// NewWatchListCmd creates the watch list subcommand.
func NewWatchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active watches",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager := watch.NewManager(store)
			if err := manager.LoadFromConfig(); err != nil {
				return fmt.Errorf("load watches: %w", err)
			}

			statuses := manager.List()
			if len(statuses) == 0 {
				fmt.Println("No active watches")
				return nil
			}

			fmt.Printf("Active watches: %d\n\n", len(statuses))

			for id, status := range statuses {
				fmt.Printf("Watch: %s\n", id)
				fmt.Printf("  Source: %s\n", status.Source)
				fmt.Printf("  Active: %v\n", status.Active)
				fmt.Printf("  Started: %s\n", status.StartedAt.Format(time.RFC3339))

				if !status.LastScan.IsZero() {
					fmt.Printf("  Last scan: %s\n", status.LastScan.Format(time.RFC3339))
					fmt.Printf("  Files registered: %d\n", status.FilesRegistered)
				}

				if status.ErrorCount > 0 {
					fmt.Printf("  Errors: %d\n", status.ErrorCount)
					if status.LastError != "" {
						fmt.Printf("  Last error: %s\n", status.LastError)
					}
				}

				fmt.Println()
			}

			return nil
		},
	}
}

// NewWatchRemoveCmd creates the watch remove subcommand.
func NewWatchRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a watch by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if verbose {
				fmt.Printf("Removing watch: %s\n", id)
			}

			store, err := openConfiguredStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager := watch.NewManager(store)
			if err := manager.LoadFromConfig(); err != nil {
				return fmt.Errorf("load watches: %w", err)
			}

			if err := manager.RemoveWatch(id); err != nil {
				return fmt.Errorf("remove watch: %w", err)
			}

			fmt.Printf("✓ Watch removed: %s\n", id)
			return nil
		},
	}
}
