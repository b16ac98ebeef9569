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

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/zisraw/internal/config"
	"github.com/scttfrdmn/zisraw/internal/server"
	"github.com/scttfrdmn/zisraw/internal/watch"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry over HTTP and run configured watches",
		Long: `Start the HTTP registry browser (GET /images, /images/{guid},
/images/{guid}/thumbnail, /images/{guid}/metadata.xml) and start every
enabled watch from the configuration file alongside it.

Examples:
  zisraw serve
  zisraw serve --addr :9090`,
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

			listenAddr := addr
			if listenAddr == "" {
				cfg, err := config.LoadOrDefault()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				listenAddr = cfg.Server.Addr
			}

			fmt.Printf("Serving registry on %s\n", listenAddr)
			srv := server.New(store)
			return srv.ListenAndServe(listenAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (default: server.addr from config)")
	return cmd
}
