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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/zisraw/internal/registry"
)

// NewRegisterCmd creates the register command.
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <path>...",
		Short: "Register one or more local CZI files into the registry",
		Long: `Open each path with the core reader and insert or reconcile its image
row, per the Inserted / ImageAlreadyRegistered / FileAlreadyRegistered
split a registry lookup can produce.

Examples:
  zisraw register data/experiment.czi
  zisraw register data/*.czi`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := context.Background()
			var hadError bool
			for _, path := range args {
				result, err := store.Register(ctx, path)
				if err != nil {
					fmt.Printf("✗ %s: %v\n", path, err)
					hadError = true
					continue
				}
				printRegisterResult(path, result)
			}
			if hadError {
				return fmt.Errorf("one or more files failed to register")
			}
			return nil
		},
	}

	return cmd
}

func printRegisterResult(path string, result *registry.RegisterResult) {
	switch result.Outcome {
	case registry.Inserted:
		fmt.Printf("✓ %s: registered as %s\n", path, result.GUID)
	case registry.ImageAlreadyRegistered:
		fmt.Printf("= %s: image %s already known under %v\n", path, result.GUID, result.ExistingPaths)
	case registry.FileAlreadyRegistered:
		fmt.Printf("= %s: already registered\n", path)
	}
}
