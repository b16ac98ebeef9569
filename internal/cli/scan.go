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
	"strings"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/zisraw/internal/discover"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "scan <source>",
		Short: "Scan a directory or S3 bucket and register every CZI file found",
		Long: `Walk source, which is either a local directory or an s3://bucket/prefix
URI, and register every CZI file it finds into the registry.

Examples:
  zisraw scan /data/microscope
  zisraw scan s3://my-bucket/lab-data
  zisraw scan s3://my-bucket --prefix 2024/experiments`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			ctx := context.Background()

			backend, scanPrefix, err := createScanBackend(ctx, source)
			if err != nil {
				return fmt.Errorf("create backend: %w", err)
			}
			defer func() { _ = backend.Close() }()

			if prefix != "" {
				scanPrefix = prefix
			}

			store, err := openConfiguredStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			scanner := discover.NewScanner(backend, store)
			result, err := scanner.Scan(ctx, scanPrefix)
			if err != nil {
				return fmt.Errorf("scan %s: %w", source, err)
			}

			fmt.Printf("Scanned %d CZI file(s), registered %d, skipped %d non-CZI entr%s\n",
				result.Scanned, result.Registered, result.Skipped, pluralSuffix(result.Skipped))
			for _, scanErr := range result.Errors {
				fmt.Printf("  error: %v\n", scanErr)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d file(s) failed to register", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "restrict the scan to this prefix within source")
	return cmd
}

func pluralSuffix(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// createScanBackend builds the Backend that addresses source, returning the
// prefix (if any) embedded in the source string itself.
func createScanBackend(ctx context.Context, source string) (discover.Backend, string, error) {
	if strings.HasPrefix(source, "s3://") {
		bucket, key, err := discover.ParseS3URI(source)
		if err != nil {
			return nil, "", err
		}
		backend, err := discover.NewS3Backend(ctx, bucket)
		if err != nil {
			return nil, "", fmt.Errorf("create S3 backend: %w", err)
		}
		return backend, key, nil
	}

	backend, err := discover.NewLocalBackend(source)
	if err != nil {
		return nil, "", fmt.Errorf("create local backend: %w", err)
	}
	return backend, "", nil
}
