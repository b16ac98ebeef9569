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
	"os"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/zisraw/internal/zisraw"
)

// NewThumbnailCmd creates the thumbnail command.
func NewThumbnailCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "thumbnail <path>",
		Short: "Extract a file's embedded thumbnail attachment",
		Long: `Most CZI files carry a "Thumbnail" attachment, a small preview image the
acquisition software wrote alongside the full-resolution data. This command
extracts it unmodified, in whatever content type it was stored as (usually
JPEG).

Examples:
  zisraw thumbnail data/experiment.czi --output preview.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if outputFile == "" {
				return fmt.Errorf("--output is required")
			}

			f, err := zisraw.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			thumb, err := f.Thumbnail()
			if err != nil {
				return fmt.Errorf("read thumbnail: %w", err)
			}
			if thumb == nil {
				return fmt.Errorf("%s carries no thumbnail attachment", path)
			}

			data, err := thumb.Data.Get()
			if err != nil {
				return fmt.Errorf("read thumbnail data: %w", err)
			}

			if err := os.WriteFile(outputFile, data, 0644); err != nil {
				return fmt.Errorf("write output file: %w", err)
			}

			fmt.Printf("✓ Thumbnail (%s, %d bytes) written to %s\n", thumb.Entry.ContentFileType, len(data), outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file path (required)")
	return cmd
}
