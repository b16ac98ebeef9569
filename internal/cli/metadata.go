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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/zisraw/internal/zisraw"
)

// NewMetadataCmd creates the metadata command.
func NewMetadataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Extract a CZI file's embedded XML metadata",
		Long: `Extract the raw XML metadata segment a CZI file carries, the document
describing acquisition settings, channels, objectives, and scenes.`,
	}

	cmd.AddCommand(newMetadataXMLCmd())
	cmd.AddCommand(newMetadataInfoCmd())
	return cmd
}

// newMetadataInfoCmd creates the metadata info subcommand.
func newMetadataInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Print the image facts derived from a file's metadata as JSON",
		Long: `Print the derived image facts (pixel geometry, pixel type, pixel size,
timestamp, scenes) as JSON, without the full metadata document around them.

Examples:
  zisraw metadata info data/experiment.czi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := zisraw.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			info, err := f.ImageInfo()
			if err != nil {
				return fmt.Errorf("read image info: %w", err)
			}

			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal image info: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

// newMetadataXMLCmd creates the metadata xml subcommand.
func newMetadataXMLCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "xml <path>",
		Short: "Print or save a file's raw metadata XML",
		Long: `Examples:
  zisraw metadata xml data/experiment.czi
  zisraw metadata xml data/experiment.czi --output experiment.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := zisraw.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			raw, err := f.MetadataXML()
			if err != nil {
				return fmt.Errorf("read metadata: %w", err)
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, []byte(raw), 0644); err != nil {
					return fmt.Errorf("write output file: %w", err)
				}
				fmt.Printf("Metadata XML written to %s\n", outputFile)
				return nil
			}

			fmt.Println(raw)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	return cmd
}
