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
)

var (
	cfgFile string
	verbose bool
)

// Execute runs the root command.
func Execute(version string) error {
	rootCmd := NewRootCmd(version)
	return rootCmd.Execute()
}

// NewRootCmd creates the root command.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zisraw",
		Short: "zisraw - a registry and reader for ZEISS CZI microscopy files",
		Long: `zisraw reads the ZISRAW/CZI container format microscope software writes,
and keeps a registry of every image it has seen so that the many physical
copies of one acquisition that accumulate on a lab's filesystem (and in S3)
resolve to one logical, GUID-keyed image.

It can inspect a single file, scan a directory or S3 bucket and register
everything it finds, watch a directory and register new files as they
land, and serve the registry over HTTP for browsing.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("zisraw " + version)
			fmt.Println("Use 'zisraw --help' for available commands")
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.zisraw/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewMetadataCmd())
	rootCmd.AddCommand(NewThumbnailCmd())
	rootCmd.AddCommand(NewRegisterCmd())
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd(version))

	return rootCmd
}
