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
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scttfrdmn/zisraw/internal/zisraw"
)

// inspectReport is the structured view NewInspectCmd prints, independent of
// output format.
type inspectReport struct {
	Path        string             `json:"path" yaml:"path"`
	FileGUID    string             `json:"file_guid" yaml:"file_guid"`
	PrimaryGUID string             `json:"primary_guid" yaml:"primary_guid"`
	IsPrimary   bool               `json:"is_primary" yaml:"is_primary"`
	FilePart    int32              `json:"file_part" yaml:"file_part"`
	SizeX       uint64             `json:"size_x" yaml:"size_x"`
	SizeY       uint64             `json:"size_y" yaml:"size_y"`
	SizeZ       uint64             `json:"size_z" yaml:"size_z"`
	PixelType   string             `json:"pixel_type" yaml:"pixel_type"`
	Timestamp   string             `json:"timestamp" yaml:"timestamp"`
	SceneCount  int                `json:"scene_count" yaml:"scene_count"`
	SubBlocks   int                `json:"sub_block_count" yaml:"sub_block_count"`
	Attachments []string           `json:"attachments,omitempty" yaml:"attachments,omitempty"`
	PixelSizes  map[string]float64 `json:"pixel_size_m,omitempty" yaml:"pixel_size_m,omitempty"`
}

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Summarize a CZI file's header, geometry, and attachments",
		Long: `Open a CZI file and print the facts the registry would extract from it:
file and primary GUIDs, image geometry, acquisition timestamp, scene count,
sub-block count, and attachment names.

Examples:
  zisraw inspect data/experiment.czi
  zisraw inspect data/experiment.czi --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := zisraw.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			report, err := buildInspectReport(path, f)
			if err != nil {
				return err
			}

			return printInspectReport(report, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml)")
	return cmd
}

func buildInspectReport(path string, f *zisraw.File) (*inspectReport, error) {
	info, err := f.ImageInfo()
	if err != nil {
		return nil, fmt.Errorf("read image info: %w", err)
	}
	dir, err := f.Directory()
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	attachments, err := f.Attachments()
	if err != nil {
		return nil, fmt.Errorf("read attachments: %w", err)
	}

	names := make([]string, 0, len(attachments))
	for _, a := range attachments {
		names = append(names, strings.TrimRight(a.Name, "\x00"))
	}

	return &inspectReport{
		Path:        path,
		FileGUID:    f.Header.FileGUID.String(),
		PrimaryGUID: f.Header.PrimaryFileGUID.String(),
		IsPrimary:   f.Header.IsPrimary(),
		FilePart:    f.Header.FilePart,
		SizeX:       info.SizeX,
		SizeY:       info.SizeY,
		SizeZ:       info.SizeZ,
		PixelType:   info.PixelType,
		Timestamp:   info.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		SceneCount:  len(info.Scenes),
		SubBlocks:   len(dir.Entries),
		Attachments: names,
		PixelSizes:  info.PixelSizeInMetres,
	}, nil
}

func printInspectReport(report *inspectReport, format string) error {
	switch strings.ToLower(format) {
	case "json":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Print(string(out))
	case "table", "":
		fmt.Printf("%-20s %s\n", "Path:", report.Path)
		fmt.Printf("%-20s %s\n", "File GUID:", report.FileGUID)
		fmt.Printf("%-20s %s\n", "Primary GUID:", report.PrimaryGUID)
		fmt.Printf("%-20s %v\n", "Is primary part:", report.IsPrimary)
		fmt.Printf("%-20s %d\n", "File part:", report.FilePart)
		fmt.Printf("%-20s %d x %d x %d\n", "Size (X,Y,Z):", report.SizeX, report.SizeY, report.SizeZ)
		fmt.Printf("%-20s %s\n", "Pixel type:", report.PixelType)
		fmt.Printf("%-20s %s\n", "Timestamp:", report.Timestamp)
		fmt.Printf("%-20s %d\n", "Scenes:", report.SceneCount)
		fmt.Printf("%-20s %d\n", "Sub-blocks:", report.SubBlocks)
		if len(report.PixelSizes) > 0 {
			keys := make([]string, 0, len(report.PixelSizes))
			for k := range report.PixelSizes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Println("Pixel size (m):")
			for _, k := range keys {
				fmt.Printf("  %s: %g\n", k, report.PixelSizes[k])
			}
		}
		if len(report.Attachments) > 0 {
			fmt.Printf("%-20s %s\n", "Attachments:", strings.Join(report.Attachments, ", "))
		}
	default:
		return fmt.Errorf("unsupported format: %s (use table, json, or yaml)", format)
	}
	return nil
}
