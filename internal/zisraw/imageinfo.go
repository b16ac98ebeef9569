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

package zisraw

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
)

// Scene is one imaged region of a multi-scene file, with its own tile
// pyramid.
type Scene struct {
	RegionID           string
	PyramidLayersCount int
	MinificationFactor int32
}

// ImageInfo is the facts the facade derives from a file's metadata XML,
// one level above the raw tree.
type ImageInfo struct {
	SizeX               uint64
	SizeY               uint64
	SizeZ               uint64
	PixelType           string
	Timestamp           time.Time
	AcquisitionDuration *time.Duration
	MosaicTileCount     *uint64
	PixelSizeInMetres   map[string]float64
	Scenes              []Scene
}

// ExtractImageInfo derives an ImageInfo from a Metadata segment's XML.
func ExtractImageInfo(meta *Metadata) (*ImageInfo, error) {
	root, err := meta.Element()
	if err != nil {
		return nil, err
	}

	infoEl, err := DrillDown(root, "Information")
	if err != nil {
		return nil, err
	}
	imageEl := infoEl.SelectElement("Image")
	if imageEl == nil {
		return nil, newFormatError("metadata missing Information/Image")
	}
	// Detach Image from Information the way the reference reader does,
	// since Scaling and Dimensions are looked up relative to it below.
	infoEl.RemoveChild(imageEl)

	sizeX, err := ChildText[uint64](imageEl, "SizeX")
	if err != nil {
		return nil, err
	}
	sizeY, err := ChildText[uint64](imageEl, "SizeY")
	if err != nil {
		return nil, err
	}
	sizeZ, err := ChildText[uint64](imageEl, "SizeZ")
	if err != nil {
		return nil, err
	}
	pixelType, err := ChildText[string](imageEl, "PixelType")
	if err != nil {
		return nil, err
	}

	info := &ImageInfo{
		SizeX:     sizeX,
		SizeY:     sizeY,
		SizeZ:     sizeZ,
		PixelType: pixelType,
	}

	if durationSeconds, err := ChildText[float64](imageEl, "AcquisitionDuration"); err == nil {
		d := time.Duration(durationSeconds * float64(time.Second))
		info.AcquisitionDuration = &d
	}
	if sizeM, err := ChildText[uint64](imageEl, "SizeM"); err == nil {
		info.MosaicTileCount = &sizeM
	}

	scalingEl, scalingErr := DrillDown(root, "Scaling", "Items")
	if scalingErr != nil {
		scalingEl, scalingErr = DrillDown(imageEl, "Scaling", "Items")
	}
	if scalingErr == nil {
		if sizes, err := CollectAttributedValues[float64](scalingEl, "Distance", "Id"); err == nil {
			info.PixelSizeInMetres = sizes
		}
	}

	if scenesEl, err := DrillDown(imageEl, "Dimensions", "S", "Scenes"); err == nil {
		scenes, err := extractScenes(scenesEl)
		if err != nil {
			return nil, err
		}
		info.Scenes = scenes
	}

	// imageEl was already detached from Information above, so look up its
	// AcquisitionDateAndTime directly rather than re-drilling
	// "Information/Image/..." from root, which would never find it now.
	timestamp, err := extractTimestampFrom(root, imageEl)
	if err != nil {
		return nil, err
	}
	info.Timestamp = timestamp

	return info, nil
}

func extractScenes(scenesEl *etree.Element) ([]Scene, error) {
	var scenes []Scene
	for _, sceneEl := range scenesEl.SelectElements("Scene") {
		regionID, err := ChildText[string](sceneEl, "RegionId")
		if err != nil {
			return nil, err
		}
		layersEl, err := DrillDown(sceneEl, "PyramidInfo", "PyramidLayersCount")
		if err != nil {
			return nil, err
		}
		layers, err := ElementText[int](layersEl)
		if err != nil {
			return nil, err
		}
		minEl, err := DrillDown(sceneEl, "PyramidInfo", "MinificationFactor")
		if err != nil {
			return nil, err
		}
		minification, err := ElementText[int32](minEl)
		if err != nil {
			return nil, err
		}

		scenes = append(scenes, Scene{
			RegionID:           regionID,
			PyramidLayersCount: layers,
			MinificationFactor: minification,
		})
	}
	return scenes, nil
}

// ExtractOriginalImageName returns the Experiment/ImageName element of the
// metadata XML, the filename the acquisition software recorded for this
// image at capture time. The registry keys on file GUID, not this value,
// but carries it as a human-readable label for a registered image.
func ExtractOriginalImageName(meta *Metadata) (string, error) {
	root, err := meta.Element()
	if err != nil {
		return "", err
	}
	nameEl, err := DrillDown(root, "Experiment", "ImageName")
	if err != nil {
		return "", err
	}
	return ElementText[string](nameEl)
}

// ExtractTimestamp returns the metadata's acquisition timestamp, preferring
// Information/Image/AcquisitionDateAndTime and falling back to
// Information/Document/CreationDate.
func ExtractTimestamp(meta *Metadata) (time.Time, error) {
	root, err := meta.Element()
	if err != nil {
		return time.Time{}, err
	}
	return extractTimestampFrom(root, nil)
}

// extractTimestampFrom prefers Information/Image/AcquisitionDateAndTime,
// falling back to Information/Document/CreationDate. imageEl, if non-nil,
// is used directly for the first lookup instead of drilling down from
// root, since ExtractImageInfo calls this after detaching Image from
// Information (root no longer has a path to it).
func extractTimestampFrom(root, imageEl *etree.Element) (time.Time, error) {
	var acquisitionEl *etree.Element
	if imageEl != nil {
		acquisitionEl = imageEl.SelectElement("AcquisitionDateAndTime")
	} else if el, err := DrillDown(root, "Information", "Image", "AcquisitionDateAndTime"); err == nil {
		acquisitionEl = el
	}
	if acquisitionEl != nil {
		if text, err := ElementText[string](acquisitionEl); err == nil {
			if t, err := parseMetadataTimestamp(text); err == nil {
				return t, nil
			}
		}
	}
	if el, err := DrillDown(root, "Information", "Document", "CreationDate"); err == nil {
		if text, err := ElementText[string](el); err == nil {
			return parseMetadataTimestamp(text)
		}
	}
	return time.Time{}, newFormatError("no acquisition or creation timestamp found in metadata")
}

func parseMetadataTimestamp(text string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", text, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, newParseError("parse timestamp", fmt.Errorf("unrecognized timestamp format %q", text))
}
