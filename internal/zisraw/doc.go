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

// Package zisraw reads ZISRAW ("CZI") container files, the native format
// of ZEN software by Carl Zeiss Microscopy GmbH, used across Zeiss
// confocal and light microscopy platforms (LSM 880/900/980, Axio Scan.Z1,
// ELYRA super-resolution systems, and others).
//
// # File format overview
//
// A CZI file is a sequence of self-describing segments, each a 32-byte
// header (a 16-byte ASCII tag plus two little-endian u64 sizes) followed
// by a payload specific to that tag: a file header naming where the other
// segments live, a directory of image tiles, UTF-8 XML metadata describing
// acquisition parameters, the tiles' own pixel and per-tile metadata
// payloads, and named attachments such as thumbnails. The format supports
// multi-channel, multi-Z, time-series, multi-scene/tile, and pyramidal
// (multi-resolution) data within a single file, and multi-part files that
// reference a shared primary file GUID.
//
// This package does not decode pixel payloads or render images; it
// resolves the container's structure and exposes pixel data, thumbnails,
// and per-tile payloads as lazily-materialised byte slices, leaving
// interpretation of the bytes to a caller that knows the declared pixel
// type and compression.
//
// # References
//
// ZEISS's own format documentation:
// https://www.zeiss.com/microscopy/us/products/software/zeiss-zen/czi-image-file-format.html
//
// libCZI, the reference C++ implementation maintained by ZEISS:
// https://github.com/zeiss-microscopy/libCZI
//
// pylibCZIrw, ZEISS's official Python wrapper around libCZI:
// https://github.com/ZEISS/pylibczirw
//
// czifile, a pure-Python community reader widely used in the scientific
// Python ecosystem: https://github.com/cgohlke/czifile
package zisraw
