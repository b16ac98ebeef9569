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

// This file's XML tree helpers give path descent, typed leaf parsing, and
// attribute-keyed value collection over an *etree.Element: the operations
// the embedded metadata XML's irregular, deeply-nested shape needs and
// that encoding/xml's static struct tags cannot express.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// TextParsable is the set of leaf value types metadata XML elements are
// parsed into.
type TextParsable interface {
	string | int | int32 | int64 | uint | uint32 | uint64 | float32 | float64
}

// ElementText parses el's own text content as T. It fails if el has any
// child elements, since a "value" element is expected to be a text leaf.
func ElementText[T TextParsable](el *etree.Element) (T, error) {
	var zero T
	if len(el.ChildElements()) > 0 {
		return zero, newFormatError(fmt.Sprintf("element %q is not a text leaf", el.Tag))
	}
	return parseText[T](strings.TrimSpace(el.Text()))
}

// ChildText finds el's child named name and parses its text as T.
func ChildText[T TextParsable](el *etree.Element, name string) (T, error) {
	var zero T
	child := el.SelectElement(name)
	if child == nil {
		return zero, newFormatError(fmt.Sprintf("missing child element %q", name))
	}
	return ElementText[T](child)
}

// DrillDown walks el's descendants by name, failing at the first missing
// step and reporting the remaining path.
func DrillDown(el *etree.Element, path ...string) (*etree.Element, error) {
	current := el
	for i, name := range path {
		next := current.SelectElement(name)
		if next == nil {
			return nil, newFormatError(fmt.Sprintf("missing element %q (remaining path: %s)", name, strings.Join(path[i:], "/")))
		}
		current = next
	}
	return current, nil
}

// CollectAttributedValues iterates el's children named childName, reads
// each one's "Value" child as T, and keys the result by the lowercased
// attr attribute of the childName element. It fails if no matching child
// yields a value, mirroring the original "Scaling/Items/Distance" lookup
// where an empty result means the metadata carries no pixel calibration.
func CollectAttributedValues[T TextParsable](el *etree.Element, childName, attr string) (map[string]T, error) {
	result := make(map[string]T)
	for _, child := range el.SelectElements(childName) {
		valueEl := child.SelectElement("Value")
		if valueEl == nil {
			continue
		}
		val, err := ElementText[T](valueEl)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(child.SelectAttrValue(attr, ""))
		result[key] = val
	}
	if len(result) == 0 {
		return nil, newFormatError(fmt.Sprintf("no %s elements with attribute %s found", childName, attr))
	}
	return result, nil
}

func parseText[T TextParsable](text string) (T, error) {
	var zero T
	switch p := any(&zero).(type) {
	case *string:
		*p = text
	case *int:
		v, err := strconv.Atoi(text)
		if err != nil {
			return zero, newParseError("parse int", err)
		}
		*p = v
	case *int32:
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return zero, newParseError("parse int32", err)
		}
		*p = int32(v)
	case *int64:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return zero, newParseError("parse int64", err)
		}
		*p = v
	case *uint:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return zero, newParseError("parse uint", err)
		}
		*p = uint(v)
	case *uint32:
		v, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return zero, newParseError("parse uint32", err)
		}
		*p = uint32(v)
	case *uint64:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return zero, newParseError("parse uint64", err)
		}
		*p = v
	case *float32:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return zero, newParseError("parse float32", err)
		}
		*p = float32(v)
	case *float64:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return zero, newParseError("parse float64", err)
		}
		*p = v
	default:
		return zero, newFormatError("unsupported text value type")
	}
	return zero, nil
}
