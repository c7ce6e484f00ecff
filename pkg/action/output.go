/*
Copyright The Launchpad Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package action

import (
	"encoding/json"

	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// OutputFormat is a type for capturing supported output formats
type OutputFormat string

// TableFunc is a function that can be used to add rows to a table
type TableFunc func(tbl *uitable.Table)

const (
	Table OutputFormat = "table"
	JSON  OutputFormat = "json"
	YAML  OutputFormat = "yaml"
)

// ErrInvalidFormatType is returned when an unsupported format type is used
var ErrInvalidFormatType = errors.New("invalid format type")

// String returns the string representation of the OutputFormat
func (o OutputFormat) String() string {
	return string(o)
}

// Marshal uses the specified output format to marshal out the given data. It
// does not support tabular output. For tabular output, use MarshalTable
func (o OutputFormat) Marshal(data interface{}) ([]byte, error) {
	switch o {
	case YAML:
		return yaml.Marshal(data)
	case JSON:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return nil, ErrInvalidFormatType
}

// MarshalTable returns a formatted table. Rows are added to the table by f.
func (o OutputFormat) MarshalTable(f TableFunc) ([]byte, error) {
	if o != Table {
		return nil, ErrInvalidFormatType
	}
	if f == nil {
		return []byte{}, nil
	}
	tbl := uitable.New()
	f(tbl)
	return append(tbl.Bytes(), '\n'), nil
}

// ParseOutputFormat takes a raw string and returns the matching OutputFormat.
// If the format does not exist, ErrInvalidFormatType is returned
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case Table, JSON, YAML:
		return OutputFormat(s), nil
	}
	return "", ErrInvalidFormatType
}
