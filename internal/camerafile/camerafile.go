// Package camerafile reads and writes camera configuration files.
//
// A configuration file is a list of {ip, username, password} entries in JSON
// or YAML. Decode accepts both, since JSON is valid YAML.
package camerafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"occupancy/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalidFile is returned for undecodable or incomplete configuration files.
var ErrInvalidFile = errors.New("invalid camera configuration")

// ParseFormat maps a query value or file extension to a Format; unknown
// values fall back to JSON.
func ParseFormat(v string) Format {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(v), ".")) {
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileName returns the download name for the format.
func (f Format) FileName() string {
	if f == FormatYAML {
		return "camera_config.yaml"
	}
	return "camera_config.json"
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode serializes the cameras in the given format.
func Encode(cfgs []model.CameraConfig, format Format) ([]byte, error) {
	if cfgs == nil {
		cfgs = []model.CameraConfig{}
	}
	if format == FormatYAML {
		return yaml.Marshal(cfgs)
	}
	return json.MarshalIndent(cfgs, "", "    ")
}

// Decode parses a JSON or YAML configuration and validates every entry.
// The document must be a list.
func Decode(data []byte) ([]model.CameraConfig, error) {
	var cfgs []model.CameraConfig
	if err := yaml.Unmarshal(data, &cfgs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	// An empty or null document is not a list; an explicit [] is.
	if cfgs == nil {
		return nil, fmt.Errorf("%w: no camera list", ErrInvalidFile)
	}
	if err := Validate(cfgs); err != nil {
		return nil, err
	}
	return cfgs, nil
}

// Validate checks that every entry has an ip, username and password.
func Validate(cfgs []model.CameraConfig) error {
	for i, c := range cfgs {
		if strings.TrimSpace(c.IP) == "" || c.Username == "" || c.Password == "" {
			return fmt.Errorf("%w: entry %d needs ip, username and password", ErrInvalidFile, i)
		}
	}
	return nil
}
