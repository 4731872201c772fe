package datafile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mohae/deepcopy"
)

// LoadRecord reads a JSON object. A missing file yields an empty map.
func (c *Codec) LoadRecord(path string, password *string) (map[string]any, error) {
	encrypted, err := c.checkMode(path, password)
	if err != nil {
		return nil, err
	}

	text, found, err := c.readText(path, password, encrypted)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[string]any{}, nil
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// SaveRecord writes doc as indented JSON
func (c *Codec) SaveRecord(path string, doc map[string]any, password *string) error {
	encrypted, err := c.checkMode(path, password)
	if err != nil {
		return err
	}

	if doc == nil {
		doc = map[string]any{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return c.writeText(path, string(data), password, encrypted)
}

// LoadConfig loads the JSON config at path, or returns a deep copy of
// defaults when the file does not exist yet. The returned map never
// shares state with defaults.
func (c *Codec) LoadConfig(path string, defaults map[string]any, password *string) (map[string]any, error) {
	if _, err := c.checkMode(path, password); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		return c.LoadRecord(path, password)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if defaults == nil {
		return map[string]any{}, nil
	}
	return deepcopy.Copy(defaults).(map[string]any), nil
}

// SaveConfig writes the config at path
func (c *Codec) SaveConfig(path string, cfg map[string]any, password *string) error {
	return c.SaveRecord(path, cfg, password)
}
