package texture

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// imageSourceKey is the JSON field holding the texture image location.
const imageSourceKey = "imgSrc"

// Config describes the texture applied to a single outfit group.
// On the wire it is a flat JSON object: the image source under "imgSrc" and every
// other key kept as a rendering attribute (e.g. "tint", "opacity", "scale").
type Config struct {
	// ImageSource is the location of the texture image (a storage object key).
	ImageSource string

	// Attributes holds every non-image rendering attribute.
	Attributes map[string]any
}

// MarshalJSON flattens the config into a single JSON object.
func (c Config) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Attributes)+1)
	for k, v := range c.Attributes {
		out[k] = v
	}
	out[imageSourceKey] = c.ImageSource
	return json.Marshal(out)
}

// UnmarshalJSON splits a flat JSON object into image source and attributes.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return c.split(raw)
}

// UnmarshalYAML reads the same flat layout from YAML scene files.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return c.split(raw)
}

func (c *Config) split(raw map[string]any) error {
	src, ok := raw[imageSourceKey]
	if !ok {
		return fmt.Errorf("texture config is missing %q", imageSourceKey)
	}
	str, ok := src.(string)
	if !ok {
		return fmt.Errorf("texture config %q must be a string, got %T", imageSourceKey, src)
	}
	delete(raw, imageSourceKey)

	c.ImageSource = str
	c.Attributes = nil
	if len(raw) > 0 {
		c.Attributes = raw
	}
	return nil
}

// Attribute returns a rendering attribute and whether it is set.
func (c Config) Attribute(name string) (any, bool) {
	v, ok := c.Attributes[name]
	return v, ok
}

// Map is the desired texture state: group name -> texture config.
// A nil config means the group should carry no texture.
type Map map[string]*Config

// Fingerprint is a comparable digest of a texture config.
// Zero is a valid fingerprint.
type Fingerprint uint64

// ArchivedMap holds the fingerprint of every group of a Map.
type ArchivedMap map[string]Fingerprint

// Clone returns an independent copy of the archived map.
func (m ArchivedMap) Clone() ArchivedMap {
	out := make(ArchivedMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Change classifies how a group differs between two archived maps.
type Change int

const (
	// Created means the group is only present in the new map.
	Created Change = iota + 1
	// Modified means the group is present in both maps with different fingerprints.
	Modified
	// Deleted means the group is only present in the base map.
	Deleted
)

// String returns the change name.
func (c Change) String() string {
	switch c {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("change(%d)", int(c))
	}
}

// Diff maps every changed group to its Change.
type Diff map[string]Change
