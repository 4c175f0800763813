package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// A setter applies value to c and returns a warning message, or "" when the
// value was accepted as is.
type setter func(c *Config, index int, value string) string

type field struct {
	// indexed fields accept an optional [N] suffix selecting a pass.
	indexed bool
	set     setter
}

var fields = map[string]field{
	"vert": {indexed: true, set: func(c *Config, i int, v string) string {
		c.Passes[i].Vert = v
		return ""
	}},
	"frag": {indexed: true, set: func(c *Config, i int, v string) string {
		c.Passes[i].Frag = v
		return ""
	}},
	"texture": {set: func(c *Config, _ int, v string) string {
		c.Texture = v
		return ""
	}},
	"follow_scale":  {set: floatField("follow_scale", func(c *Config) *float32 { return &c.FollowScale })},
	"object_size":   {set: floatField("object_size", func(c *Config) *float32 { return &c.ObjectSize })},
	"rotate_radius": {set: floatField("rotate_radius", func(c *Config) *float32 { return &c.RotateRadius })},
	"rotate_speed":  {set: floatField("rotate_speed", func(c *Config) *float32 { return &c.RotateSpeed })},
	"objects_count": {set: setObjectsCount},
}

func floatField(name string, ptr func(*Config) *float32) setter {
	return func(c *Config, _ int, v string) string {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Sprintf("%s: invalid number %q", name, v)
		}
		*ptr(c) = float32(f)
		return ""
	}
}

func setObjectsCount(c *Config, _ int, v string) string {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			return fmt.Sprintf("objects_count: invalid count %q", v)
		}
		n = ObjectsCapacity + 1
	}
	if n > ObjectsCapacity {
		c.ObjectsCount = ObjectsCapacity
		return fmt.Sprintf("objects_count: %s exceeds capacity, clamped to %d", v, ObjectsCapacity)
	}
	c.ObjectsCount = int(n)
	return ""
}

// splitKey separates "frag[2]" into "frag" and 2. Keys without a suffix get
// index 0.
func splitKey(key string) (name string, index int, err error) {
	name, rest, ok := strings.Cut(key, "[")
	if !ok {
		return key, 0, nil
	}
	digits, ok := strings.CutSuffix(rest, "]")
	if !ok {
		return name, 0, fmt.Errorf("malformed key %q", key)
	}
	index, err = strconv.Atoi(strings.TrimSpace(digits))
	if err != nil {
		return name, 0, fmt.Errorf("malformed pass index in %q", key)
	}
	return name, index, nil
}

// apply dispatches one key/value pair and returns a warning message or "".
func apply(c *Config, key, value string) string {
	name, index, err := splitKey(key)
	if err != nil {
		return err.Error()
	}
	f, ok := fields[name]
	if !ok {
		return fmt.Sprintf("unknown key %q", key)
	}
	if index != 0 && !f.indexed {
		return fmt.Sprintf("key %q does not take a pass index", name)
	}
	if index < 0 || index >= MaxPasses {
		return fmt.Sprintf("pass index %d out of range 0..%d", index, MaxPasses-1)
	}
	if value == "" {
		return fmt.Sprintf("empty value for %q", key)
	}
	return f.set(c, index, value)
}
