// Package config reads the arm configuration file. The format is the
// INI-style "[section]" / "key: value" layout, with "#" comments and
// "key = value" accepted as an alternative separator.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"armkin-go/pkg/errors"
)

// File provides access to a parsed configuration file.
type File struct {
	sections map[string]*Section
	order    []string // Maintains section order
}

// Section provides typed access to the options of one config section.
type Section struct {
	name    string
	options map[string]string
}

// Load reads and parses a configuration file.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRuntime, "unable to open "+path)
	}
	defer f.Close()

	c := &File{sections: make(map[string]*Section)}
	if err := c.parse(bufio.NewScanner(f)); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadString parses configuration from a string.
func LoadString(data string) (*File, error) {
	c := &File{sections: make(map[string]*Section)}
	if err := c.parse(bufio.NewScanner(strings.NewReader(data))); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *File) parse(scanner *bufio.Scanner) error {
	var current *Section
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Strip comments
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		// Section header
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			header := strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			if header == "" {
				return errors.New(errors.ErrConfigSection, "empty section header")
			}
			current = c.addSection(header)
			continue
		}

		// Skip options before the first section
		if current == nil {
			continue
		}

		// key: value or key = value
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			kv = strings.SplitN(line, "=", 2)
		}
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		current.options[key] = strings.TrimSpace(kv[1])
	}
	return scanner.Err()
}

func (c *File) addSection(name string) *Section {
	if s, ok := c.sections[name]; ok {
		return s
	}
	s := &Section{name: name, options: make(map[string]string)}
	c.sections[name] = s
	c.order = append(c.order, name)
	return s
}

// HasSection checks if a section exists.
func (c *File) HasSection(name string) bool {
	_, ok := c.sections[strings.ToLower(name)]
	return ok
}

// GetSection returns a section by name.
func (c *File) GetSection(name string) (*Section, error) {
	s, ok := c.sections[strings.ToLower(name)]
	if !ok {
		return nil, errors.ConfigSectionError(name)
	}
	return s, nil
}

// SectionNames returns section names in file order.
func (c *File) SectionNames() []string {
	return append([]string(nil), c.order...)
}

// GetName returns the section name.
func (s *Section) GetName() string {
	return s.name
}

// HasOption checks if an option exists in this section.
func (s *Section) HasOption(option string) bool {
	_, ok := s.options[strings.ToLower(option)]
	return ok
}

// Get returns a string option value. If a fallback is provided and the
// option doesn't exist, the fallback is returned; with no fallback a
// missing option is an error.
func (s *Section) Get(option string, fallback ...string) (string, error) {
	if v, ok := s.options[strings.ToLower(option)]; ok {
		return v, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return "", errors.ConfigOptionError(s.name, option)
}

// GetFloat returns a float option value.
func (s *Section) GetFloat(option string, fallback ...float64) (float64, error) {
	if v, ok := s.options[strings.ToLower(option)]; ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, errors.ConfigTypeError(s.name, option, v, "float", err)
		}
		return f, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return 0, errors.ConfigOptionError(s.name, option)
}

// GetInt returns an integer option value.
func (s *Section) GetInt(option string, fallback ...int) (int, error) {
	if v, ok := s.options[strings.ToLower(option)]; ok {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.ConfigTypeError(s.name, option, v, "integer", err)
		}
		return i, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return 0, errors.ConfigOptionError(s.name, option)
}

// GetBool returns a boolean option value.
func (s *Section) GetBool(option string, fallback ...bool) (bool, error) {
	if v, ok := s.options[strings.ToLower(option)]; ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		default:
			return false, errors.ConfigTypeError(s.name, option, v, "boolean", nil)
		}
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return false, errors.ConfigOptionError(s.name, option)
}
