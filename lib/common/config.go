package common

import (
	"fmt"
	"sort"
	"strings"
)

// Config holds all configuration parameters of a dStore instance.
type Config struct {
	// DataDir is the base directory; namespaces without an explicit root
	// live in DataDir/<namespace>.
	DataDir string

	// Disks maps a namespace to an explicit root directory.
	Disks map[string]string

	// AtomicWrites enables write-to-temp-then-rename for every record.
	AtomicWrites bool

	// Pretty stores records as indented json.
	Pretty bool

	// Logging configuration
	LogLevel string

	// PrintMetrics dumps the collected metrics after a command ran.
	PrintMetrics bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DataDir:      "data",
		Disks:        map[string]string{},
		AtomicWrites: true,
		LogLevel:     "warn",
	}
}

// ParseDisks parses a comma-separated list of namespace=path pairs.
func ParseDisks(s string) (map[string]string, error) {
	disks := make(map[string]string)
	if strings.TrimSpace(s) == "" {
		return disks, nil
	}
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid disk format: %s (expected NAMESPACE=PATH)", pair)
		}
		name, path := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid disk format: %s (expected NAMESPACE=PATH)", pair)
		}
		disks[name] = path
	}
	return disks, nil
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Storage")
	addField("Data Directory", c.DataDir)
	addField("Atomic Writes", fmt.Sprintf("%t", c.AtomicWrites))
	addField("Pretty Records", fmt.Sprintf("%t", c.Pretty))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	if len(c.Disks) > 0 {
		addSection("Disks")

		// Sort keys for consistent output
		names := make([]string, 0, len(c.Disks))
		for name := range c.Disks {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			addField(name, c.Disks[name])
		}
	}
	return sb.String()
}
