package catalog

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/cratescore/pkg/errors"
)

// LoadInput reads and parses the input document at path.
func LoadInput(path string) ([]InputEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "error reading %s", path)
	}
	entries, err := ParseInput(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "error reading %s", path)
	}
	return entries, nil
}

// ParseInput decodes a YAML (or JSON) list of input entries. Any malformed
// entry fails the whole document.
func ParseInput(data []byte) ([]InputEntry, error) {
	var nodes []entryNode
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse input")
	}
	entries := make([]InputEntry, len(nodes))
	for i, n := range nodes {
		entries[i] = n.entry
	}
	return entries, nil
}

// entryNode decodes one list item, dispatching on its kind field.
type entryNode struct {
	entry InputEntry
}

func (n *entryNode) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}

	switch normalizeKind(head.Kind) {
	case "cratesio", "registry":
		var e RegistryEntry
		if err := value.Decode(&e); err != nil {
			return err
		}
		if e.Repository != "" {
			if err := validateRepository(e.Repository); err != nil {
				return fmt.Errorf("line %d: %w", value.Line, err)
			}
		}
		n.entry = e
	case "manual":
		var e ManualEntry
		if err := value.Decode(&e); err != nil {
			return err
		}
		n.entry = e
	case "category":
		var e CategoryRequest
		if err := value.Decode(&e); err != nil {
			return err
		}
		if e.Name == "" {
			return fmt.Errorf("line %d: category entry without name", value.Line)
		}
		n.entry = e
	case "":
		return fmt.Errorf("line %d: entry without kind", value.Line)
	default:
		return fmt.Errorf("line %d: unknown entry kind %q", value.Line, head.Kind)
	}
	return nil
}

// normalizeKind folds the accepted spellings ("crates-io", "CratesIo",
// "crates_io") onto one form.
func normalizeKind(kind string) string {
	kind = strings.ToLower(kind)
	kind = strings.ReplaceAll(kind, "-", "")
	return strings.ReplaceAll(kind, "_", "")
}

// validateRepository requires an absolute URL.
func validateRepository(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid repository URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid repository URL %q: not an absolute URL", raw)
	}
	return nil
}

// Partition splits entries into the requested category names and the
// entries to process directly, both in input order.
func Partition(entries []InputEntry) (categories []string, rest []InputEntry) {
	for _, e := range entries {
		if c, ok := e.(CategoryRequest); ok {
			categories = append(categories, c.Name)
			continue
		}
		rest = append(rest, e)
	}
	return categories, rest
}
