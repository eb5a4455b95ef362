// Package catalog loads the display vocabulary of a table from folders of
// JSON files: named choices mappings for raw record values, and per locale
// header catalogs for column headers.
package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/birkirb/loggers.v1/log"

	"github.com/tablebind-project/tablebind/column"
)

const jsonExt = ".json"

// ErrUnknownChoices indicates that no choices mapping was loaded under a
// requested name.
var ErrUnknownChoices = errors.New("unknown choices mapping")

// ChoicesSet holds named choices mappings, each decoded from one JSON file
// of raw keys to display forms.
type ChoicesSet struct {
	mappings map[string]column.Choices
}

// LoadChoices recursively decodes every JSON file under root into a choices
// mapping. A mapping's name is the file's path relative to root with the
// extension and any path separators stripped, casing preserved. Files with
// other extensions are skipped.
func LoadChoices(root string) (ChoicesSet, error) {
	mappings := make(map[string]column.Choices)

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		if filepath.Ext(path) != jsonExt {
			log.WithField("file", path).Debug("Skipping non json file")
			return nil
		}

		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		choices := column.Choices{}
		if err := decodeFile(path, &choices); err != nil {
			return err
		}

		mappings[mappingName(relative)] = choices

		return nil
	})
	if err != nil {
		return ChoicesSet{}, err
	}

	log.WithField("mappings", len(mappings)).Info("Loaded choices mappings")

	return ChoicesSet{mappings: mappings}, nil
}

func mappingName(relative string) string {
	name := strings.TrimSuffix(relative, filepath.Ext(relative))
	name = strings.ReplaceAll(name, "/", "")

	return strings.ReplaceAll(name, `\`, "")
}

// Get retrieves the choices mapping loaded under the given name.
func (set ChoicesSet) Get(name string) (column.Choices, error) {
	mapping, ok := set.mappings[name]
	if !ok {
		return nil, ErrUnknownChoices
	}

	return mapping, nil
}

// Display resolves a single raw key through the named mapping.
func (set ChoicesSet) Display(name, key string) (string, error) {
	mapping, err := set.Get(name)
	if err != nil {
		return "", err
	}

	return mapping.Display(key)
}

// Names returns the loaded mapping names, in no particular order.
func (set ChoicesSet) Names() []string {
	names := make([]string, 0, len(set.mappings))
	for name := range set.mappings {
		names = append(names, name)
	}

	return names
}

// Column builds a choice column backed by the named mapping, so a loaded
// vocabulary plugs straight into a table definition.
func (set ChoicesSet) Column(name string, opts ...column.Option) (*column.Column, error) {
	mapping, err := set.Get(name)
	if err != nil {
		return nil, err
	}

	return column.NewChoice(mapping, opts...), nil
}

func decodeFile(path string, target interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, target)
}
