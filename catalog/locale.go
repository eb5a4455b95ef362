package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"gopkg.in/birkirb/loggers.v1/log"
)

var (
	// ErrUnknownLocale indicates that no header catalog was loaded for a
	// requested locale.
	ErrUnknownLocale = errors.New("unknown locale")

	// ErrUnknownHeader indicates that a header catalog holds no entry
	// for a requested column name.
	ErrUnknownHeader = errors.New("unknown header key")
)

// HeaderCatalog maps column names to their localized headers.
// E.g. "first_name" => "Vorname"
type HeaderCatalog map[string]string

// Display returns the localized header for a column name, or an
// ErrUnknownHeader when the catalog holds none. It satisfies the header
// lookup contract of the table package.
func (catalog HeaderCatalog) Display(key string) (string, error) {
	header, ok := catalog[key]
	if !ok || header == "" {
		return "", ErrUnknownHeader
	}

	return header, nil
}

// Locales holds one header catalog per BCP 47 locale.
type Locales struct {
	catalogs map[language.Tag]HeaderCatalog
}

// LoadLocales builds header catalogs from a folder whose first level of
// directories names the locales:
//
//	root/
//	  de/headers.json
//	  en/headers.json
//
// Directory names must parse as BCP 47 tags. All JSON files within one
// locale are merged into a single catalog; later files win key collisions.
func LoadLocales(root string) (Locales, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return Locales{}, err
	}

	catalogs := make(map[language.Tag]HeaderCatalog)
	expected := -1
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		tag, err := language.Parse(entry.Name())
		if err != nil {
			return Locales{}, err
		}

		catalog, err := loadHeaderCatalog(filepath.Join(root, entry.Name()))
		if err != nil {
			return Locales{}, err
		}

		if expected == -1 {
			expected = len(catalog)
		} else if len(catalog) != expected {
			log.WithFields(
				"locale", tag.String(),
				"keys", len(catalog),
			).Warn("Locale holds a different key count than the locales loaded before it")
		}

		catalogs[tag] = catalog
	}

	log.WithField("locales", len(catalogs)).Info("Loaded header catalogs")

	return Locales{catalogs: catalogs}, nil
}

// Catalog returns the header catalog of a single locale.
func (locales Locales) Catalog(tag language.Tag) (HeaderCatalog, error) {
	catalog, ok := locales.catalogs[tag]
	if !ok {
		return nil, ErrUnknownLocale
	}

	return catalog, nil
}

// Display resolves a column name through the catalog of the given locale.
func (locales Locales) Display(tag language.Tag, key string) (string, error) {
	catalog, err := locales.Catalog(tag)
	if err != nil {
		return "", err
	}

	return catalog.Display(key)
}

// Tags returns the loaded locales, in no particular order.
func (locales Locales) Tags() []language.Tag {
	tags := make([]language.Tag, 0, len(locales.catalogs))
	for tag := range locales.catalogs {
		tags = append(tags, tag)
	}

	return tags
}

func loadHeaderCatalog(dir string) (HeaderCatalog, error) {
	catalog := make(HeaderCatalog)

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
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

		headers := make(map[string]string)
		if err := decodeFile(path, &headers); err != nil {
			return err
		}

		for key, header := range headers {
			catalog[key] = header
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return catalog, nil
}
