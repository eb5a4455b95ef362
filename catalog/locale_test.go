package catalog_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"golang.org/x/text/language"

	"github.com/tablebind-project/tablebind/catalog"
	"github.com/tablebind-project/tablebind/column"
	"github.com/tablebind-project/tablebind/table"
)

var _ = Describe("Locales", func() {
	var (
		locales catalog.Locales
		err     error
	)

	BeforeEach(func() {
		locales, err = catalog.LoadLocales(filepath.Join("testfiles", "locales"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("loads one header catalog per locale folder", func() {
		Expect(locales.Tags()).To(ConsistOf(language.German, language.English))
	})

	It("resolves a column header through a locale", func() {
		header, err := locales.Display(language.German, "first_name")
		Expect(err).NotTo(HaveOccurred())
		Expect(header).To(Equal("Vorname"))
	})

	It("errors for locales it never loaded", func() {
		_, err := locales.Display(language.French, "first_name")
		Expect(err).To(Equal(catalog.ErrUnknownLocale))
	})

	It("errors for headers a catalog does not hold", func() {
		_, err := locales.Display(language.German, "salary")
		Expect(err).To(Equal(catalog.ErrUnknownHeader))
	})

	It("rejects folders which are not valid locale tags", func() {
		_, err := catalog.LoadLocales(filepath.Join("testfiles", "locales-broken"))
		Expect(err).To(HaveOccurred())
	})

	It("serves localized column headers to a table", func() {
		def, err := table.NewDefinition(table.Options{},
			table.Declare("first_name", column.New()),
		)
		Expect(err).NotTo(HaveOccurred())

		german, err := locales.Catalog(language.German)
		Expect(err).NotTo(HaveOccurred())

		t, err := table.New(def, table.NewListData(nil), table.WithHeaders(german))
		Expect(err).NotTo(HaveOccurred())

		bc, err := t.Columns().Get("first_name")
		Expect(err).NotTo(HaveOccurred())
		Expect(bc.Header()).To(Equal("Vorname"))
	})
})
