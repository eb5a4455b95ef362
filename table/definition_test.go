package table_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/tablebind-project/tablebind"
	"github.com/tablebind-project/tablebind/column"
	"github.com/tablebind-project/tablebind/table"
)

type book struct {
	Title   string
	Author  string
	Pages   int
	private string
}

var _ = Describe("Definition", func() {
	Describe("declaration order", func() {
		It("keeps columns in the order they were created", func() {
			first := column.New()
			second := column.New()
			third := column.New()

			def, err := table.NewDefinition(table.Options{},
				table.Declare("gamma", third),
				table.Declare("alpha", first),
				table.Declare("beta", second),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(def.Names()).To(Equal([]string{"alpha", "beta", "gamma"}))
		})

		It("retrieves declared columns by name", func() {
			col := column.New(column.WithVerboseName("The Title"))

			def, err := table.NewDefinition(table.Options{}, table.Declare("title", col))
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := def.Column("title")
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved).To(BeIdenticalTo(col))
		})

		It("returns ErrUnknownColumn for names it does not hold", func() {
			def, err := table.NewDefinition(table.Options{})
			Expect(err).NotTo(HaveOccurred())

			_, err = def.Column("missing")
			Expect(errors.Is(err, table.ErrUnknownColumn)).To(BeTrue())
		})
	})

	Describe("inheritance", func() {
		var base *table.Definition

		BeforeEach(func() {
			var err error
			base, err = table.NewDefinition(table.Options{},
				table.Declare("title", column.New()),
				table.Declare("author", column.New()),
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("merges inherited columns before own declarations", func() {
			def, err := table.NewDefinition(
				table.Options{Extends: []*table.Definition{base}},
				table.Declare("pages", column.New()),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(def.Names()).To(Equal([]string{"title", "author", "pages"}))
		})

		It("lets own declarations override inherited ones while keeping their position", func() {
			own := column.New(column.WithVerboseName("Written by"))

			def, err := table.NewDefinition(
				table.Options{Extends: []*table.Definition{base}},
				table.Declare("author", own),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(def.Names()).To(Equal([]string{"title", "author"}))

			col, err := def.Column("author")
			Expect(err).NotTo(HaveOccurred())
			Expect(col).To(BeIdenticalTo(own))
		})

		It("gives earlier bases precedence over later ones", func() {
			other, err := table.NewDefinition(table.Options{},
				table.Declare("author", column.New(column.WithVerboseName("Other"))),
			)
			Expect(err).NotTo(HaveOccurred())

			def, err := table.NewDefinition(
				table.Options{Extends: []*table.Definition{base, other}},
			)
			Expect(err).NotTo(HaveOccurred())

			col, err := def.Column("author")
			Expect(err).NotTo(HaveOccurred())
			Expect(col.VerboseName()).To(BeEmpty())
		})

		It("un-declares inherited columns through Remove", func() {
			def, err := table.NewDefinition(
				table.Options{Extends: []*table.Definition{base}},
				table.Remove("author"),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(def.Names()).To(Equal([]string{"title"}))
		})

		It("rejects a nil base", func() {
			_, err := table.NewDefinition(table.Options{Extends: []*table.Definition{nil}})
			Expect(err).To(BeAssignableToTypeOf(tablebind.ConfigurationError{}))
		})
	})

	Describe("model generation", func() {
		It("generates one column per exported field", func() {
			def, err := table.NewDefinition(table.Options{Model: book{}})
			Expect(err).NotTo(HaveOccurred())
			Expect(def.Names()).To(Equal([]string{"title", "author", "pages"}))
		})

		It("accepts a pointer model", func() {
			def, err := table.NewDefinition(table.Options{Model: &book{}})
			Expect(err).NotTo(HaveOccurred())
			Expect(def.Len()).To(Equal(3))
		})

		It("restricts generation to the Fields allow list", func() {
			def, err := table.NewDefinition(table.Options{
				Model:  book{},
				Fields: []string{"title", "pages"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(def.Names()).To(Equal([]string{"title", "pages"}))
		})

		It("never overrides an explicitly declared column", func() {
			own := column.New(column.WithVerboseName("The Title"))

			def, err := table.NewDefinition(
				table.Options{Model: book{}},
				table.Declare("title", own),
			)
			Expect(err).NotTo(HaveOccurred())

			col, err := def.Column("title")
			Expect(err).NotTo(HaveOccurred())
			Expect(col).To(BeIdenticalTo(own))
		})

		It("rejects a non struct model", func() {
			_, err := table.NewDefinition(table.Options{Model: 42})
			Expect(err).To(BeAssignableToTypeOf(tablebind.ConfigurationError{}))
		})
	})

	Describe("excludes", func() {
		It("removes excluded columns regardless of origin", func() {
			def, err := table.NewDefinition(
				table.Options{Model: book{}, Exclude: []string{"pages"}},
				table.Declare("extra", column.New()),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(def.Names()).To(Equal([]string{"title", "author", "extra"}))
		})
	})

	Describe("validation", func() {
		It("rejects definitions holding invalid columns", func() {
			invalid := column.New(
				column.WithAccessorFunc(func(record interface{}) interface{} {
					return nil
				}),
				column.WithDefault("n/a"),
			)

			_, err := table.NewDefinition(table.Options{}, table.Declare("bad", invalid))
			Expect(err).To(HaveOccurred())
		})
	})
})
