package table_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/tablebind-project/tablebind"
	"github.com/tablebind-project/tablebind/catalog"
	"github.com/tablebind-project/tablebind/column"
	"github.com/tablebind-project/tablebind/table"
)

type employee struct {
	FirstName string
	LastName  string
	Age       int
}

// status holds a raw choice key and resolves its display form itself.
type status struct {
	Code string
}

func (s status) Display(field string) (interface{}, bool) {
	if field != "code" {
		return nil, false
	}

	switch s.Code {
	case "A":
		return "Active", true
	case "S":
		return "Suspended", true
	}

	return nil, false
}

func employees() []interface{} {
	return []interface{}{
		employee{FirstName: "Alice", LastName: "Zimmer", Age: 30},
		employee{FirstName: "Bob", LastName: "Adams", Age: 25},
		employee{FirstName: "Carol", LastName: "Adams", Age: 35},
	}
}

func employeeDefinition() *table.Definition {
	def, err := table.NewDefinition(table.Options{},
		table.Declare("first_name", column.New()),
		table.Declare("last_name", column.New()),
		table.Declare("age", column.New()),
	)
	Expect(err).NotTo(HaveOccurred())

	return def
}

func firstNames(t *table.Table) []string {
	names := make([]string, 0, t.Rows().Len())
	err := t.Rows().Each(func(row table.BoundRow) bool {
		value, err := row.Value("first_name")
		Expect(err).NotTo(HaveOccurred())
		names = append(names, value.(string))

		return true
	})
	Expect(err).NotTo(HaveOccurred())

	return names
}

var _ = Describe("Table", func() {
	It("requires a definition and a data source", func() {
		data := table.NewListData(employees())

		_, err := table.New(nil, data)
		Expect(err).To(BeAssignableToTypeOf(tablebind.ConfigurationError{}))

		_, err = table.New(employeeDefinition(), nil)
		Expect(err).To(BeAssignableToTypeOf(tablebind.ConfigurationError{}))
	})

	Describe("ordering", func() {
		It("sorts rows ascending by a single alias", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithOrderBy("age"))
			Expect(err).NotTo(HaveOccurred())
			Expect(firstNames(t)).To(Equal([]string{"Bob", "Alice", "Carol"}))
		})

		It("sorts rows descending with the - prefix", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithOrderBy("-age"))
			Expect(err).NotTo(HaveOccurred())
			Expect(firstNames(t)).To(Equal([]string{"Carol", "Alice", "Bob"}))
		})

		It("breaks ties by later aliases", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithOrderBy("last_name", "-first_name"))
			Expect(err).NotTo(HaveOccurred())
			Expect(firstNames(t)).To(Equal([]string{"Carol", "Bob", "Alice"}))
		})

		It("leaves the caller's records untouched", func() {
			records := employees()
			data, err := table.NewData(records)
			Expect(err).NotTo(HaveOccurred())

			_, err = table.New(employeeDefinition(), data, table.WithOrderBy("age"))
			Expect(err).NotTo(HaveOccurred())

			Expect(records[0].(employee).FirstName).To(Equal("Alice"))
			Expect(records[2].(employee).FirstName).To(Equal("Carol"))
		})

		It("drops aliases naming unknown columns", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithOrderBy("bogus", "age"))
			Expect(err).NotTo(HaveOccurred())

			Expect(t.OrderBy()).To(HaveLen(1))
			Expect(firstNames(t)).To(Equal([]string{"Bob", "Alice", "Carol"}))
		})

		It("drops aliases naming non orderable columns", func() {
			def, err := table.NewDefinition(table.Options{},
				table.Declare("first_name", column.New()),
				table.Declare("age", column.New(column.WithOrderable(false))),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData(employees()),
				table.WithOrderBy("age"))
			Expect(err).NotTo(HaveOccurred())
			Expect(t.OrderBy()).To(BeEmpty())
		})

		It("respects the table wide orderable default", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithOrderable(false), table.WithOrderBy("age"))
			Expect(err).NotTo(HaveOccurred())
			Expect(t.OrderBy()).To(BeEmpty())
		})

		It("reorders on SetOrderBy", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			Expect(t.SetOrderBy("-last_name")).To(Succeed())
			Expect(firstNames(t)).To(Equal([]string{"Alice", "Bob", "Carol"}))
		})

		It("uses the definition's initial order when the instance sets none", func() {
			def, err := table.NewDefinition(table.Options{OrderBy: []string{"age"}},
				table.Declare("first_name", column.New()),
				table.Declare("age", column.New()),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())
			Expect(firstNames(t)).To(Equal([]string{"Bob", "Alice", "Carol"}))
		})
	})

	Describe("multi key columns", func() {
		var def *table.Definition

		BeforeEach(func() {
			var err error
			def, err = table.NewDefinition(table.Options{},
				table.Declare("first_name", column.New()),
				table.Declare("name", column.New(
					column.WithOrderBy("last_name", "-first_name"))),
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("orders by every physical key of the alias", func() {
			t, err := table.New(def, table.NewListData(employees()),
				table.WithOrderBy("name"))
			Expect(err).NotTo(HaveOccurred())
			Expect(firstNames(t)).To(Equal([]string{"Carol", "Bob", "Alice"}))
		})

		It("flips every physical key for the descending alias", func() {
			t, err := table.New(def, table.NewListData(employees()),
				table.WithOrderBy("-name"))
			Expect(err).NotTo(HaveOccurred())

			bc, err := t.Columns().Get("name")
			Expect(err).NotTo(HaveOccurred())
			Expect(bc.OrderBy()).To(Equal(tablebind.OrderByTuple{"-last_name", "first_name"}))
			Expect(firstNames(t)).To(Equal([]string{"Alice", "Bob", "Carol"}))
		})
	})

	Describe("sort toggling", func() {
		It("cycles a column through unordered, ascending and descending", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			bc, err := t.Columns().Get("age")
			Expect(err).NotTo(HaveOccurred())

			alias := bc.OrderByAlias()
			Expect(alias.IsOrdered()).To(BeFalse())
			Expect(alias.Next()).To(Equal(tablebind.OrderBy("age")))

			Expect(t.SetOrderBy(string(alias.Next()))).To(Succeed())
			alias = bc.OrderByAlias()
			Expect(alias.IsAscending()).To(BeTrue())
			Expect(alias.Next()).To(Equal(tablebind.OrderBy("-age")))

			Expect(t.SetOrderBy(string(alias.Next()))).To(Succeed())
			alias = bc.OrderByAlias()
			Expect(alias.IsDescending()).To(BeTrue())
			Expect(alias.Next()).To(Equal(tablebind.OrderBy("age")))
		})

		It("begins descending for descending first columns", func() {
			def, err := table.NewDefinition(table.Options{},
				table.Declare("age", column.New(column.WithDescendingFirst())),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			bc, err := t.Columns().Get("age")
			Expect(err).NotTo(HaveOccurred())
			Expect(bc.OrderByAlias().Next()).To(Equal(tablebind.OrderBy("-age")))
		})
	})

	Describe("cell resolution", func() {
		It("resolves cells through the column's accessor defaulting to its name", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())

			cell, err := row.Cell("last_name")
			Expect(err).NotTo(HaveOccurred())
			Expect(cell).To(Equal("Zimmer"))
		})

		It("substitutes the column default for empty values", func() {
			def, err := table.NewDefinition(table.Options{},
				table.Declare("nickname", column.New(column.WithDefault("n/a"))),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData([]interface{}{
				map[string]interface{}{"nickname": ""},
				map[string]interface{}{"nickname": "Lefty"},
			}))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			cell, err := row.Cell("nickname")
			Expect(err).NotTo(HaveOccurred())
			Expect(cell).To(Equal("n/a"))

			row, err = t.Rows().At(1)
			Expect(err).NotTo(HaveOccurred())
			cell, err = row.Cell("nickname")
			Expect(err).NotTo(HaveOccurred())
			Expect(cell).To(Equal("Lefty"))
		})

		It("falls back to the table wide default", func() {
			def, err := table.NewDefinition(table.Options{Default: "-"},
				table.Declare("nickname", column.New()),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData([]interface{}{
				map[string]interface{}{"nickname": nil},
			}))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			cell, err := row.Cell("nickname")
			Expect(err).NotTo(HaveOccurred())
			Expect(cell).To(Equal("-"))
		})

		It("prefers the record's display form over raw field access", func() {
			def, err := table.NewDefinition(table.Options{},
				table.Declare("code", column.New()),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData([]interface{}{
				status{Code: "A"},
			}))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			cell, err := row.Cell("code")
			Expect(err).NotTo(HaveOccurred())
			Expect(cell).To(Equal("Active"))
		})

		It("short circuits through a callable accessor", func() {
			def, err := table.NewDefinition(table.Options{},
				table.Declare("name", column.New(
					column.WithAccessorFunc(func(record interface{}) interface{} {
						e := record.(employee)
						return e.LastName + ", " + e.FirstName
					}))),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			cell, err := row.Cell("name")
			Expect(err).NotTo(HaveOccurred())
			Expect(cell).To(Equal("Zimmer, Alice"))
		})

		It("fails the row lookup for unknown columns", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())

			_, err = row.Cell("salary")
			Expect(err).To(MatchError(table.ErrUnknownColumn))
		})
	})

	Describe("hooks", func() {
		It("applies a render hook over the column's own transform", func() {
			def, err := table.NewDefinition(table.Options{},
				table.Declare("age", column.New(
					column.WithRender(func(value, record interface{}) interface{} {
						return "column"
					}))),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData(employees()),
				table.WithHooks("age", table.Hooks{
					Render: table.RenderValue(func(value interface{}) interface{} {
						return fmt.Sprintf("aged %v", value)
					}),
				}))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			cell, err := row.Cell("age")
			Expect(err).NotTo(HaveOccurred())
			Expect(cell).To(Equal("aged 30"))
		})

		It("keeps Value untouched by render hooks", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithHooks("age", table.Hooks{
					Render: table.RenderValue(func(value interface{}) interface{} {
						return "rendered"
					}),
				}))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			value, err := row.Value("age")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal(30))
		})

		It("lets a handled alias own the order over remaining key aliases", func() {
			def, err := table.NewDefinition(table.Options{},
				table.Declare("state", column.New()),
				table.Declare("age", column.New()),
			)
			Expect(err).NotTo(HaveOccurred())

			records := []interface{}{
				map[string]interface{}{"state": "A", "age": 1},
				map[string]interface{}{"state": "S", "age": 2},
			}

			// Reverse lexicographic by state, so the hook's order
			// disagrees with an ascending sort by age.
			byStateDescending := func(data table.Data, descending bool) (table.Data, bool) {
				list, ok := data.(*table.ListData)
				if !ok {
					return data, false
				}

				sorted := list.Sort(func(a, b interface{}) int {
					left := a.(map[string]interface{})["state"].(string)
					right := b.(map[string]interface{})["state"].(string)

					return -strings.Compare(left, right)
				})

				return sorted, true
			}

			t, err := table.New(def, table.NewListData(records),
				table.WithHooks("state", table.Hooks{Order: byStateDescending}),
				table.WithOrderBy("state", "age"))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			value, err := row.Value("state")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("S"))
		})

		It("lets an order hook replace key based ordering", func() {
			choices := column.Choices{"S": "Suspended", "A": "Active"}
			def, err := table.NewDefinition(table.Options{},
				table.Declare("state", column.NewChoice(choices)),
			)
			Expect(err).NotTo(HaveOccurred())

			records := []interface{}{
				map[string]interface{}{"state": "S"},
				map[string]interface{}{"state": "A"},
			}

			t, err := table.New(def, table.NewListData(records),
				table.WithHooks("state", table.Hooks{
					Order: table.ChoicesOrder("state", choices),
				}),
				table.WithOrderBy("state"))
			Expect(err).NotTo(HaveOccurred())

			record, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			value, err := record.Value("state")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("A"))
		})
	})

	Describe("filtering", func() {
		It("narrows in-memory data before ordering", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithFilters(table.NewSimpleFilterGroup(
					"age", tablebind.FilterGreater, 26)),
				table.WithOrderBy("age"))
			Expect(err).NotTo(HaveOccurred())
			Expect(firstNames(t)).To(Equal([]string{"Alice", "Carol"}))
		})

		It("combines filters within a group by OR", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithFilters(table.NewFilterGroup("first_name", []table.Filter{
					table.NewFilter(tablebind.FilterEquals, "Alice"),
					table.NewFilter(tablebind.FilterEquals, "Carol"),
				})))
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Rows().Len()).To(Equal(2))
		})

		It("combines groups by AND", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithFilters(
					table.NewSimpleFilterGroup("last_name", tablebind.FilterEquals, "Adams"),
					table.NewSimpleFilterGroup("age", tablebind.FilterLesser, 30),
				))
			Expect(err).NotTo(HaveOccurred())
			Expect(firstNames(t)).To(Equal([]string{"Bob"}))
		})

		It("narrows from the original data source on every call", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			Expect(t.SetFilters(table.NewSimpleFilterGroup(
				"first_name", tablebind.FilterEquals, "Alice"))).To(Succeed())
			Expect(firstNames(t)).To(Equal([]string{"Alice"}))

			Expect(t.SetFilters(table.NewSimpleFilterGroup(
				"first_name", tablebind.FilterEquals, "Bob"))).To(Succeed())
			Expect(firstNames(t)).To(Equal([]string{"Bob"}))
		})

		It("keeps the current sort across filter changes", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithOrderBy("-age"))
			Expect(err).NotTo(HaveOccurred())

			Expect(t.SetFilters(table.NewSimpleFilterGroup(
				"last_name", tablebind.FilterEquals, "Adams"))).To(Succeed())
			Expect(firstNames(t)).To(Equal([]string{"Carol", "Bob"}))
		})

		It("refuses filtering on collections which cannot narrow", func() {
			collection := &fakeCollection{records: []map[string]interface{}{
				{"name": "a"},
			}}

			_, err := table.New(employeeDefinition(), table.NewCollectionData(collection),
				table.WithFilters(table.NewSimpleFilterGroup(
					"name", tablebind.FilterEquals, "a")))
			Expect(err).To(MatchError(table.ErrFilteringUnsupported))
		})
	})

	Describe("column binding", func() {
		It("humanizes names for headers without a verbose name", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			bc, err := t.Columns().Get("first_name")
			Expect(err).NotTo(HaveOccurred())
			Expect(bc.Header()).To(Equal("First name"))
		})

		It("prefers the declared verbose name", func() {
			def, err := table.NewDefinition(table.Options{},
				table.Declare("first_name", column.New(column.WithVerboseName("Given name"))),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			bc, err := t.Columns().Get("first_name")
			Expect(err).NotTo(HaveOccurred())
			Expect(bc.Header()).To(Equal("Given name"))
		})

		It("resolves headers through the header lookup before humanizing", func() {
			headers := catalog.HeaderCatalog{"first_name": "Given name"}

			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithHeaders(headers))
			Expect(err).NotTo(HaveOccurred())

			bc, err := t.Columns().Get("first_name")
			Expect(err).NotTo(HaveOccurred())
			Expect(bc.Header()).To(Equal("Given name"))

			bc, err = t.Columns().Get("last_name")
			Expect(err).NotTo(HaveOccurred())
			Expect(bc.Header()).To(Equal("Last name"))
		})

		It("reorders columns through a sequence with a wildcard", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithSequence("age", "..."))
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Columns().Names()).To(Equal([]string{"age", "first_name", "last_name"}))
		})

		It("rejects sequences naming unknown columns", func() {
			_, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithSequence("bogus"))
			Expect(err).To(BeAssignableToTypeOf(tablebind.ConfigurationError{}))
		})

		It("adds and removes instance only columns", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(employees()),
				table.WithExtraColumns(
					table.Declare("initials", column.New(
						column.WithAccessorFunc(func(record interface{}) interface{} {
							e := record.(employee)
							return e.FirstName[:1] + e.LastName[:1]
						}))),
					table.Remove("age"),
				))
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Columns().Names()).To(Equal([]string{"first_name", "last_name", "initials"}))

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			cell, err := row.Cell("initials")
			Expect(err).NotTo(HaveOccurred())
			Expect(cell).To(Equal("AZ"))
		})

		It("excludes hidden columns from the visible set", func() {
			def, err := table.NewDefinition(table.Options{},
				table.Declare("first_name", column.New()),
				table.Declare("age", column.New(column.WithVisible(false))),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewListData(employees()))
			Expect(err).NotTo(HaveOccurred())

			visible := t.Columns().Visible()
			Expect(visible).To(HaveLen(1))
			Expect(visible[0].Name()).To(Equal("first_name"))
		})
	})

	Describe("collection delegation", func() {
		It("pushes ordering down to the collection", func() {
			collection := &fakeCollection{records: []map[string]interface{}{
				{"name": "bravo"},
				{"name": "alpha"},
			}}

			def, err := table.NewDefinition(table.Options{},
				table.Declare("name", column.New()),
			)
			Expect(err).NotTo(HaveOccurred())

			t, err := table.New(def, table.NewCollectionData(collection),
				table.WithOrderBy("-name"))
			Expect(err).NotTo(HaveOccurred())

			row, err := t.Rows().At(0)
			Expect(err).NotTo(HaveOccurred())
			value, err := row.Value("name")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("bravo"))
		})
	})

	Describe("instance texture", func() {
		It("exposes empty text and attrs", func() {
			t, err := table.New(employeeDefinition(), table.NewListData(nil),
				table.WithEmptyText("no employees"),
				table.WithAttrs(map[string]string{"class": "roster"}))
			Expect(err).NotTo(HaveOccurred())

			Expect(t.Rows().Len()).To(BeZero())
			Expect(t.EmptyText()).To(Equal("no employees"))
			Expect(t.Attrs()).To(HaveKeyWithValue("class", "roster"))
		})
	})
})
