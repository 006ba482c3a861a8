package reference

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const patentsFixture = `[
  {
    "id": 1,
    "publication_number": "US123",
    "title": "Widget latch",
    "abstract": "A latch for widgets",
    "description": "Long description",
    "claims": "[{\"num\":\"00001\",\"text\":\"A latch.\"},{\"num\":\"00002\",\"text\":\"The latch of claim 1.\"}]"
  },
  {
    "id": 2,
    "publication_number": "US456",
    "title": "Gadget hinge",
    "abstract": "A hinge",
    "description": "Hinge description",
    "claims": [{"num":"1","text":"A hinge."}]
  }
]`

const companiesFixture = `{
  "companies": [
    {"name": "Acme", "products": [
      {"name": "Widget", "description": "A widget with a latch"},
      {"name": "Gadget", "description": "A gadget"}
    ]},
    {"name": "Empty Co"}
  ]
}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadPatents(t *testing.T) {
	Convey("Given a patents asset", t, func() {
		path := writeFixture(t, "patents.json", patentsFixture)

		Convey("When loading it", func() {
			patents, err := LoadPatents(path)

			Convey("Then patents are indexed by publication number", func() {
				So(err, ShouldBeNil)
				So(patents, ShouldHaveLength, 2)
				So(patents["US123"].Title, ShouldEqual, "Widget latch")
			})

			Convey("And string-encoded claims are decoded", func() {
				So(patents["US123"].Claims, ShouldResemble, []Claim{
					{Number: "00001", Text: "A latch."},
					{Number: "00002", Text: "The latch of claim 1."},
				})
			})

			Convey("And array claims are decoded", func() {
				So(patents["US456"].Claims, ShouldResemble, []Claim{{Number: "1", Text: "A hinge."}})
			})
		})

		Convey("When the file is missing", func() {
			_, err := LoadPatents(filepath.Join(t.TempDir(), "missing.json"))

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the file is not valid JSON", func() {
			_, err := LoadPatents(writeFixture(t, "bad.json", `{"oops"`))

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a claims string is corrupt", func() {
			_, err := LoadPatents(writeFixture(t, "bad_claims.json",
				`[{"id":1,"publication_number":"US1","claims":"[{not json"}]`))

			Convey("Then the patent is named in the error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "US1")
			})
		})
	})
}

func TestLoadCompanies(t *testing.T) {
	Convey("Given a companies asset", t, func() {
		path := writeFixture(t, "companies.json", companiesFixture)

		Convey("When loading it", func() {
			companies, err := LoadCompanies(path)

			Convey("Then companies keep their product order", func() {
				So(err, ShouldBeNil)
				So(companies, ShouldHaveLength, 2)
				So(companies["Acme"].Products[0].Name, ShouldEqual, "Widget")
				So(companies["Acme"].Products[1].Name, ShouldEqual, "Gadget")
			})

			Convey("And a company without products gets an empty list", func() {
				So(companies["Empty Co"].Products, ShouldNotBeNil)
				So(companies["Empty Co"].Products, ShouldBeEmpty)
			})
		})

		Convey("When a company has no name", func() {
			_, err := LoadCompanies(writeFixture(t, "noname.json", `{"companies":[{"products":[]}]}`))

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoadStore(t *testing.T) {
	Convey("Given both assets", t, func() {
		store, err := Load(
			writeFixture(t, "patents.json", patentsFixture),
			writeFixture(t, "companies.json", companiesFixture),
		)
		So(err, ShouldBeNil)

		Convey("Then lookups hit and miss as expected", func() {
			p, ok := store.Patent("US123")
			So(ok, ShouldBeTrue)
			So(p.Claims, ShouldHaveLength, 2)

			_, ok = store.Patent("US999")
			So(ok, ShouldBeFalse)

			c, ok := store.Company("Acme")
			So(ok, ShouldBeTrue)
			So(c.Products, ShouldHaveLength, 2)

			_, ok = store.Company("acme")
			So(ok, ShouldBeFalse)
		})

		Convey("Then counts reflect the assets", func() {
			patents, companies := store.Counts()
			So(patents, ShouldEqual, 2)
			So(companies, ShouldEqual, 2)
		})
	})

	Convey("Given a missing companies asset", t, func() {
		_, err := Load(writeFixture(t, "patents.json", patentsFixture), "/nonexistent/companies.json")

		Convey("Then Load fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPromptText(t *testing.T) {
	Convey("Given a patent and a product", t, func() {
		patent := Patent{
			Title:       "Latch",
			Abstract:    "a latch",
			Description: "desc",
			Claims:      []Claim{{Number: "1", Text: "first"}, {Number: "2", Text: "second"}},
		}
		product := Product{Name: "Widget", Description: "a widget"}

		Convey("Then all claim texts are joined into the patent rendering", func() {
			So(patent.PromptText(), ShouldEqual, "The patent 'Latch' is about a latch. Description: desc, Claims: [first, second]")
		})

		Convey("Then the product rendering names the product", func() {
			So(product.PromptText(), ShouldEqual, "The product 'Widget' is about a widget")
		})
	})
}
