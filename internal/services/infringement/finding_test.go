package infringement

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"patent-checker/internal/reference"
)

func patentWithClaims(n int) reference.Patent {
	claims := make([]reference.Claim, n)
	for i := range claims {
		claims[i] = reference.Claim{Number: string(rune('1' + i)), Text: "claim text"}
	}
	return reference.Patent{PublicationNumber: "US123", Claims: claims}
}

func TestParseFinding(t *testing.T) {
	product := reference.Product{Name: "Widget"}

	Convey("Given a well-formed reply", t, func() {
		raw := "relevant_claims: 1, 2, 3\nexplanation: The widget uses a gear.\nspecific_features: gear, spring"
		f := ParseFinding(patentWithClaims(4), product, raw)

		Convey("Then every field is extracted", func() {
			So(f.PatentID, ShouldEqual, "US123")
			So(f.ProductName, ShouldEqual, "Widget")
			So(f.RelevantClaims, ShouldResemble, []string{"1", "2", "3"})
			So(f.Explanation, ShouldEqual, "The widget uses a gear.")
			So(f.SpecificFeatures, ShouldResemble, []string{"gear", "spring"})
		})

		Convey("Then likelihood is cited claims over total claims", func() {
			So(f.Likelihood, ShouldEqual, 0.75)
		})
	})

	Convey("Given a reply without an explanation line", t, func() {
		f := ParseFinding(patentWithClaims(2), product, "relevant_claims: 1\nspecific_features: gear")

		Convey("Then the explanation is empty", func() {
			So(f.Explanation, ShouldEqual, "")
			So(f.Likelihood, ShouldEqual, 0.5)
		})
	})

	Convey("Given a reply with two relevant_claims lines", t, func() {
		f := ParseFinding(patentWithClaims(4), product, "relevant_claims: 1, 2, 3\nrelevant_claims: 4\nexplanation: first\nexplanation: second")

		Convey("Then the last occurrence wins", func() {
			So(f.RelevantClaims, ShouldResemble, []string{"4"})
			So(f.Explanation, ShouldEqual, "second")
			So(f.Likelihood, ShouldEqual, 0.25)
		})
	})

	Convey("Given a reply with noise", t, func() {
		raw := "Sure! Here is my assessment:\r\nrelevant_claims: 1, , 2 ,\r\nRelevant_Claims: 9\r\nexplanation: ratio: high\r\nspecific_features:\r\n"
		f := ParseFinding(patentWithClaims(2), product, raw)

		Convey("Then prefixes match case-sensitively and empty tokens are kept", func() {
			So(f.RelevantClaims, ShouldResemble, []string{"1", "", "2", ""})
			So(f.Likelihood, ShouldEqual, 2.0)
		})

		Convey("Then only the first colon separates the value", func() {
			So(f.Explanation, ShouldEqual, "ratio: high")
		})

		Convey("Then an empty list yields one empty token", func() {
			So(f.SpecificFeatures, ShouldResemble, []string{""})
		})
	})

	Convey("Given a bare relevant_claims line", t, func() {
		f := ParseFinding(patentWithClaims(2), product, "relevant_claims:")

		Convey("Then the empty token counts as one claim", func() {
			So(f.RelevantClaims, ShouldResemble, []string{""})
			So(f.Likelihood, ShouldEqual, 0.5)
		})
	})

	Convey("Given a trailing comma", t, func() {
		f := ParseFinding(patentWithClaims(2), product, "relevant_claims: 1, 2,")

		Convey("Then the trailing empty token is counted", func() {
			So(f.RelevantClaims, ShouldResemble, []string{"1", "2", ""})
			So(f.Likelihood, ShouldEqual, 1.5)
		})
	})

	Convey("Given an indented prefix", t, func() {
		f := ParseFinding(patentWithClaims(2), product, "  relevant_claims: 1\n\texplanation: indented")

		Convey("Then the lines are ignored", func() {
			So(f.RelevantClaims, ShouldBeEmpty)
			So(f.Explanation, ShouldEqual, "")
			So(f.Likelihood, ShouldEqual, 0.0)
		})
	})

	Convey("Given an empty reply", t, func() {
		f := ParseFinding(patentWithClaims(3), product, "")

		Convey("Then defaults are returned", func() {
			So(f.RelevantClaims, ShouldNotBeNil)
			So(f.RelevantClaims, ShouldBeEmpty)
			So(f.SpecificFeatures, ShouldNotBeNil)
			So(f.Explanation, ShouldEqual, "")
			So(f.Likelihood, ShouldEqual, 0.0)
		})
	})

	Convey("Given more cited claims than the patent has", t, func() {
		f := ParseFinding(patentWithClaims(2), product, "relevant_claims: 1, 1, 2, 99")

		Convey("Then duplicates and unknown numbers count and the ratio is not clamped", func() {
			So(f.RelevantClaims, ShouldHaveLength, 4)
			So(f.Likelihood, ShouldEqual, 2.0)
		})
	})

	Convey("Given a patent with no claims", t, func() {
		f := ParseFinding(patentWithClaims(0), product, "relevant_claims: 1")

		Convey("Then likelihood is zero", func() {
			So(f.Likelihood, ShouldEqual, 0.0)
		})
	})
}

func TestFilterAndSortFindings(t *testing.T) {
	Convey("Given findings around the threshold", t, func() {
		findings := []Finding{
			{ProductName: "a", Likelihood: 0.3},
			{ProductName: "b", Likelihood: 0.5},
			{ProductName: "c", Likelihood: 0.31},
			{ProductName: "d", Likelihood: 0.0},
			{ProductName: "e", Likelihood: 0.5},
			{ProductName: "f", Likelihood: 1.5},
		}

		kept := FilterFindings(findings)
		SortFindings(kept)

		Convey("Then only findings above 0.3 remain", func() {
			for _, f := range kept {
				So(f.Likelihood, ShouldBeGreaterThan, LikelihoodThreshold)
			}
			So(kept, ShouldHaveLength, 4)
		})

		Convey("Then they are ordered by likelihood with ties in input order", func() {
			names := make([]string, len(kept))
			for i, f := range kept {
				names[i] = f.ProductName
			}
			So(names, ShouldResemble, []string{"f", "b", "e", "c"})
			for i := 1; i < len(kept); i++ {
				So(kept[i-1].Likelihood, ShouldBeGreaterThanOrEqualTo, kept[i].Likelihood)
			}
		})
	})
}

func TestFindingString(t *testing.T) {
	Convey("Given a finding", t, func() {
		f := Finding{
			PatentID:         "US123",
			ProductName:      "Widget",
			Likelihood:       0.5,
			RelevantClaims:   []string{"1", "2"},
			Explanation:      "uses a gear",
			SpecificFeatures: []string{"gear"},
		}

		Convey("Then it renders as a readable sentence", func() {
			So(f.String(), ShouldEqual, "Product 'Widget' infringes patent 'US123'. Likelihood: 50.00%. Relevant claims: [1, 2], Explanation: uses a gear, Specific features: [gear]")
		})
	})

	Convey("Given likelihood ratios", t, func() {
		So(FormatLikelihood(0.5), ShouldEqual, "50.00%")
		So(FormatLikelihood(1.0/3.0), ShouldEqual, "33.33%")
		So(FormatLikelihood(0), ShouldEqual, "0.00%")
		So(FormatLikelihood(1.25), ShouldEqual, "125.00%")
	})
}
