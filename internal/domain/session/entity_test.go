package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nutricheck/nutricheck/internal/domain/analysis"
)

func sampleResult() analysis.Result {
	cal := 160.0
	fat := "10g"
	return analysis.Result{
		ProductName: "Super Snax Cheezy Puffs",
		Ingredients: []string{"Corn meal", "vegetable oil", "yellow 6"},
		Nutrition:   analysis.Nutrition{Calories: &cal, Fat: &fat},
		Verdict:     analysis.VerdictAvoid,
		Headline:    "Ultra-processed snack",
		KeyFactors: []analysis.KeyFactor{
			{Signal: "Artificial Colors", Explanation: "Contains yellow 6."},
			{Signal: "High Fat", Explanation: "10g per serving."},
		},
	}
}

func TestDerive_RiskFlagsOrder(t *testing.T) {
	pc := Derive(sampleResult())

	want := []string{"Artificial Colors", "High Fat"}
	if diff := cmp.Diff(want, pc.RiskFlags); diff != "" {
		t.Errorf("risk flags mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_CopiesFields(t *testing.T) {
	a := sampleResult()
	pc := Derive(a)

	if pc.ProductName != a.ProductName {
		t.Errorf("ProductName = %q, want %q", pc.ProductName, a.ProductName)
	}
	if diff := cmp.Diff(a.Ingredients, pc.Ingredients); diff != "" {
		t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
	}

	// mutating the source must not reach the derived context
	a.Ingredients[0] = "mutated"
	if pc.Ingredients[0] == "mutated" {
		t.Error("derived context shares ingredient slice with the result")
	}
}

func TestDerive_Deterministic(t *testing.T) {
	first := Derive(sampleResult())
	second := Derive(sampleResult())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Derive is not deterministic (-first +second):\n%s", diff)
	}
}

func TestClone_Independent(t *testing.T) {
	pc := Derive(sampleResult())
	clone := pc.Clone()

	if diff := cmp.Diff(pc, clone); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s", diff)
	}

	clone.Ingredients[0] = "mutated"
	clone.RiskFlags[0] = "mutated"
	*clone.Nutrition.Calories = 0

	if pc.Ingredients[0] == "mutated" || pc.RiskFlags[0] == "mutated" {
		t.Error("clone shares slices with original")
	}
	if *pc.Nutrition.Calories != 160 {
		t.Error("clone shares nutrition pointers with original")
	}
}
