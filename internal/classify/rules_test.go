package classify

import (
	"context"
	"testing"

	"budgetin/internal/core"
)

func mustRules(t *testing.T) *Rules {
	t.Helper()
	r, err := NewRules(DefaultCategorySet())
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}
	return r
}

func TestRulesClassify(t *testing.T) {
	r := mustRules(t)
	ctx := context.Background()

	cases := []struct {
		description string
		want        core.Category
	}{
		{"beli beras", core.CategoryDailyNeeds},
		{"bayar listrik", core.CategoryUtilities},
		{"isi bensin motor", core.CategoryTransportation},
		{"obat flu", core.CategoryHealth},
		{"nonton bioskop", core.CategoryEntertainment},
		{"bayar kursus online", core.CategoryEducation},
		{"beli sepatu baru", core.CategoryShopping},
		{"cicilan motor", core.CategoryBills},
		{"butuh dana darurat", core.CategoryUrgent},
		{"BELI BERAS", core.CategoryDailyNeeds}, // case-insensitive
		{"sesuatu yang aneh", core.CategoryOther},
		{"", core.CategoryOther},
	}
	for _, tc := range cases {
		got, err := r.Classify(ctx, tc.description)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.description, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.description, got, tc.want)
		}
	}
}

func TestRulesLongestKeywordWins(t *testing.T) {
	// "rumah sakit" (Health) contains "sakit"; a description matching
	// both a short and a long keyword must resolve to the longer one.
	set := CategorySet{
		core.CategoryHealth:     {"rumah sakit"},
		core.CategoryDailyNeeds: {"rumah"},
	}
	r, err := NewRules(set)
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}
	got, _ := r.Classify(context.Background(), "bayar rumah sakit")
	if got != core.CategoryHealth {
		t.Fatalf("got %q, want %q", got, core.CategoryHealth)
	}
}

func TestRulesIdempotent(t *testing.T) {
	r := mustRules(t)
	ctx := context.Background()
	for _, desc := range []string{"beli beras", "sesuatu yang aneh", "bayar listrik dan air"} {
		first, _ := r.Classify(ctx, desc)
		second, _ := r.Classify(ctx, desc)
		if first != second {
			t.Fatalf("%q: %q != %q", desc, first, second)
		}
	}
}

func TestNewRulesRejectsBadSets(t *testing.T) {
	cases := []struct {
		name string
		set  CategorySet
	}{
		{"empty set", CategorySet{}},
		{"unknown category", CategorySet{"Belanja Gaib": {"x"}}},
		{"keywords on Other", CategorySet{core.CategoryOther: {"x"}}},
		{"no keywords", CategorySet{core.CategoryHealth: {}}},
		{"empty keyword", CategorySet{core.CategoryHealth: {" "}}},
		{"ambiguous keyword", CategorySet{
			core.CategoryHealth:     {"obat"},
			core.CategoryDailyNeeds: {"obat"},
		}},
	}
	for _, tc := range cases {
		if _, err := NewRules(tc.set); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
