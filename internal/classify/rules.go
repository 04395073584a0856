package classify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"budgetin/internal/core"
)

// CategorySet maps each category to the keywords that select it.
// Keywords are matched case-insensitively as substrings of the
// description. The set is configuration: validated once at load, never
// mutated afterwards.
type CategorySet map[core.Category][]string

// DefaultCategorySet returns the built-in Indonesian keyword table.
func DefaultCategorySet() CategorySet {
	return CategorySet{
		core.CategoryDailyNeeds: {
			"makan", "minum", "beras", "sayur", "buah", "daging", "ikan",
			"telur", "susu", "roti", "nasi", "lauk", "snack", "cemilan",
			"grocery", "belanja", "pasar", "supermarket",
		},
		core.CategoryTransportation: {
			"bensin", "ojek", "grab", "gojek", "taxi", "bus", "kereta",
			"parkir", "tol", "transport",
		},
		core.CategoryUtilities: {
			"listrik", "air", "internet", "wifi", "pulsa", "token",
			"pln", "pdam", "indihome",
		},
		core.CategoryHealth: {
			"obat", "dokter", "rumah sakit", "rs", "klinik", "vitamin",
			"medical", "kesehatan",
		},
		core.CategoryUrgent: {
			"darurat", "urgent", "penting", "mendadak", "emergency",
		},
		core.CategoryEntertainment: {
			"nonton", "bioskop", "game", "musik", "streaming", "netflix",
			"spotify", "hiburan", "jalan", "mall", "cafe", "restaurant",
			"film", "nongkrong",
		},
		core.CategoryEducation: {
			"buku", "kursus", "sekolah", "kuliah", "les", "pendidikan",
		},
		core.CategoryShopping: {
			"baju", "sepatu", "elektronik", "hp", "laptop", "gadget",
		},
		core.CategoryBills: {
			"cicilan", "asuransi", "pajak", "tagihan", "iuran",
		},
	}
}

type keywordEntry struct {
	keyword  string
	category core.Category
}

// Rules is the keyword tier. It is immutable after construction, total,
// and deterministic, so it is safe to share across goroutines without
// locking.
type Rules struct {
	entries []keywordEntry
}

// NewRules validates a category set and builds the rule classifier.
// Rejected: unknown category names, keywords for the Other category
// (Other is the absence of a match, not a match), empty or duplicate
// keywords.
func NewRules(set CategorySet) (*Rules, error) {
	if len(set) == 0 {
		return nil, fmt.Errorf("category set is empty")
	}

	seen := make(map[string]core.Category)
	var entries []keywordEntry
	for cat, keywords := range set {
		canonical, ok := core.ValidCategory(string(cat))
		if !ok {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownCategory, cat)
		}
		if canonical == core.CategoryOther {
			return nil, fmt.Errorf("category %q must not carry keywords", core.CategoryOther)
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", cat)
		}
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("category %q has an empty keyword", cat)
			}
			if prev, dup := seen[kw]; dup && prev != canonical {
				return nil, fmt.Errorf("keyword %q assigned to both %q and %q", kw, prev, canonical)
			}
			seen[kw] = canonical
			entries = append(entries, keywordEntry{keyword: kw, category: canonical})
		}
	}

	// Longest keyword first: the most specific match wins without any
	// per-call sorting. Equal lengths order lexically for determinism.
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].keyword) != len(entries[j].keyword) {
			return len(entries[i].keyword) > len(entries[j].keyword)
		}
		return entries[i].keyword < entries[j].keyword
	})

	return &Rules{entries: entries}, nil
}

// Classify returns the category of the longest keyword contained in the
// description, or Other when nothing matches. The error is always nil;
// the signature exists to satisfy Classifier.
func (r *Rules) Classify(_ context.Context, description string) (core.Category, error) {
	lowered := strings.ToLower(description)
	for _, e := range r.entries {
		if strings.Contains(lowered, e.keyword) {
			return e.category, nil
		}
	}
	return core.CategoryOther, nil
}
