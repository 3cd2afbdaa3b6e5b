package content

import (
	"reflect"
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }

func TestOrganizeGroupsUnderSubcategories(t *testing.T) {
	categories := []Category{
		{ID: 1, Slug: "water-supply", Content: Entity{Title: "Water Supply"}},
	}
	subcategories := []Subcategory{
		{ID: 10, CategoryID: 1, Slug: "pe-pipes", Content: Entity{Title: "PE Pipes"}},
		{ID: 11, CategoryID: 1, Slug: "fittings", Content: Entity{Title: "Fittings"}},
	}
	items := []Item{
		{ID: 100, CategoryID: 1, SubcategoryID: int64Ptr(10), Content: Entity{Title: "PE 80 certificate"}},
		{ID: 101, CategoryID: 1, SubcategoryID: int64Ptr(11), Content: Entity{Title: "Fitting certificate"}},
	}

	got := Organize(categories, subcategories, items, LangEN)

	if len(got) != 1 {
		t.Fatalf("got %d categories, want 1", len(got))
	}
	if len(got[0].Subsections) != 2 {
		t.Errorf("got %d subsections, want 2", len(got[0].Subsections))
	}
	if got[0].Certificates != nil {
		t.Errorf("top-level certificates should be absent, got %+v", got[0].Certificates)
	}
}

func TestOrganizeExcludesSubcategoryItemsFromTopLevel(t *testing.T) {
	// Category with no subcategories and 3 certificates, one of which
	// references a subcategory of another category: the top-level list has
	// the 2 loose certificates only.
	categories := []Category{
		{ID: 2, Slug: "gas", Content: Entity{Title: "Gas"}},
	}
	items := []Item{
		{ID: 200, CategoryID: 2, Content: Entity{Title: "Gas pipe cert"}},
		{ID: 201, CategoryID: 2, SubcategoryID: int64Ptr(99), Content: Entity{Title: "Orphaned"}},
		{ID: 202, CategoryID: 2, Content: Entity{Title: "Gas fitting cert"}},
	}

	got := Organize(categories, nil, items, LangEN)

	if len(got) != 1 {
		t.Fatalf("got %d categories, want 1", len(got))
	}
	if len(got[0].Certificates) != 2 {
		t.Errorf("got %d top-level certificates, want 2", len(got[0].Certificates))
	}
}

func TestOrganizeDropsEmptyCategories(t *testing.T) {
	categories := []Category{
		{ID: 1, Slug: "water-supply", Content: Entity{Title: "Water Supply"}},
		{ID: 2, Slug: "sewage", Content: Entity{Title: "Sewage"}},
	}
	items := []Item{
		{ID: 100, CategoryID: 2, Content: Entity{Title: "Konti Kan certificate"}},
	}

	got := Organize(categories, nil, items, LangEN)

	if len(got) != 1 {
		t.Fatalf("got %d categories, want 1", len(got))
	}
	if got[0].ID != 2 {
		t.Errorf("surviving category ID = %d, want 2", got[0].ID)
	}
}

func TestOrganizePreservesInputOrder(t *testing.T) {
	categories := []Category{
		{ID: 3, Slug: "manholes", Content: Entity{Title: "Manholes"}},
		{ID: 1, Slug: "water-supply", Content: Entity{Title: "Water Supply"}},
		{ID: 2, Slug: "gas", Content: Entity{Title: "Gas"}},
	}
	items := []Item{
		{ID: 1, CategoryID: 1, Content: Entity{Title: "a"}},
		{ID: 2, CategoryID: 2, Content: Entity{Title: "b"}},
		{ID: 3, CategoryID: 3, Content: Entity{Title: "c"}},
	}

	got := Organize(categories, nil, items, LangEN)

	wantOrder := []int64{3, 1, 2}
	for i, cat := range got {
		if cat.ID != wantOrder[i] {
			t.Errorf("result[%d].ID = %d, want %d", i, cat.ID, wantOrder[i])
		}
	}
}

func TestOrganizeResolvesLanguage(t *testing.T) {
	categories := []Category{
		{ID: 1, Slug: "water-supply", Content: Entity{
			Title:        "Water Supply",
			Translations: TranslationMap{LangMK: {Title: "Водоснабдување"}},
		}},
	}
	items := []Item{
		{ID: 100, CategoryID: 1, Content: Entity{
			Title:        "Socket",
			Translations: TranslationMap{LangMK: {Title: "Муфа"}},
		}},
	}

	got := Organize(categories, nil, items, LangMK)

	if got[0].Title != "Водоснабдување" {
		t.Errorf("category title = %q, want %q", got[0].Title, "Водоснабдување")
	}
	if got[0].Certificates[0].Title != "Муфа" {
		t.Errorf("item title = %q, want %q", got[0].Certificates[0].Title, "Муфа")
	}

	// The same inputs in German fall back to the canonical fields.
	gotDE := Organize(categories, nil, items, LangDE)
	if gotDE[0].Certificates[0].Title != "Socket" {
		t.Errorf("de item title = %q, want %q", gotDE[0].Certificates[0].Title, "Socket")
	}
}

func TestOrganizeIsIdempotent(t *testing.T) {
	categories := []Category{
		{ID: 1, Slug: "water-supply", Content: Entity{Title: "Water Supply"}},
	}
	subcategories := []Subcategory{
		{ID: 10, CategoryID: 1, Slug: "pe-pipes", Content: Entity{Title: "PE Pipes"}},
	}
	items := []Item{
		{ID: 100, CategoryID: 1, SubcategoryID: int64Ptr(10), Content: Entity{Title: "Cert"}},
		{ID: 101, CategoryID: 1, Content: Entity{Title: "Loose cert"}},
	}

	first := Organize(categories, subcategories, items, LangEN)
	second := Organize(categories, subcategories, items, LangEN)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Organize is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestFilterItemsCaseInsensitive(t *testing.T) {
	items := []Item{
		{ID: 1, CategoryID: 1, Content: Entity{Title: "Konti Kan"}},
		{ID: 2, CategoryID: 1, Content: Entity{Title: "PP Manhole"}},
	}

	got := FilterItems(items, LangEN, "konti")

	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("matched item ID = %d, want 1", got[0].ID)
	}
}

func TestFilterItemsNoResults(t *testing.T) {
	items := []Item{
		{ID: 1, CategoryID: 1, Content: Entity{Title: "Konti Kan"}},
	}

	got := FilterItems(items, LangEN, "zzz")

	if got == nil {
		t.Fatal("no-results filter returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("got %d items, want 0", len(got))
	}
}

func TestFilterItemsMatchesResolvedTranslation(t *testing.T) {
	items := []Item{
		{ID: 1, CategoryID: 1, Content: Entity{
			Title:        "Socket",
			Translations: TranslationMap{LangMK: {Title: "Муфа"}},
		}},
	}

	if got := FilterItems(items, LangMK, "муфа"); len(got) != 1 {
		t.Errorf("search against resolved mk title matched %d items, want 1", len(got))
	}
	if got := FilterItems(items, LangEN, "муфа"); len(got) != 0 {
		t.Errorf("search against en resolution matched %d items, want 0", len(got))
	}
}
