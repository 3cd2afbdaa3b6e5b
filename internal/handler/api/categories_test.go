package api

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func TestCreateAdminCategory(t *testing.T) {
	_, h := testSetup(t)

	body := `{
		"form": {
			"en": {"title": "Pressure Pipes", "description": "PE100 pressure pipe systems"},
			"mk": {"title": "Цевки под притисок"}
		}
	}`
	req := newJSONRequest(t, http.MethodPost, "/api/admin/categories", body, nil)
	w := executeHandler(t, h.CreateAdminCategory, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	created := unmarshalData[AdminCategoryResponse](t, w)
	if created.Title != "Pressure Pipes" {
		t.Errorf("title = %q", created.Title)
	}
	if created.Slug != "pressure-pipes" {
		t.Errorf("slug = %q, want generated pressure-pipes", created.Slug)
	}
	if !created.IsActive {
		t.Error("new category should default to active")
	}
	if created.FormState["mk"].Title != "Цевки под притисок" {
		t.Errorf("mk form entry = %+v", created.FormState["mk"])
	}
	if created.FormState["de"].Title != "" {
		t.Errorf("de form entry should be empty, got %+v", created.FormState["de"])
	}
	if created.UpdatedAt.IsZero() {
		t.Error("expected a concurrency token in the response")
	}
}

func TestCreateAdminCategoryRequiresDefaultTitle(t *testing.T) {
	_, h := testSetup(t)

	body := `{"form": {"mk": {"title": "Само македонски"}}}`
	req := newJSONRequest(t, http.MethodPost, "/api/admin/categories", body, nil)
	w := executeHandler(t, h.CreateAdminCategory, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestCreateAdminCategoryRejectsUnknownLanguage(t *testing.T) {
	_, h := testSetup(t)

	body := `{"form": {"en": {"title": "Pipes"}, "fr": {"title": "Tuyaux"}}}`
	req := newJSONRequest(t, http.MethodPost, "/api/admin/categories", body, nil)
	w := executeHandler(t, h.CreateAdminCategory, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	detail := unmarshalError(t, w)
	if _, ok := detail.Details["translations.fr"]; !ok {
		t.Errorf("missing translations.fr error in %v", detail.Details)
	}
}

func TestCreateAdminCategoryDuplicateSlug(t *testing.T) {
	db, h := testSetup(t)
	createTestCategory(t, db, "pressure-pipes")

	body := `{"slug": "pressure-pipes", "form": {"en": {"title": "Another"}}}`
	req := newJSONRequest(t, http.MethodPost, "/api/admin/categories", body, nil)
	w := executeHandler(t, h.CreateAdminCategory, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	detail := unmarshalError(t, w)
	if _, ok := detail.Details["slug"]; !ok {
		t.Errorf("missing slug error in %v", detail.Details)
	}
}

func TestUpdateAdminCategory(t *testing.T) {
	db, h := testSetup(t)
	category := createTestCategory(t, db, "pressure-pipes")

	body := fmt.Sprintf(`{
		"form": {
			"en": {"title": "Pressure Pipe Systems"},
			"de": {"title": "Druckrohre"}
		},
		"updated_at": %q
	}`, category.UpdatedAt.Format(time.RFC3339))
	req := newJSONRequest(t, http.MethodPut, "/api/admin/categories/1", body,
		map[string]string{"id": strconv.FormatInt(category.ID, 10)})
	w := executeHandler(t, h.UpdateAdminCategory, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	updated := unmarshalData[AdminCategoryResponse](t, w)
	if updated.Title != "Pressure Pipe Systems" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.FormState["de"].Title != "Druckrohre" {
		t.Errorf("de translation = %+v", updated.FormState["de"])
	}
	if updated.UpdatedAt.Before(category.UpdatedAt) {
		t.Errorf("token moved backwards: %v -> %v", category.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUpdateAdminCategoryStaleToken(t *testing.T) {
	db, h := testSetup(t)
	category := createTestCategory(t, db, "pressure-pipes")

	stale := category.UpdatedAt.Add(-time.Hour)
	body := fmt.Sprintf(`{"form": {"en": {"title": "Renamed"}}, "updated_at": %q}`,
		stale.Format(time.RFC3339))
	req := newJSONRequest(t, http.MethodPut, "/api/admin/categories/1", body,
		map[string]string{"id": strconv.FormatInt(category.ID, 10)})
	w := executeHandler(t, h.UpdateAdminCategory, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusConflict, w.Body.String())
	}
	detail := unmarshalError(t, w)
	if detail.Code != "conflict" {
		t.Errorf("code = %q, want conflict", detail.Code)
	}
}

func TestUpdateAdminCategoryMissingToken(t *testing.T) {
	db, h := testSetup(t)
	category := createTestCategory(t, db, "pressure-pipes")

	body := `{"form": {"en": {"title": "Renamed"}}}`
	req := newJSONRequest(t, http.MethodPut, "/api/admin/categories/1", body,
		map[string]string{"id": strconv.FormatInt(category.ID, 10)})
	w := executeHandler(t, h.UpdateAdminCategory, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestUpdateAdminCategoryPreservesUntouchedTranslations(t *testing.T) {
	db, h := testSetup(t)

	// Create with two languages via the handler.
	body := `{"form": {"en": {"title": "Pressure Pipes"}, "mk": {"title": "Цевки"}}}`
	req := newJSONRequest(t, http.MethodPost, "/api/admin/categories", body, nil)
	created := unmarshalData[AdminCategoryResponse](t, executeHandler(t, h.CreateAdminCategory, req))

	// Update only the German entry.
	body = fmt.Sprintf(`{"form": {"de": {"title": "Druckrohre"}}, "updated_at": %q}`,
		created.UpdatedAt.Format(time.RFC3339))
	req = newJSONRequest(t, http.MethodPut, "/api/admin/categories/1", body,
		map[string]string{"id": strconv.FormatInt(created.ID, 10)})
	w := executeHandler(t, h.UpdateAdminCategory, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}

	updated := unmarshalData[AdminCategoryResponse](t, w)
	if updated.FormState["mk"].Title != "Цевки" {
		t.Errorf("mk translation lost: %+v", updated.FormState["mk"])
	}
	if updated.FormState["de"].Title != "Druckrohre" {
		t.Errorf("de translation missing: %+v", updated.FormState["de"])
	}
	_ = db
}

func TestDeleteAdminCategory(t *testing.T) {
	db, h := testSetup(t)
	category := createTestCategory(t, db, "pressure-pipes")

	req := newDeleteRequest(t, "/api/admin/categories/1",
		map[string]string{"id": strconv.FormatInt(category.ID, 10)})
	w := executeHandler(t, h.DeleteAdminCategory, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}

	w = executeHandler(t, h.GetAdminCategory, newGetRequest(t, "/api/admin/categories/1",
		map[string]string{"id": strconv.FormatInt(category.ID, 10)}))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status after delete = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetAdminCategoryInvalidID(t *testing.T) {
	_, h := testSetup(t)

	req := newGetRequest(t, "/api/admin/categories/abc", map[string]string{"id": "abc"})
	w := executeHandler(t, h.GetAdminCategory, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestListAdminCategoriesSorted(t *testing.T) {
	db, h := testSetup(t)
	createTestCategory(t, db, "zeta")
	createTestCategory(t, db, "alpha")

	req := newGetRequest(t, "/api/admin/categories?sort=title&dir=asc", nil)
	w := executeHandler(t, h.ListAdminCategories, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	categories, _ := unmarshalList[AdminCategoryResponse](t, w)
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}
	if categories[0].Slug != "alpha" {
		t.Errorf("first slug = %q, want alpha", categories[0].Slug)
	}
}

func TestCreateAdminSubcategory(t *testing.T) {
	db, h := testSetup(t)
	category := createTestCategory(t, db, "pressure-pipes")

	body := fmt.Sprintf(`{"category_id": %d, "form": {"en": {"title": "Drinking Water"}}}`, category.ID)
	req := newJSONRequest(t, http.MethodPost, "/api/admin/subcategories", body, nil)
	w := executeHandler(t, h.CreateAdminSubcategory, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	created := unmarshalData[AdminSubcategoryResponse](t, w)
	if created.CategoryID != category.ID {
		t.Errorf("category_id = %d, want %d", created.CategoryID, category.ID)
	}
}

func TestCreateAdminSubcategoryUnknownCategory(t *testing.T) {
	_, h := testSetup(t)

	body := `{"category_id": 999, "form": {"en": {"title": "Orphan"}}}`
	req := newJSONRequest(t, http.MethodPost, "/api/admin/subcategories", body, nil)
	w := executeHandler(t, h.CreateAdminSubcategory, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	detail := unmarshalError(t, w)
	if _, ok := detail.Details["category_id"]; !ok {
		t.Errorf("missing category_id error in %v", detail.Details)
	}
}
