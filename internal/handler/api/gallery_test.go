package api

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func TestCreateAdminGalleryItem(t *testing.T) {
	_, h := testSetup(t)

	body := `{
		"form": {"en": {"title": "Extrusion Hall"}, "mk": {"title": "Хала за екструзија"}},
		"image_url": "/media/extrusion-hall.jpg",
		"sort_order": 3
	}`
	req := newJSONRequest(t, http.MethodPost, "/api/admin/gallery", body, nil)
	w := executeHandler(t, h.CreateAdminGalleryItem, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	created := unmarshalData[AdminGalleryResponse](t, w)
	if created.Title != "Extrusion Hall" {
		t.Errorf("title = %q", created.Title)
	}
	if created.ImageURL != "/media/extrusion-hall.jpg" {
		t.Errorf("image_url = %q", created.ImageURL)
	}
	if created.SortOrder != 3 {
		t.Errorf("sort_order = %d, want 3", created.SortOrder)
	}
	if !created.IsActive {
		t.Error("new item should default to active")
	}
	if got := created.FormState["mk"].Title; got != "Хала за екструзија" {
		t.Errorf("mk title = %q", got)
	}
}

func TestCreateAdminGalleryItemRequiresImage(t *testing.T) {
	_, h := testSetup(t)

	body := `{"form": {"en": {"title": "No Image"}}}`
	req := newJSONRequest(t, http.MethodPost, "/api/admin/gallery", body, nil)
	w := executeHandler(t, h.CreateAdminGalleryItem, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	detail := unmarshalError(t, w)
	if _, ok := detail.Details["image_url"]; !ok {
		t.Errorf("missing image_url error in %v", detail.Details)
	}
}

func TestUpdateAdminGalleryItem(t *testing.T) {
	_, h := testSetup(t)

	createBody := `{"form": {"en": {"title": "Warehouse"}}, "image_url": "/media/warehouse.jpg"}`
	createReq := newJSONRequest(t, http.MethodPost, "/api/admin/gallery", createBody, nil)
	created := unmarshalData[AdminGalleryResponse](t, executeHandler(t, h.CreateAdminGalleryItem, createReq))

	updateBody := fmt.Sprintf(`{
		"form": {"de": {"title": "Lagerhalle"}},
		"sort_order": 7,
		"updated_at": %q
	}`, created.UpdatedAt.Format(time.RFC3339))
	req := newJSONRequest(t, http.MethodPut, "/api/admin/gallery/"+strconv.FormatInt(created.ID, 10),
		updateBody, map[string]string{"id": strconv.FormatInt(created.ID, 10)})
	w := executeHandler(t, h.UpdateAdminGalleryItem, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	updated := unmarshalData[AdminGalleryResponse](t, w)
	if updated.SortOrder != 7 {
		t.Errorf("sort_order = %d, want 7", updated.SortOrder)
	}
	if got := updated.FormState["de"].Title; got != "Lagerhalle" {
		t.Errorf("de title = %q", got)
	}
	// The untouched canonical title survives.
	if updated.Title != "Warehouse" {
		t.Errorf("title = %q, want Warehouse", updated.Title)
	}
	if updated.ImageURL != "/media/warehouse.jpg" {
		t.Errorf("image_url = %q, untouched field must keep its value", updated.ImageURL)
	}
}

func TestUpdateAdminGalleryItemStaleToken(t *testing.T) {
	_, h := testSetup(t)

	createBody := `{"form": {"en": {"title": "Lab"}}, "image_url": "/media/lab.jpg"}`
	createReq := newJSONRequest(t, http.MethodPost, "/api/admin/gallery", createBody, nil)
	created := unmarshalData[AdminGalleryResponse](t, executeHandler(t, h.CreateAdminGalleryItem, createReq))

	stale := created.UpdatedAt.Add(-time.Hour)
	body := fmt.Sprintf(`{"sort_order": 1, "updated_at": %q}`, stale.Format(time.RFC3339))
	req := newJSONRequest(t, http.MethodPut, "/api/admin/gallery/"+strconv.FormatInt(created.ID, 10),
		body, map[string]string{"id": strconv.FormatInt(created.ID, 10)})
	w := executeHandler(t, h.UpdateAdminGalleryItem, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestDeleteAdminGalleryItem(t *testing.T) {
	_, h := testSetup(t)

	createBody := `{"form": {"en": {"title": "Old Photo"}}, "image_url": "/media/old.jpg"}`
	createReq := newJSONRequest(t, http.MethodPost, "/api/admin/gallery", createBody, nil)
	created := unmarshalData[AdminGalleryResponse](t, executeHandler(t, h.CreateAdminGalleryItem, createReq))

	id := strconv.FormatInt(created.ID, 10)
	w := executeHandler(t, h.DeleteAdminGalleryItem,
		newDeleteRequest(t, "/api/admin/gallery/"+id, map[string]string{"id": id}))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}

	w = executeHandler(t, h.GetAdminGalleryItem,
		newGetRequest(t, "/api/admin/gallery/"+id, map[string]string{"id": id}))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status after delete = %d, want %d", w.Code, http.StatusNotFound)
	}
}
