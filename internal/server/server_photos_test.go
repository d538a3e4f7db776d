package server

import (
	"fmt"
	"net/http"
	"testing"

	"lensfolio/pkg/domain"
)

func TestPhotoLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	client := newLoggedInClient(t, srv)

	// Create while authenticated.
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/photos", map[string]any{
		"title":    "Sunset",
		"imageUrl": "/uploads/a.jpg",
		"category": "landscape",
		"type":     "image",
		"featured": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create expected 201, got %d", resp.StatusCode)
	}
	var created domain.Photo
	decodeBody(t, resp, &created)
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if created.Title != "Sunset" || !created.Featured {
		t.Fatalf("unexpected created record: %+v", created)
	}

	// Public list includes it.
	listResp, err := http.Get(srv.URL + "/api/photos")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var listed []domain.Photo
	decodeBody(t, listResp, &listed)
	found := false
	for _, p := range listed {
		if p.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("created photo missing from list: %+v", listed)
	}

	// Public get returns an equivalent record.
	getResp, err := http.Get(fmt.Sprintf("%s/api/photos/%d", srv.URL, created.ID))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var fetched domain.Photo
	decodeBody(t, getResp, &fetched)
	if fetched != created {
		t.Fatalf("get mismatch: %+v vs %+v", fetched, created)
	}

	// Delete, then delete again: 200 then 404.
	delURL := fmt.Sprintf("%s/api/photos/%d", srv.URL, created.ID)
	resp = doJSON(t, client, http.MethodDelete, delURL, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first delete expected 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, client, http.MethodDelete, delURL, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete expected 404, got %d", resp.StatusCode)
	}
}

func TestCreatePhotoRejectsMissingFields(t *testing.T) {
	srv := newTestServer(t, nil)
	client := newLoggedInClient(t, srv)

	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/photos", map[string]any{
		"title": "No image",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetUnknownPhotoIs404(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/photos/999")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListPhotosEmptyIsJSONArray(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/photos")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var listed []domain.Photo
	decodeBody(t, resp, &listed)
	if listed == nil || len(listed) != 0 {
		t.Fatalf("expected empty array, got %v", listed)
	}
}

func TestSetHomePageFlag(t *testing.T) {
	srv := newTestServer(t, nil)
	client := newLoggedInClient(t, srv)

	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/photos", map[string]any{
		"title":    "Sunset",
		"imageUrl": "/uploads/a.jpg",
		"category": "landscape",
	})
	var created domain.Photo
	decodeBody(t, resp, &created)

	patchURL := fmt.Sprintf("%s/api/photos/%d/homepage", srv.URL, created.ID)
	resp = doJSON(t, client, http.MethodPatch, patchURL, map[string]any{"homePage": true})
	var updated domain.Photo
	decodeBody(t, resp, &updated)
	if !updated.HomePage {
		t.Fatalf("homePage should be true after patch: %+v", updated)
	}

	// Non-boolean value never reaches the store.
	resp = doJSON(t, client, http.MethodPatch, patchURL, map[string]any{"homePage": "yes"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-boolean expected 400, got %d", resp.StatusCode)
	}
	getResp, err := http.Get(fmt.Sprintf("%s/api/photos/%d", srv.URL, created.ID))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var after domain.Photo
	decodeBody(t, getResp, &after)
	if !after.HomePage {
		t.Fatalf("rejected patch must not change stored record: %+v", after)
	}

	// Unknown id is 404.
	resp = doJSON(t, client, http.MethodPatch, srv.URL+"/api/photos/999/homepage", map[string]any{"homePage": true})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id expected 404, got %d", resp.StatusCode)
	}
}

func TestPhotoByIDRejectsGarbageID(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/photos/abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
