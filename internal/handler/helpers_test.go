package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func requestWithID(id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/categories/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int64
		wantErr bool
	}{
		{name: "valid", id: "42", want: 42},
		{name: "one", id: "1", want: 1},
		{name: "zero", id: "0", wantErr: true},
		{name: "negative", id: "-3", wantErr: true},
		{name: "not a number", id: "abc", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDParam(requestWithID(tt.id))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIDParam() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseIDParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 1},
		{query: "page=3", want: 3},
		{query: "page=0", want: 1},
		{query: "page=-1", want: 1},
		{query: "page=junk", want: 1},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		if got := ParsePageParam(r); got != tt.want {
			t.Errorf("ParsePageParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestParsePerPageParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 20},
		{query: "per_page=50", want: 50},
		{query: "per_page=500", want: 100},
		{query: "per_page=0", want: 20},
		{query: "per_page=junk", want: 20},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		if got := ParsePerPageParam(r, DefaultPerPage, MaxPerPage); got != tt.want {
			t.Errorf("ParsePerPageParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
