package routehandlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pageturn/biblio/models"
	"github.com/pageturn/biblio/webutil"
)

type fakeAuthorStore struct {
	authors map[string]models.Author
}

func newFakeAuthorStore() *fakeAuthorStore {
	return &fakeAuthorStore{authors: make(map[string]models.Author)}
}

func (s *fakeAuthorStore) CreateAuthor(ctx context.Context, author *models.Author) error {
	s.authors[author.ID] = *author
	return nil
}

func (s *fakeAuthorStore) GetAuthors(ctx context.Context) ([]models.Author, error) {
	var out []models.Author
	for _, a := range s.authors {
		out = append(out, a)
	}
	return out, nil
}

func (s *fakeAuthorStore) GetAuthorByID(ctx context.Context, authorID string) (*models.Author, error) {
	a, ok := s.authors[authorID]
	if !ok {
		return nil, fmt.Errorf("author not found: %w", sql.ErrNoRows)
	}
	return &a, nil
}

func (s *fakeAuthorStore) UpdateAuthor(ctx context.Context, author *models.Author) error {
	if _, ok := s.authors[author.ID]; !ok {
		return sql.ErrNoRows
	}
	s.authors[author.ID] = *author
	return nil
}

func (s *fakeAuthorStore) DeleteAuthor(ctx context.Context, authorID string) error {
	if _, ok := s.authors[authorID]; !ok {
		return sql.ErrNoRows
	}
	delete(s.authors, authorID)
	return nil
}

func newAuthorTestRouter(store AuthorStore) http.Handler {
	h := NewAuthorHandler(store)
	r := chi.NewRouter()
	r.Use(webutil.Identity)
	r.Get("/authors", webutil.MakeHandler(h.HandleGetAuthors))
	r.Post("/authors", webutil.MakeHandler(h.HandleCreateAuthor))
	r.Get("/authors/{id}", webutil.MakeHandler(h.HandleGetAuthor))
	r.Put("/authors/{id}", webutil.MakeHandler(h.HandleUpdateAuthor))
	r.Delete("/authors/{id}", webutil.MakeHandler(h.HandleDeleteAuthor))
	return r
}

func TestCreateAuthor(t *testing.T) {
	store := newFakeAuthorStore()
	router := newAuthorTestRouter(store)

	body := `{"name": "Lesya Ukrainka", "biography": "Poet and playwright."}`
	req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(body))
	req.Header.Set(webutil.HeaderUserRole, string(models.UserRoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created models.Author
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if created.ID == "" {
		t.Error("response author has no ID")
	}
	if created.Name != "Lesya Ukrainka" {
		t.Errorf("Name = %q, want %q", created.Name, "Lesya Ukrainka")
	}
	if _, ok := store.authors[created.ID]; !ok {
		t.Error("author was not persisted")
	}
}

func TestCreateAuthorRequiresAdmin(t *testing.T) {
	router := newAuthorTestRouter(newFakeAuthorStore())

	req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(`{"name": "X"}`))
	req.Header.Set(webutil.HeaderUserRole, string(models.UserRoleReader))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestCreateAuthorEmptyName(t *testing.T) {
	router := newAuthorTestRouter(newFakeAuthorStore())

	req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(`{"name": ""}`))
	req.Header.Set(webutil.HeaderUserRole, string(models.UserRoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetAuthorNotFound(t *testing.T) {
	router := newAuthorTestRouter(newFakeAuthorStore())

	req := httptest.NewRequest(http.MethodGet, "/authors/1f4442f0-0f44-4f6a-8b44-7c7d90e5a8b1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetAuthorsEmptyList(t *testing.T) {
	router := newAuthorTestRouter(newFakeAuthorStore())

	req := httptest.NewRequest(http.MethodGet, "/authors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}

func TestDeleteAuthor(t *testing.T) {
	store := newFakeAuthorStore()
	id := "9a1dd0be-45a2-4f8e-bb6e-0a9f0a0f4c11"
	store.authors[id] = models.Author{ID: id, Name: "Ivan Franko"}
	router := newAuthorTestRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/authors/"+id, nil)
	req.Header.Set(webutil.HeaderUserRole, string(models.UserRoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if _, ok := store.authors[id]; ok {
		t.Error("author still present after delete")
	}
}
