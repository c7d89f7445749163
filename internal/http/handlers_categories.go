package http

import (
	"net/http"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.Categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, newCategoryView(c))
	}
	NewJSONResponse().Body(map[string]any{"categories": out}).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	c, err := s.svc.Categories.Create(r.Context(), sanitizeInput(req.Name))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/categories/"+c.ID).
		Body(newCategoryView(c)).
		Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	c, err := s.svc.Categories.Update(r.Context(), r.PathValue("id"), sanitizeInput(req.Name))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newCategoryView(c)).Write(w)
}

// handleDeleteCategory keeps the category's transactions, now uncategorized.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
