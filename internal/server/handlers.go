package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/auth"
	"github.com/okrause/tikzcanvas/pkg/canvas"
	"github.com/okrause/tikzcanvas/pkg/observability"
	"github.com/okrause/tikzcanvas/pkg/render"
	"github.com/okrause/tikzcanvas/pkg/store"
	"github.com/okrause/tikzcanvas/pkg/tikz"
)

type ctxKey int

const userIDKey ctxKey = 0

// requireAuth verifies the bearer token and stores the user ID in the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, apperr.New(apperr.CodeUnauthorized, "missing bearer token"))
			return
		}
		userID, err := s.tokens.Verify(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, apperr.New(apperr.CodeInvalidInput, "username and password are required"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	u := &store.User{Username: req.Username, Email: req.Email, PasswordHash: hash}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.Info("user registered", "username", u.Username)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: *u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := s.store.UserByUsername(r.Context(), req.Username)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		// Same answer for unknown user and wrong password.
		writeError(w, apperr.New(apperr.CodeUnauthorized, "invalid credentials"))
		return
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: *u})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.UserByID(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type diagramRequest struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Title == "" {
		req.Title = "untitled"
	}

	d := &store.Diagram{OwnerID: userID(r), Title: req.Title, Source: req.Source}
	if err := s.store.CreateDiagram(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	s.log.Info("diagram created", "id", d.ID, "title", d.Title)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListDiagrams(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []store.Diagram{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Diagram(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleUpdateDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	owner, id := userID(r), chi.URLParam(r, "id")
	d, err := s.store.Diagram(r.Context(), owner, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Title != "" {
		d.Title = req.Title
	}
	d.Source = req.Source
	if err := s.store.UpdateDiagram(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	// The stored text changed out from under any open session.
	s.dropSession(owner, id)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	owner, id := userID(r), chi.URLParam(r, "id")
	if err := s.store.DeleteDiagram(r.Context(), owner, id); err != nil {
		writeError(w, err)
		return
	}
	s.dropSession(owner, id)
	w.WriteHeader(http.StatusNoContent)
}

type textRequest struct {
	Source string `json:"source"`
}

// handleSetText replaces a diagram's source text and returns the canvas
// projection of the re-parsed graph.
func (s *Server) handleSetText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	owner, id := userID(r), chi.URLParam(r, "id")
	sess, err := s.session(r.Context(), owner, id)
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	view := sess.SetText(req.Source)
	observability.Editor().OnParse(r.Context(), len(view.Nodes), len(view.Edges), time.Since(start))

	_, err = sess.Save(r.Context(), s.store, owner)
	observability.Editor().OnSave(r.Context(), id, len(req.Source), err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type dragRequest struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type dragResponse struct {
	Source string `json:"source"`
}

// handleDrag moves a node to a pixel position and returns the surgically
// rewritten source text.
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	owner, id := userID(r), chi.URLParam(r, "id")
	sess, err := s.session(r.Context(), owner, id)
	if err != nil {
		writeError(w, err)
		return
	}

	source, err := sess.DragNode(req.Name, canvas.Pixel{X: req.X, Y: req.Y})
	observability.Editor().OnDrag(r.Context(), req.Name, err)
	if err != nil {
		writeError(w, err)
		return
	}
	_, err = sess.Save(r.Context(), s.store, owner)
	observability.Editor().OnSave(r.Context(), id, len(source), err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dragResponse{Source: source})
}

// handleRender returns the diagram as an image. Formats: svg (default) and
// png via graphviz, canvas for the editor-style PNG.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Diagram(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	g := tikz.Parse(d.Source)

	var (
		data []byte
		mime string
	)
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	observability.Render().OnRenderStart(r.Context(), format, g.Len())
	start := time.Now()
	switch format {
	case "svg":
		data, err = render.SVG(r.Context(), render.ToDOT(g))
		mime = "image/svg+xml"
	case "png":
		data, err = render.PNG(r.Context(), render.ToDOT(g))
		mime = "image/png"
	case "canvas":
		view := s.mapper.View(g)
		data, err = render.Canvas(view, int(2*s.mapper.Origin.X), int(2*s.mapper.Origin.Y))
		mime = "image/png"
	default:
		writeError(w, apperr.New(apperr.CodeInvalidInput, "unknown format %q", format))
		return
	}
	observability.Render().OnRenderComplete(r.Context(), format, time.Since(start), err)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(data) //nolint:errcheck
}
