package http

import (
	"errors"
	"net/http"

	"billwise/internal/core"
	"billwise/internal/log"
)

// handleIndex is the entry point: authenticated users go straight to the
// dashboard, everyone else gets the login/registration page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if _, err := s.sessions.Current(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Flash *Flash
	}{
		Flash: popFlash(w, r),
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed", log.FieldError, err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		setFlash(w, "danger", "Invalid request format.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	username := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")

	err := s.store.CreateAccount(r.Context(), username, password)
	switch {
	case err == nil:
		setFlash(w, "success", "Registration successful! Please login.")
	case errors.Is(err, core.ErrDuplicateAccount):
		setFlash(w, "danger", "Username already exists!")
	case errors.Is(err, core.ErrEmptyUsername) || errors.Is(err, core.ErrEmptyPassword):
		setFlash(w, "danger", "Username and password are required.")
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Registration failed",
			log.FieldUsername, username, log.FieldError, err.Error())
		setFlash(w, "danger", "Registration failed. Please try again.")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		setFlash(w, "danger", "Invalid request format.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	username := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")

	err := s.store.VerifyCredentials(r.Context(), username, password)
	switch {
	case err == nil:
		// fall through to session issue below
	case errors.Is(err, core.ErrInvalidCredentials):
		setFlash(w, "danger", "Invalid credentials!")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Credential check failed",
			log.FieldUsername, username, log.FieldError, err.Error())
		setFlash(w, "danger", "Login failed. Please try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := s.sessions.Login(w, username); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Session issue failed",
			log.FieldUsername, username, log.FieldError, err.Error())
		setFlash(w, "danger", "Login failed. Please try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "User logged in", log.FieldUsername, username)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
