package http

import (
	"errors"
	"io"
	"net/http"

	"billwise/internal/core"
	"billwise/internal/log"
)

// handleUpload runs one bill through the pipeline. The request blocks until
// extraction, categorization, aggregation and the store append have all
// finished; every failure is translated into a flash message and a redirect.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	username, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMaxBytes)
	if err := r.ParseMultipartForm(s.uploadMaxBytes); err != nil {
		setFlash(w, "danger", "No file selected!")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		setFlash(w, "danger", "No file selected!")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		setFlash(w, "danger", "Could not read the uploaded file.")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	logger := log.FromContext(r.Context())

	_, err = s.receipts.ProcessReceipt(r.Context(), username, data)
	var extractionErr *core.ExtractionError
	var categorizationErr *core.CategorizationError
	switch {
	case err == nil:
		setFlash(w, "success", "Bill uploaded and categorized successfully!")
	case errors.As(err, &extractionErr):
		logger.WarnContext(r.Context(), "Text extraction failed",
			log.FieldUsername, username, "filename", header.Filename, log.FieldError, err.Error())
		setFlash(w, "danger", "Could not read the uploaded bill. Please upload a valid image or PDF.")
	case errors.As(err, &categorizationErr):
		logger.ErrorContext(r.Context(), "Categorization failed",
			log.FieldUsername, username, log.FieldError, err.Error())
		setFlash(w, "danger", "Categorization service is unavailable. Please try again later.")
	case errors.Is(err, core.ErrUnknownAccount):
		// Session outlived the account; force a fresh login
		s.sessions.Logout(w)
		setFlash(w, "danger", "Please login again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	default:
		logger.ErrorContext(r.Context(), "Upload processing failed",
			log.FieldUsername, username, log.FieldError, err.Error())
		setFlash(w, "danger", "Upload failed. Please try again.")
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
