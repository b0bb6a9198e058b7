package http

import (
	"net/http"
	"time"

	"billwise/internal/core"
	"billwise/internal/log"
)

type (
	categoryAmount struct {
		Name   string
		Amount int64
	}

	snapshotView struct {
		When  string
		Rows  []categoryAmount
		Total int64
	}

	summaryView struct {
		Rows          []categoryAmount
		Total         int64
		SnapshotCount int64
	}
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	username, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	recs, err := s.store.ListSnapshots(r.Context(), username)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Snapshot list failed",
			log.FieldUsername, username, log.FieldError, err.Error())
		http.Error(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}

	data := struct {
		Username  string
		Flash     *Flash
		Snapshots []snapshotView
		Summary   *summaryView
	}{
		Username: username,
		Flash:    popFlash(w, r),
	}

	for _, rec := range recs {
		data.Snapshots = append(data.Snapshots, snapshotView{
			When:  rec.CreatedAt.Format(time.DateTime),
			Rows:  categoryRows(rec.Totals),
			Total: rec.Totals.Total(),
		})
	}

	// Lifetime totals come from the summary worker; absent until it has
	// processed at least one event for this account.
	if totals, count, found, err := s.store.GetSummary(r.Context(), username); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Summary read failed",
			log.FieldUsername, username, log.FieldError, err.Error())
	} else if found {
		data.Summary = &summaryView{
			Rows:          categoryRows(totals),
			Total:         totals.Total(),
			SnapshotCount: count,
		}
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard template execution failed",
			log.FieldUsername, username, log.FieldError, err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// categoryRows lists a snapshot's totals in the fixed vocabulary order.
func categoryRows(snap core.Snapshot) []categoryAmount {
	rows := make([]categoryAmount, 0, len(core.Categories))
	for _, c := range core.Categories {
		rows = append(rows, categoryAmount{Name: string(c), Amount: snap[c]})
	}
	return rows
}
