package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"aura/internal/adapters/http/middleware"
	"aura/internal/application/orchestrators"
	"aura/internal/application/projections"
	accountDomain "aura/internal/domain/account"
	chatDomain "aura/internal/domain/chat"
)

// portalUsername resolves the student username for the current session.
// The coach may browse any portal via ?user=; students only their own.
func portalUsername(r *http.Request) (string, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return "", false
	}
	if sess.Role == accountDomain.RoleAdmin {
		if u := r.URL.Query().Get("user"); u != "" {
			return u, true
		}
		if u := r.FormValue("user"); u != "" {
			return u, true
		}
		return "", false
	}
	return sess.Username, sess.Username != ""
}

// handlePortal serves the student's plan with progress and chat.
func handlePortal(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	username, ok := portalUsername(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	deps := projections.GetStudentPortalDeps{
		StudentStore: stores.StudentStore,
		PlanStore:    stores.PlanStore,
		ChatStore:    stores.ChatStore,
	}
	result, err := projections.QueryGetStudentPortal(r.Context(), projections.GetStudentPortalQuery{Username: username}, deps)
	if errors.Is(err, projections.ErrStudentNotApproved) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	week, _ := strconv.Atoi(r.URL.Query().Get("week"))
	if week < 1 || week > len(result.Plan.Weeks) {
		week = 1
	}

	renderTemplate(w, r, "portal.html", map[string]any{
		"CSRFToken":  csrf.Token(r),
		"Student":    result.Student,
		"Plan":       result.Plan,
		"Progress":   result.Progress,
		"Messages":   result.Messages,
		"ActiveWeek": week,
	})
}

// handlePortalDayStatus handles POST /portal/day-status
func handlePortalDayStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	username, ok := portalUsername(r)
	if !ok {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	week, _ := strconv.Atoi(r.FormValue("week"))
	day, _ := strconv.Atoi(r.FormValue("day"))
	input := orchestrators.UpdateDayStatusInput{
		Username:   username,
		Week:       week,
		Day:        day,
		Status:     r.FormValue("status"),
		StatusNote: r.FormValue("status_note"),
		Feedback:   r.FormValue("feedback"),
	}

	if err := orchestrators.ExecuteUpdateDayStatus(r.Context(), input, checkOffDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	redirectToPortal(w, r, username, week)
}

// handlePortalItemStatus handles POST /portal/item-status
func handlePortalItemStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	username, ok := portalUsername(r)
	if !ok {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	week, _ := strconv.Atoi(r.FormValue("week"))
	day, _ := strconv.Atoi(r.FormValue("day"))
	item, _ := strconv.Atoi(r.FormValue("item"))
	input := orchestrators.UpdateItemStatusInput{
		Username:    username,
		Week:        week,
		Day:         day,
		Item:        item,
		Status:      r.FormValue("status"),
		StatusNote:  r.FormValue("status_note"),
		StudentNote: r.FormValue("student_note"),
	}

	if err := orchestrators.ExecuteUpdateItemStatus(r.Context(), input, checkOffDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	redirectToPortal(w, r, username, week)
}

// handlePortalWeekSummary handles POST /portal/week-summary
func handlePortalWeekSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	username, ok := portalUsername(r)
	if !ok {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	week, _ := strconv.Atoi(r.FormValue("week"))
	input := orchestrators.UpdateWeekSummaryInput{
		Username: username,
		Week:     week,
		Summary:  r.FormValue("summary"),
	}

	if err := orchestrators.ExecuteUpdateWeekSummary(r.Context(), input, checkOffDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	redirectToPortal(w, r, username, week)
}

// handlePortalChatSend posts a student message to their own thread.
func handlePortalChatSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	username, ok := portalUsername(r)
	if !ok {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	input := orchestrators.SendChatMessageInput{
		Username:   username,
		Author:     chatDomain.AuthorStudent,
		Text:       r.FormValue("text"),
		AdminEmail: adminEmailAddress,
	}
	deps := orchestrators.SendChatMessageDeps{
		ChatStore:    stores.ChatStore,
		StudentStore: stores.StudentStore,
		OutboxStore:  stores.OutboxStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}

	if _, err := orchestrators.ExecuteSendChatMessage(r.Context(), input, deps); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	redirectToPortal(w, r, username, 0)
}

func checkOffDeps() orchestrators.CheckOffDeps {
	return orchestrators.CheckOffDeps{PlanStore: stores.PlanStore}
}

func redirectToPortal(w http.ResponseWriter, r *http.Request, username string, week int) {
	target := "/portal"
	sep := "?"
	if middleware.IsAdmin(r.Context()) {
		target += "?user=" + username
		sep = "&"
	}
	if week > 1 {
		target += sep + "week=" + strconv.Itoa(week)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
