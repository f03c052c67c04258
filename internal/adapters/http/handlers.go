package web

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"aura/internal/adapters/http/middleware"
	"aura/internal/application/listutil"
	"aura/internal/application/orchestrators"
	"aura/internal/application/planedit"
	"aura/internal/application/projections"
	accountDomain "aura/internal/domain/account"
	chatDomain "aura/internal/domain/chat"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// mdPolicy strips anything goldmark lets through that a week summary or
// chat message has no business containing.
var mdPolicy = bluemonday.UGCPolicy()

// renderMarkdown converts coach-written markdown to sanitized HTML.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(mdPolicy.SanitizeBytes(buf.Bytes()))
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

const templatesDir = "internal/adapters/http/templates"

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	if ok {
		role = sess.Role
		email = sess.Email
	}

	funcMap := template.FuncMap{
		"currentRole":    func() string { return role },
		"currentEmail":   func() string { return email },
		"isLoggedIn":     func() bool { return role != "" },
		"isAdmin":        func() bool { return role == accountDomain.RoleAdmin },
		"csrfToken":      func() string { return csrf.Token(r) },
		"renderMarkdown": renderMarkdown,
		"add":            func(a, b int) int { return a + b },
		"sub":            func(a, b int) int { return a - b },
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i + 1
			}
			return s
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleIndex routes the visitor to their home: coach to the admin panel,
// students to their portal, everyone else to the login form.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	switch {
	case ok && sess.Role == accountDomain.RoleAdmin:
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	case ok && sess.Role == accountDomain.RoleStudent:
		http.Redirect(w, r, "/portal", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
			Now:          timeNow,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}

		// Student sessions carry the portal username
		username := ""
		if result.Role == accountDomain.RoleStudent {
			if st, err := stores.StudentStore.GetByAccountID(r.Context(), result.AccountID); err == nil {
				username = st.Username
			}
		}

		token, err := sessions.Create(result.AccountID, result.Email, result.Role, username)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(middleware.SessionCookieName())
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleChangePassword handles GET (form) and POST (update) for /change-password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "change_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}

		if r.FormValue("new_password") != r.FormValue("confirm_password") {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     "Las contraseñas no coinciden",
			})
			return
		}

		input := orchestrators.ChangePasswordInput{
			AccountID:       session.AccountID,
			CurrentPassword: r.FormValue("current_password"),
			NewPassword:     r.FormValue("new_password"),
		}
		deps := orchestrators.ChangePasswordDeps{
			AccountStore: stores.AccountStore,
		}

		if err := orchestrators.ExecuteChangePassword(r.Context(), input, deps); err != nil {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleApply handles the public coaching application form.
func handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "apply.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.RegisterStudentInput{
			Username:   r.FormValue("username"),
			Email:      r.FormValue("email"),
			Skill:      r.FormValue("skill"),
			Level:      r.FormValue("level"),
			Goal:       r.FormValue("goal"),
			Concerns:   r.FormValue("concerns"),
			AdminEmail: adminEmailAddress,
		}
		deps := orchestrators.RegisterStudentDeps{
			StudentStore: stores.StudentStore,
			OutboxStore:  stores.OutboxStore,
			GenerateID:   generateID,
			Now:          timeNow,
		}

		if _, err := orchestrators.ExecuteRegisterStudent(r.Context(), input, deps); err != nil {
			renderTemplate(w, r, "apply.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
				"Form":      r.PostForm,
			})
			return
		}

		renderTemplate(w, r, "apply.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Submitted": true,
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAdminEditor serves the plan editor page with its embedded working
// set: all plans (item marks blanked), per-week progress and chat threads.
func handleAdminEditor(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	deps := projections.GetEditorSnapshotDeps{
		PlanStore: stores.PlanStore,
		ChatStore: stores.ChatStore,
	}
	result, err := projections.QueryGetEditorSnapshot(r.Context(), deps)
	if err != nil {
		internalError(w, err)
		return
	}

	state := planedit.ParseViewState(r.URL.Query(), "")
	listDeps := projections.GetStudentListDeps{
		StudentStore: stores.StudentStore,
		PlanStore:    stores.PlanStore,
	}
	students, err := projections.QueryGetStudentList(r.Context(), listDeps)
	if err != nil {
		internalError(w, err)
		return
	}

	data := map[string]any{
		"CSRFToken":    csrf.Token(r),
		"State":        state,
		"Students":     students,
		"PlansJSON":    template.JS(result.PlansJSON),
		"ProgressJSON": template.JS(result.ProgressJSON),
		"ChatsJSON":    template.JS(result.ChatsJSON),
	}
	if state.User != "" {
		// Render the coach-side panels from the same serialized blobs the
		// page script receives, so both views agree.
		snap := planedit.LoadSnapshot(result.PlansJSON, result.ProgressJSON, result.ChatsJSON)
		progress := snap.RenderProgress(state.User, state.Week)
		data["Progress"] = progress
		data["DonutStyle"] = template.CSS(progress.DonutStyle)
		data["ChatThread"] = template.HTML(snap.RenderChatHTML(state.User, accountDomain.RoleAdmin))
	}
	renderTemplate(w, r, "admin.html", data)
}

// handlePlanUpdate handles POST /admin/plan/update: the full editor form
// for one student becomes that student's new plan document.
func handlePlanUpdate(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	username := r.FormValue("plan_user")
	week, _ := strconv.Atoi(r.FormValue("plan_week"))

	input := orchestrators.SavePlanInput{
		Username: username,
		Form:     planedit.FormViewFromValues(r.PostForm),
		Notify:   r.FormValue("notify") == "on",
	}
	deps := orchestrators.SavePlanDeps{
		PlanStore:    stores.PlanStore,
		StudentStore: stores.StudentStore,
		OutboxStore:  stores.OutboxStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}

	if _, err := orchestrators.ExecuteSavePlan(r.Context(), input, deps); err != nil {
		if err == orchestrators.ErrUnknownStudent {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	http.Redirect(w, r, planedit.EditorLink(username, week), http.StatusSeeOther)
}

// handlePlanOp handles POST /admin/plan/op: one structural editor
// operation (move/clear/duplicate a day or week, or a cross-slot copy)
// applied to the stored plans. Declined operations redirect back without
// changes; the toolbar offers no invalid targets, so there is no error
// page for them.
func handlePlanOp(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	formInt := func(name string) int {
		n, _ := strconv.Atoi(r.FormValue(name))
		return n
	}
	input := orchestrators.PlanOpInput{
		Op:       r.FormValue("op"),
		Username: r.FormValue("plan_user"),
		Week:     formInt("plan_week"),
		Day:      formInt("day"),
		Dir:      opDirections[r.FormValue("dir")],
		SrcUser:  r.FormValue("src_user"),
		SrcWeek:  formInt("src_week"),
		SrcDay:   formInt("src_day"),
		DstUser:  r.FormValue("dst_user"),
		DstWeek:  formInt("dst_week"),
		DstDay:   formInt("dst_day"),
	}
	deps := orchestrators.PlanOpDeps{
		PlanStore:    stores.PlanStore,
		StudentStore: stores.StudentStore,
	}

	result, err := orchestrators.ExecutePlanOp(r.Context(), input, deps)
	if err != nil {
		if err == orchestrators.ErrUnknownStudent {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	http.Redirect(w, r, planedit.EditorLink(result.Username, result.Week), http.StatusSeeOther)
}

// opDirections maps the posted direction names onto move offsets.
var opDirections = map[string]int{
	"left":  -1,
	"up":    -1,
	"right": 1,
	"down":  1,
}

// handleAdminStudents lists pending applications and approved clients.
func handleAdminStudents(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	deps := projections.GetStudentListDeps{
		StudentStore: stores.StudentStore,
		PlanStore:    stores.PlanStore,
	}
	result, err := projections.QueryGetStudentList(r.Context(), deps)
	if err != nil {
		internalError(w, err)
		return
	}

	// Pending applications are always shown in full; the client list pages.
	page := listutil.ParsePageParams(r.URL.Query())
	info := listutil.NewPageInfo(page.Page, page.PerPage, len(result.Approved))
	approved := result.Approved[info.Offset():info.EndRow()]

	renderTemplate(w, r, "admin_students.html", map[string]any{
		"CSRFToken": csrf.Token(r),
		"Pending":   result.Pending,
		"Approved":  approved,
		"PageInfo":  info,
	})
}

// handleApproveStudent handles POST /admin/students/approve
func handleApproveStudent(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.ApproveStudentInput{
		StudentID: r.FormValue("student_id"),
		Password:  r.FormValue("password"),
	}
	deps := orchestrators.ApproveStudentDeps{
		StudentStore: stores.StudentStore,
		AccountStore: stores.AccountStore,
		PlanStore:    stores.PlanStore,
		OutboxStore:  stores.OutboxStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}

	if _, err := orchestrators.ExecuteApproveStudent(r.Context(), input, deps); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/admin/students", http.StatusSeeOther)
}

// handleDuplicateStudent handles POST /admin/students/duplicate
func handleDuplicateStudent(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.DuplicateStudentInput{
		SourceUsername: r.FormValue("source_username"),
		NewUsername:    r.FormValue("new_username"),
		NewEmail:       r.FormValue("new_email"),
	}
	deps := orchestrators.DuplicateStudentDeps{
		StudentStore: stores.StudentStore,
		PlanStore:    stores.PlanStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}

	if _, err := orchestrators.ExecuteDuplicateStudent(r.Context(), input, deps); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/admin/students", http.StatusSeeOther)
}

// handleAdminChatSend posts a coach message to a student's thread.
func handleAdminChatSend(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	username := r.FormValue("plan_user")
	input := orchestrators.SendChatMessageInput{
		Username:   username,
		Author:     chatDomain.AuthorCoach,
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

	week, _ := strconv.Atoi(r.FormValue("plan_week"))
	http.Redirect(w, r, planedit.EditorLink(username, week), http.StatusSeeOther)
}
