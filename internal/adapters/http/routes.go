package web

import "net/http"

// registerRoutes maps URL paths to handlers. Authorization is enforced
// inside each handler from the session in the request context.
func registerRoutes(mux *http.ServeMux) {
	// Public
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/apply", handleApply)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/change-password", handleChangePassword)

	// Coach editor
	mux.HandleFunc("/admin", handleAdminEditor)
	mux.HandleFunc("/admin/plan/update", handlePlanUpdate)
	mux.HandleFunc("/admin/plan/op", handlePlanOp)
	mux.HandleFunc("/admin/students", handleAdminStudents)
	mux.HandleFunc("/admin/students/approve", handleApproveStudent)
	mux.HandleFunc("/admin/students/duplicate", handleDuplicateStudent)
	mux.HandleFunc("/admin/chat/send", handleAdminChatSend)
	mux.HandleFunc("/admin/outbox", handleAdminOutbox)
	mux.HandleFunc("/admin/outbox/", handleAdminOutbox)

	// Student portal
	mux.HandleFunc("/portal", handlePortal)
	mux.HandleFunc("/portal/day-status", handlePortalDayStatus)
	mux.HandleFunc("/portal/item-status", handlePortalItemStatus)
	mux.HandleFunc("/portal/week-summary", handlePortalWeekSummary)
	mux.HandleFunc("/portal/chat/send", handlePortalChatSend)
}
