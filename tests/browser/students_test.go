package browser_test

import (
	"context"
	"testing"

	"github.com/playwright-community/playwright-go"

	studentStore "aura/internal/adapters/storage/student"
	studentDomain "aura/internal/domain/student"
)

// TestStudents_ApplyThenApprove walks the full intake: a visitor applies, the
// coach approves with an initial password, and the new student can log in to
// the portal.
func TestStudents_ApplyThenApprove(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)

	// Visitor submits the application form
	page := app.newPage(t)
	if _, err := page.Goto(app.BaseURL + "/apply"); err != nil {
		t.Fatalf("failed to open apply page: %v", err)
	}
	if err := page.Locator("input[name=username]").Fill("marco"); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill("marco@test.com"); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=skill]").Fill("pino"); err != nil {
		t.Fatalf("failed to fill skill: %v", err)
	}
	if err := page.Locator("textarea[name=goal]").Fill("Aguantar el pino 30 segundos"); err != nil {
		t.Fatalf("failed to fill goal: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit application: %v", err)
	}
	if err := page.Locator("p.ok").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("confirmation message not shown: %v", err)
	}

	// Coach approves from the students page
	admin := app.newPage(t)
	app.loginAdmin(t, admin)
	if _, err := admin.Goto(app.BaseURL + "/admin/students"); err != nil {
		t.Fatalf("failed to open students page: %v", err)
	}
	if err := admin.Locator("text=marco").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("pending applicant not listed: %v", err)
	}
	approve := admin.Locator("form[action='/admin/students/approve']").First()
	if err := approve.Locator("input[name=password]").Fill(studentPassword); err != nil {
		t.Fatalf("failed to fill initial password: %v", err)
	}
	if err := approve.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click approve: %v", err)
	}
	if err := admin.WaitForURL(app.BaseURL+"/admin/students", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("approval did not redirect back: %v", err)
	}

	st, err := app.Stores.StudentStore.GetByUsername(context.Background(), "marco")
	if err != nil {
		t.Fatalf("failed to load approved student: %v", err)
	}
	if st.Status != studentDomain.StatusApproved {
		t.Errorf("student status = %q, want %q", st.Status, studentDomain.StatusApproved)
	}
	if st.AccountID == "" {
		t.Error("approved student has no account")
	}

	// The fresh student can reach their portal
	student := app.newPage(t)
	app.loginAs(t, student, "marco@test.com", studentPassword, "/portal")
}

// TestStudents_Duplicate: duplicating an approved student creates a pending
// applicant with a copy of the source plan.
func TestStudents_Duplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	app.seedApprovedStudent(t, "lucia", "lucia@test.com")

	page := app.newPage(t)
	app.loginAdmin(t, page)
	if _, err := page.Goto(app.BaseURL + "/admin/students"); err != nil {
		t.Fatalf("failed to open students page: %v", err)
	}

	dup := page.Locator("form[action='/admin/students/duplicate']").First()
	if err := dup.Locator("input[name=new_username]").Fill("lucia2"); err != nil {
		t.Fatalf("failed to fill new username: %v", err)
	}
	if err := dup.Locator("input[name=new_email]").Fill("lucia2@test.com"); err != nil {
		t.Fatalf("failed to fill new email: %v", err)
	}
	if err := dup.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click duplicate: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/admin/students", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("duplicate did not redirect back: %v", err)
	}

	ctx := context.Background()
	copied, err := app.Stores.StudentStore.GetByUsername(ctx, "lucia2")
	if err != nil {
		t.Fatalf("failed to load duplicated student: %v", err)
	}
	if copied.Status != studentDomain.StatusPending {
		t.Errorf("duplicated student status = %q, want %q", copied.Status, studentDomain.StatusPending)
	}
	if _, err := app.Stores.PlanStore.GetByUsername(ctx, "lucia2"); err != nil {
		t.Errorf("duplicated student has no plan copy: %v", err)
	}

	pending, err := app.Stores.StudentStore.List(ctx, studentStore.ListFilter{Status: studentDomain.StatusPending})
	if err != nil {
		t.Fatalf("failed to list pending students: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("got %d pending students, want 1", len(pending))
	}
}
