package browser_test

import (
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestSmoke_AdminLoginLandsOnEditor: the coach logs in and lands on the
// editor page with the section tabs and the client list visible.
func TestSmoke_AdminLoginLandsOnEditor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	app.seedApprovedStudent(t, "lucia", "lucia@test.com")

	page := app.newPage(t)
	app.loginAdmin(t, page)

	for _, tab := range []string{"Resumen", "Portal", "Contenido", "Alumnos"} {
		if err := page.Locator("nav.tabs >> text=" + tab).WaitFor(playwright.LocatorWaitForOptions{
			Timeout: playwright.Float(5000),
		}); err != nil {
			t.Errorf("tab %q not visible: %v", tab, err)
		}
	}

	// Seeded student appears in the client list
	if err := page.Locator(".client-list >> text=lucia").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Errorf("student not listed in client list: %v", err)
	}
}

// TestSmoke_StudentLoginLandsOnPortal: an approved student logs in with the
// password handed out at approval and lands on their own portal.
func TestSmoke_StudentLoginLandsOnPortal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	app.seedApprovedStudent(t, "lucia", "lucia@test.com")

	page := app.newPage(t)
	app.loginAs(t, page, "lucia@test.com", studentPassword, "/portal")

	// Starter plan is visible without any coach action
	if err := page.Locator("text=Chat con tu entrenador").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Errorf("portal chat section not visible: %v", err)
	}
}

// TestSmoke_BadCredentialsStayOnLogin: a wrong password re-renders the login
// form with an error instead of creating a session.
func TestSmoke_BadCredentialsStayOnLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(adminEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill("definitely-wrong"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}

	if err := page.Locator("p.error").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Errorf("error message not shown after bad login: %v", err)
	}

	// Protected page still bounces to login
	if _, err := page.Goto(app.BaseURL + "/admin"); err != nil {
		t.Fatalf("failed to navigate to admin: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/login", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Errorf("unauthenticated /admin visit did not redirect to login: %v", err)
	}
}
