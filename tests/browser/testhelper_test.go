package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	emailPkg "aura/internal/adapters/email"
	web "aura/internal/adapters/http"
	"aura/internal/adapters/http/middleware"
	"aura/internal/adapters/storage"
	accountStore "aura/internal/adapters/storage/account"
	chatStore "aura/internal/adapters/storage/chat"
	outboxStore "aura/internal/adapters/storage/outbox"
	planStore "aura/internal/adapters/storage/plan"
	studentStore "aura/internal/adapters/storage/student"
	"aura/internal/application/orchestrators"
	accountDomain "aura/internal/domain/account"
	studentDomain "aura/internal/domain/student"
)

const (
	adminEmail      = "coach@test.com"
	adminPassword   = "TestPass123!"
	studentPassword = "PortalPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
	AdminID string
	tmpDir  string
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// Create temp directory for the database
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test DB: %v", err)
	}

	stores := &web.Stores{
		AccountStore: accountStore.NewSQLiteStore(db),
		StudentStore: studentStore.NewSQLiteStore(db),
		PlanStore:    planStore.NewSQLiteStore(db),
		ChatStore:    chatStore.NewSQLiteStore(db),
		OutboxStore:  outboxStore.NewSQLiteStore(db),
	}

	// Seed the coach account
	ctx := context.Background()
	admin := accountDomain.Account{
		ID:        uuid.NewString(),
		Email:     adminEmail,
		Role:      accountDomain.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := admin.SetPassword(adminPassword); err != nil {
		t.Fatalf("failed to set admin password: %v", err)
	}
	if err := stores.AccountStore.Save(ctx, admin); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	// Browser tests fire many requests in quick succession
	web.RateLimitPerSecond = 1000
	web.SetEmailSender(emailPkg.NewNoopSender(), "Aura <noreply@test.local>", adminEmail)

	// Start HTTP server
	mux := web.NewMux("static", stores)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		AdminID: admin.ID,
		tmpDir:  tmpDir,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// seedApprovedStudent registers and approves a student through the real
// orchestrators, so the account, starter plan and welcome email all exist.
func (a *testApp) seedApprovedStudent(t *testing.T, username, email string) studentDomain.Student {
	t.Helper()
	ctx := context.Background()

	st := studentDomain.Student{
		ID:        uuid.NewString(),
		Username:  studentDomain.NormalizeUsername(username),
		Email:     email,
		Skill:     "dominada",
		Level:     "principiante",
		Goal:      "primera dominada estricta",
		Status:    studentDomain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Stores.StudentStore.Save(ctx, st); err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}

	approved, err := orchestrators.ExecuteApproveStudent(ctx, orchestrators.ApproveStudentInput{
		StudentID: st.ID,
		Password:  studentPassword,
	}, orchestrators.ApproveStudentDeps{
		StudentStore: a.Stores.StudentStore,
		AccountStore: a.Stores.AccountStore,
		PlanStore:    a.Stores.PlanStore,
		OutboxStore:  a.Stores.OutboxStore,
		GenerateID:   uuid.NewString,
		Now:          time.Now,
	})
	if err != nil {
		t.Fatalf("failed to approve student: %v", err)
	}
	return approved
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// loginAs navigates to the login page and logs in with the given credentials,
// waiting for the post-login redirect to land on wantPath.
func (a *testApp) loginAs(t *testing.T, page playwright.Page, email, password, wantPath string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+wantPath, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to %s: %v", wantPath, err)
	}
}

// loginAdmin logs in as the seeded coach account.
func (a *testApp) loginAdmin(t *testing.T, page playwright.Page) {
	t.Helper()
	a.loginAs(t, page, adminEmail, adminPassword, "/admin")
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
