package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/robfig/cron"
	_ "modernc.org/sqlite"

	emailPkg "aura/internal/adapters/email"
	web "aura/internal/adapters/http"
	"aura/internal/adapters/storage"
	accountStore "aura/internal/adapters/storage/account"
	chatStore "aura/internal/adapters/storage/chat"
	outboxStore "aura/internal/adapters/storage/outbox"
	planStore "aura/internal/adapters/storage/plan"
	studentStore "aura/internal/adapters/storage/student"
	"aura/internal/application/orchestrators"
	accountDomain "aura/internal/domain/account"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	dbPath := envOrDefault("AURA_DB_PATH", "aura.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Wrap DB with slow-query logging
	timedDB := storage.NewTimedDB(db)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore: acctStore,
		StudentStore: studentStore.NewSQLiteStore(timedDB),
		PlanStore:    planStore.NewSQLiteStore(timedDB),
		ChatStore:    chatStore.NewSQLiteStore(timedDB),
		OutboxStore:  outboxStore.NewSQLiteStore(timedDB),
	}

	// Seed the coach account if no accounts exist
	adminEmail := envOrDefault("AURA_ADMIN_EMAIL", "coach@auracalistenia.com")
	adminPassword := os.Getenv("AURA_ADMIN_PASSWORD")
	if err := seedAdmin(acctStore, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("AURA_RESEND_API_KEY")
	emailFrom := envOrDefault("AURA_RESEND_FROM", "Aura Calistenia <noreply@auracalistenia.com>")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("AURA_ENV") == "production" {
			log.Println("WARNING: AURA_RESEND_API_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set AURA_RESEND_API_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, emailFrom, adminEmail)

	// Drain the email outbox every minute
	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, sender)
	c := cron.New()
	c.AddFunc("@every 1m", func() {
		if err := processor.ProcessPending(context.Background()); err != nil {
			log.Printf("outbox processing failed: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	mux := web.NewMux("static", stores)

	addr := envOrDefault("AURA_ADDR", ":8080")
	log.Printf("Aura %s starting on %s (env=%s)", version, addr, envOrDefault("AURA_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedAdmin creates the coach account on first run. Without a password in
// the environment an empty database stays without accounts, which keeps a
// fresh deployment from shipping a known default credential.
func seedAdmin(store accountStore.Store, email, password string) error {
	count, err := store.Count(context.Background())
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		log.Println("WARNING: no accounts exist and AURA_ADMIN_PASSWORD is not set — login is impossible until it is")
		return nil
	}

	acct := accountDomain.Account{
		ID:    "admin",
		Email: email,
		Role:  accountDomain.RoleAdmin,
	}
	if err := acct.SetPassword(password); err != nil {
		return err
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := store.Save(context.Background(), acct); err != nil {
		return err
	}
	log.Printf("Seeded coach account %s", email)
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
