package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"aura/internal/adapters/email"
	"aura/internal/adapters/http/middleware"
	accountStore "aura/internal/adapters/storage/account"
	chatStore "aura/internal/adapters/storage/chat"
	outboxStore "aura/internal/adapters/storage/outbox"
	planStore "aura/internal/adapters/storage/plan"
	studentStore "aura/internal/adapters/storage/student"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	StudentStore studentStore.Store
	PlanStore    planStore.Store
	ChatStore    chatStore.Store
	OutboxStore  outboxStore.Store
}

// loadCSRFKey reads the CSRF secret from AURA_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("AURA_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("AURA_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("AURA_ENV") == "production" {
		log.Fatal("AURA_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set AURA_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var adminEmailAddress string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, adminEmail string) {
	emailSender = sender
	emailFromAddress = from
	adminEmailAddress = adminEmail
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("AURA_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: SecurityHeaders -> CSRF -> Auth -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
