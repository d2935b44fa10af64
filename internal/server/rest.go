package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/amityadav/brandlens/internal/config"
	"github.com/amityadav/brandlens/internal/core"
	"github.com/amityadav/brandlens/internal/scan"
	"github.com/amityadav/brandlens/internal/store"
	"github.com/amityadav/brandlens/internal/token"
)

// Services groups all service dependencies for REST handlers
type Services struct {
	Store        store.Store
	ScanCore     *core.ScanCore
	TokenManager *token.Manager
}

// scanRunRequest is the JSON body for POST /api/scan/run
type scanRunRequest struct {
	BrandName string   `json:"brand_name"`
	Topic     string   `json:"topic"`
	KeywordID string   `json:"keyword_id,omitempty"`
	Providers []string `json:"providers,omitempty"`
}

// CreateRESTHandler creates REST API endpoints
func CreateRESTHandler(services Services, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		switch r.URL.Path {
		case "/api/scan/run":
			handleScanRun(w, r, services.ScanCore, cfg.ScanAPIKey)
		case "/api/scan/all":
			handleScanAll(w, r, services.ScanCore, cfg.ScanAPIKey)
		case "/api/scan/rollup":
			handleGetRollup(w, r, services.Store, services.TokenManager)
		case "/api/healthz":
			handleHealthz(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

func handleScanRun(w http.ResponseWriter, r *http.Request, scanCore *core.ScanCore, scanAPIKey string) {
	if r.Method != "POST" {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	if scanAPIKey == "" {
		http.Error(w, `{"error": "SCAN_API_KEY not configured on server"}`, http.StatusServiceUnavailable)
		return
	}
	if r.Header.Get("X-API-Key") != scanAPIKey {
		http.Error(w, `{"error": "unauthorized - invalid or missing X-API-Key header"}`, http.StatusUnauthorized)
		return
	}

	var body scanRunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if body.BrandName == "" {
		http.Error(w, `{"error": "brand_name is required"}`, http.StatusBadRequest)
		return
	}
	if body.Topic == "" {
		http.Error(w, `{"error": "topic is required"}`, http.StatusBadRequest)
		return
	}

	req := scan.Request{
		KeywordID:   body.KeywordID,
		BrandName:   body.BrandName,
		Topic:       body.Topic,
		ProviderSet: body.Providers,
	}

	log.Printf("[REST] Running scan for brand %q, topic %q", req.BrandName, req.Topic)
	batch, err := scanCore.ScanAndPersist(r.Context(), req)
	if err != nil {
		// scan completed, persistence did not; surface both
		log.Printf("[REST] Scan persistence failed: %v", err)
		http.Error(w, `{"error": "scan completed but results could not be saved"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(scanResponse(batch)); err != nil {
		log.Printf("[REST] Failed to encode scan response: %v", err)
	}
}

func handleScanAll(w http.ResponseWriter, r *http.Request, scanCore *core.ScanCore, scanAPIKey string) {
	if r.Method != "POST" {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	if scanAPIKey == "" || r.Header.Get("X-API-Key") != scanAPIKey {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	log.Println("[REST] Manually triggering scan of all tracked keywords...")
	go func() {
		if err := scanCore.ScanAllKeywords(context.Background()); err != nil {
			log.Printf("[REST] Keyword scan run failed: %v", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte(`{"status": "accepted", "message": "Keyword scan started in background"}`))
}

func handleGetRollup(w http.ResponseWriter, r *http.Request, st store.Store, tm *token.Manager) {
	if r.Method != "GET" {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, `{"error": "unauthorized - missing Authorization header"}`, http.StatusUnauthorized)
		return
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	if _, err := tm.Verify(tokenStr); err != nil {
		log.Printf("[REST] handleGetRollup - token validation failed: %v", err)
		http.Error(w, `{"error": "unauthorized - invalid token"}`, http.StatusUnauthorized)
		return
	}

	keywordID := r.URL.Query().Get("keyword_id")
	if keywordID == "" {
		http.Error(w, `{"error": "keyword_id query parameter is required"}`, http.StatusBadRequest)
		return
	}

	rollup, err := st.GetKeywordRollup(r.Context(), keywordID)
	if err != nil {
		log.Printf("[REST] handleGetRollup - failed: %v", err)
		http.Error(w, `{"error": "rollup not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rollupResponse(rollup)); err != nil {
		log.Printf("[REST] Failed to encode rollup response: %v", err)
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
