package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/finopskit/master-budget/internal/budget"
	"github.com/finopskit/master-budget/internal/config"
	"github.com/finopskit/master-budget/pkg/constants"
	"github.com/finopskit/master-budget/pkg/loader"
	"github.com/finopskit/master-budget/pkg/output"
	"github.com/finopskit/master-budget/pkg/table"
	"github.com/finopskit/master-budget/pkg/templates"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	store         *sessionStore
}

// NewHandler constructs the HTTP handler that serves the web UI and budget API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, sessionTTL time.Duration, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		store:         newSessionStore(sessionTTL),
	}

	mux := http.NewServeMux()

	// Session workspace endpoints
	mux.HandleFunc("/api/sessions", h.handleSessionCreate)
	mux.HandleFunc("/api/upload", h.handleUpload)
	mux.HandleFunc("/api/policy", h.handlePolicy)
	mux.HandleFunc("/api/compute", h.handleCompute)

	// One-shot cash budget from a single statement table
	mux.HandleFunc("/api/cashbudget", h.handleCashBudget)

	// Starter table downloads
	mux.HandleFunc("/api/templates", h.handleTemplates)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type sessionResponse struct {
	ID        string        `json:"id"`
	CreatedAt string        `json:"createdAt"`
	Policy    budget.Policy `json:"policy"`
}

type templateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
}

type uploadResponse struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

type policyResponse struct {
	Policy   budget.Policy `json:"policy"`
	Warnings []string      `json:"warnings,omitempty"`
}

type computeResponse struct {
	Results  *budget.Results `json:"results"`
	CSV      string          `json:"csv"`
	Duration string          `json:"duration"`
}

func (h *handler) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	sess := h.store.Create()

	h.logger.Info("session created",
		zap.String("op", "server.handleSessionCreate"),
		zap.String("session", sess.ID),
	)

	h.writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt.UTC().Format(time.RFC3339),
		Policy:    sess.Policy,
	})
}

func (h *handler) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		catalog := templates.List()
		infos := make([]templateInfo, 0, len(catalog))
		for _, tpl := range catalog {
			infos = append(infos, templateInfo{
				Name:        tpl.Name,
				Description: tpl.Description,
				Filename:    tpl.Filename,
			})
		}
		h.writeJSON(w, http.StatusOK, infos)
		return
	}

	tpl, err := templates.Describe(name)
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error(), "server.handleTemplates")
		return
	}
	data, err := templates.CSV(name)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), "server.handleTemplates")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tpl.Filename))
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write template response",
			zap.String("op", "server.handleTemplates"),
			zap.Error(err),
		)
	}
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handleUpload")
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), "server.handleUpload")
		return
	}

	sessionID := strings.TrimSpace(r.FormValue("session"))
	if sessionID == "" {
		h.respondError(w, http.StatusBadRequest, "missing session field", "server.handleUpload")
		return
	}
	name := strings.ToLower(strings.TrimSpace(r.FormValue("table")))
	if name == "" {
		h.respondError(w, http.StatusBadRequest, "missing table field", "server.handleUpload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing table file", "server.handleUpload")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	raw, err := loader.Read(file, header.Filename)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read table: %v", err), "server.handleUpload")
		return
	}

	rows, apply, err := decodeTable(name, raw)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleUpload")
		return
	}

	if !h.store.Update(sessionID, apply) {
		h.respondError(w, http.StatusNotFound, "unknown session", "server.handleUpload")
		return
	}

	h.logger.Info("table uploaded",
		zap.String("op", "server.handleUpload"),
		zap.String("session", sessionID),
		zap.String("table", name),
		zap.Int("rows", rows),
	)

	h.writeJSON(w, http.StatusOK, uploadResponse{Table: name, Rows: rows})
}

// decodeTable parses an uploaded table and returns an apply function that
// installs the decoded rows into a session. Parsing happens before the store
// lock is taken.
func decodeTable(name string, raw *table.Raw) (int, func(*session), error) {
	switch name {
	case "cvp":
		rows, err := budget.DecodeCVP(raw)
		if err != nil {
			return 0, nil, err
		}
		return len(rows), func(s *session) { s.Inputs.CVP = rows }, nil
	case "forecast":
		rows, err := budget.DecodeForecast(raw)
		if err != nil {
			return 0, nil, err
		}
		return len(rows), func(s *session) { s.Inputs.Forecast = rows }, nil
	case "inventory":
		rows, err := budget.DecodeInventory(raw)
		if err != nil {
			return 0, nil, err
		}
		return len(rows), func(s *session) { s.Inputs.Inventory = rows }, nil
	case "bom":
		rows, err := budget.DecodeBOM(raw)
		if err != nil {
			return 0, nil, err
		}
		return len(rows), func(s *session) { s.Inputs.BOM = rows }, nil
	case "rates":
		rows, err := budget.DecodeRates(raw)
		if err != nil {
			return 0, nil, err
		}
		return len(rows), func(s *session) { s.Inputs.Rates = rows }, nil
	case "expenses":
		rows, err := budget.DecodeExpenses(raw)
		if err != nil {
			return 0, nil, err
		}
		return len(rows), func(s *session) { s.Inputs.Expenses = rows }, nil
	case "statement":
		rows, err := budget.DecodeStatement(raw)
		if err != nil {
			return 0, nil, err
		}
		return len(rows), func(s *session) { s.Statement = rows }, nil
	default:
		return 0, nil, fmt.Errorf("unknown table %q, expected one of cvp, forecast, inventory, bom, rates, expenses, statement", name)
	}
}

func (h *handler) handlePolicy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Session string          `json:"session"`
		Policy  json.RawMessage `json:"policy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handlePolicy")
		return
	}

	sess, ok := h.store.Snapshot(strings.TrimSpace(req.Session))
	if !ok {
		h.respondError(w, http.StatusNotFound, "unknown session", "server.handlePolicy")
		return
	}

	// Keys absent from the payload keep their current values.
	policy := sess.Policy
	if len(req.Policy) > 0 {
		if err := json.Unmarshal(req.Policy, &policy); err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid policy: %v", err), "server.handlePolicy")
			return
		}
	}

	check := config.Configuration{Policy: policy}
	warnings, err := check.Validate()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handlePolicy")
		return
	}

	h.store.Update(sess.ID, func(s *session) { s.Policy = policy })

	h.logger.Info("policy updated",
		zap.String("op", "server.handlePolicy"),
		zap.String("session", sess.ID),
		zap.Int("warnings", len(warnings)),
	)

	h.writeJSON(w, http.StatusOK, policyResponse{Policy: policy, Warnings: warnings})
}

func (h *handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	var req struct {
		Session string `json:"session"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleCompute")
		return
	}

	sess, ok := h.store.Snapshot(strings.TrimSpace(req.Session))
	if !ok {
		h.respondError(w, http.StatusNotFound, "unknown session", "server.handleCompute")
		return
	}

	var results *budget.Results
	var err error
	if len(sess.Inputs.Forecast) == 0 && len(sess.Statement) > 0 {
		results, err = budget.RunStatement(h.logger, sess.Policy, sess.Statement)
		if err == nil && len(sess.Inputs.CVP) > 0 {
			var cvpRows []budget.CVPRow
			cvpRows, err = budget.NewCalculator(h.logger).ComputeCVP(sess.Inputs.CVP)
			if err == nil {
				results.CVP = cvpRows
			}
		}
	} else {
		results, err = budget.Run(h.logger, sess.Policy, sess.Inputs)
	}
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to compute budget: %v", err), "server.handleCompute")
		return
	}

	h.respondResults(w, results, start, "server.handleCompute", sess.ID)
}

func (h *handler) handleCashBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handleCashBudget")
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), "server.handleCashBudget")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing statement file", "server.handleCashBudget")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleCashBudget"),
				zap.Error(closeErr),
			)
		}
	}()

	raw, err := loader.Read(file, header.Filename)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read statement: %v", err), "server.handleCashBudget")
		return
	}
	statement, err := budget.DecodeStatement(raw)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleCashBudget")
		return
	}

	policy := budget.DefaultPolicy()
	if policyStr := strings.TrimSpace(r.FormValue("policy")); policyStr != "" {
		if err := json.Unmarshal([]byte(policyStr), &policy); err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid policy: %v", err), "server.handleCashBudget")
			return
		}
	}
	check := config.Configuration{Policy: policy}
	warnings, err := check.Validate()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleCashBudget")
		return
	}

	results, err := budget.RunStatement(h.logger, policy, statement)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to compute cash budget: %v", err), "server.handleCashBudget")
		return
	}
	if len(warnings) > 0 {
		results.Warnings = append(append([]string(nil), warnings...), results.Warnings...)
	}

	h.respondResults(w, results, start, "server.handleCashBudget", "")
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondResults(w http.ResponseWriter, results *budget.Results, start time.Time, op string, sessionID string) {
	csvStr, err := output.CsvString(results)
	if err != nil {
		h.logger.Warn("failed to render CSV",
			zap.String("op", op),
			zap.Error(err),
		)
		csvStr = ""
	}

	elapsed := time.Since(start)

	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("warnings", len(results.Warnings)),
		zap.Duration("duration", elapsed),
	}
	if sessionID != "" {
		fields = append(fields, zap.String("session", sessionID))
	}
	h.logger.Info("budget computed", fields...)

	h.writeJSON(w, http.StatusOK, computeResponse{
		Results:  results,
		CSV:      csvStr,
		Duration: elapsed.String(),
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("budget request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
