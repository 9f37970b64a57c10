// Package http implements the REST API for the EmoClass backend.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/emoclass/emoclass-backend/internal/application/command"
	"github.com/emoclass/emoclass-backend/internal/application/query"
	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
	"github.com/emoclass/emoclass-backend/internal/domain/student"
	"github.com/emoclass/emoclass-backend/pkg/logger"
	"github.com/emoclass/emoclass-backend/pkg/timeutil"
)

// Request bodies larger than this are rejected outright.
const maxBodyBytes = 1 << 20

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "Endpoint tidak ditemukan")
		return
	}

	info := map[string]interface{}{
		"name":    "EmoClass API",
		"version": "v1",
		"endpoints": map[string]string{
			"health":    "/health",
			"checkins":  "/api/v1/checkins",
			"dashboard": "/api/v1/classes/{id}/dashboard",
			"trend":     "/api/v1/classes/{id}/trend",
			"login":     "/api/v1/auth/login",
		},
	}

	writeJSON(w, http.StatusOK, "EmoClass API", info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		report := s.deps.HealthChecker.Check(r.Context())
		if !report.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, "unhealthy", report)
			return
		}
		writeJSON(w, http.StatusOK, "healthy", report)
		return
	}

	writeJSON(w, http.StatusOK, "healthy", map[string]interface{}{
		"status": "healthy",
		"uptime": s.Uptime().String(),
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		report := s.deps.HealthChecker.Check(r.Context())
		if !report.Ready {
			writeJSON(w, http.StatusServiceUnavailable, "not_ready", map[string]string{
				"reason": report.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, "ready", nil)
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "alive", nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECK-IN HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SubmitCheckinRequest is the request body for POST /api/v1/checkins.
type SubmitCheckinRequest struct {
	StudentID string `json:"student_id"`
	Emotion   string `json:"emotion"`
	Note      string `json:"note,omitempty"`
}

// CheckinDTO is the stored check-in as returned to the submitter.
type CheckinDTO struct {
	ID           string `json:"id"`
	StudentID    string `json:"student_id"`
	Emotion      string `json:"emotion"`
	EmotionLabel string `json:"emotion_label"`
	Emoji        string `json:"emoji"`
	Note         string `json:"note,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func newCheckinDTO(c *checkin.Checkin) CheckinDTO {
	return CheckinDTO{
		ID:           c.ID,
		StudentID:    c.StudentID,
		Emotion:      string(c.Emotion),
		EmotionLabel: c.Emotion.Label(),
		Emoji:        c.Emotion.Emoji(),
		Note:         c.Note,
		CreatedAt:    timeutil.FormatJakarta(c.CreatedAt, timeutil.FormatDateTimeSeconds),
	}
}

// handleSubmitCheckin handles POST /api/v1/checkins.
//
// Validation and uniqueness rejections come back as 400 with a user-facing
// message; storage failures come back as a generic 500 with the cause logged.
func (s *Server) handleSubmitCheckin(w http.ResponseWriter, r *http.Request) {
	if s.deps.SubmitCheckinHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "Endpoint belum dikonfigurasi")
		return
	}

	var req SubmitCheckinRequest
	if err := decodeBody(r, &req); err != nil {
		s.rejectCheckin(w, http.StatusBadRequest, "invalid_body", "Format permintaan tidak valid")
		return
	}

	cmd := command.SubmitCheckinCommand{
		StudentID: req.StudentID,
		Emotion:   req.Emotion,
		Note:      req.Note,
	}

	result, err := s.deps.SubmitCheckinHandler.Handle(r.Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, checkin.ErrInvalidStudentID):
			s.rejectCheckin(w, http.StatusBadRequest, "invalid_student", "ID siswa wajib diisi")
		case errors.Is(err, checkin.ErrInvalidEmotion):
			s.rejectCheckin(w, http.StatusBadRequest, "invalid_emotion", "Pilihan emosi tidak dikenali")
		case errors.Is(err, checkin.ErrNoteTooLong):
			s.rejectCheckin(w, http.StatusBadRequest, "note_too_long", "Catatan maksimal 100 karakter")
		case errors.Is(err, checkin.ErrAlreadyCheckedInToday):
			s.rejectCheckin(w, http.StatusBadRequest, "duplicate", "Kamu sudah check-in hari ini")
		default:
			s.logger.Error("failed to store checkin",
				logger.Err(err),
				logger.StudentID(req.StudentID),
				logger.String("request_id", getRequestID(r.Context())),
			)
			writeJSONError(w, http.StatusInternalServerError, "Gagal menyimpan check-in, coba lagi")
		}
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.CheckinsSubmitted.WithLabelValues(string(result.Checkin.Emotion)).Inc()
	}

	writeJSON(w, http.StatusOK, "Check-in berhasil dicatat", newCheckinDTO(result.Checkin))
}

// rejectCheckin writes a 4xx rejection and counts it.
func (s *Server) rejectCheckin(w http.ResponseWriter, status int, reason, message string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.CheckinsRejected.WithLabelValues(reason).Inc()
	}
	writeJSONError(w, status, message)
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD & TREND HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetClassDashboard handles GET /api/v1/classes/{id}/dashboard.
// An optional ?date=YYYY-MM-DD selects a past day; the default is today.
func (s *Server) handleGetClassDashboard(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	if classID == "" {
		writeJSONError(w, http.StatusBadRequest, "ID kelas wajib diisi")
		return
	}

	if s.deps.GetClassDashboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "Endpoint belum dikonfigurasi")
		return
	}

	q := query.GetClassDashboardQuery{ClassID: classID}

	if raw := getQueryParam(r, "date", ""); raw != "" {
		date, err := timeutil.ParseDateJakarta(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
			return
		}
		q.Date = date
	}

	result, err := s.deps.GetClassDashboardHandler.Handle(r.Context(), q)
	if err != nil {
		if errors.Is(err, student.ErrClassNotFound) {
			writeJSONError(w, http.StatusNotFound, "Kelas tidak ditemukan")
			return
		}
		s.logger.Error("failed to build class dashboard",
			logger.Err(err),
			logger.ClassID(classID),
		)
		writeJSONError(w, http.StatusInternalServerError, "Gagal memuat dashboard")
		return
	}

	writeJSON(w, http.StatusOK, "OK", result)
}

// handleGetWeeklyTrend handles GET /api/v1/classes/{id}/trend.
// An optional ?days=N widens the trailing window.
func (s *Server) handleGetWeeklyTrend(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	if classID == "" {
		writeJSONError(w, http.StatusBadRequest, "ID kelas wajib diisi")
		return
	}

	if s.deps.GetWeeklyTrendHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "Endpoint belum dikonfigurasi")
		return
	}

	q := query.GetWeeklyTrendQuery{
		ClassID: classID,
		Days:    getQueryParamInt(r, "days", 0),
	}

	result, err := s.deps.GetWeeklyTrendHandler.Handle(r.Context(), q)
	if err != nil {
		s.logger.Error("failed to build weekly trend",
			logger.Err(err),
			logger.ClassID(classID),
		)
		writeJSONError(w, http.StatusInternalServerError, "Gagal memuat tren mingguan")
		return
	}

	writeJSON(w, http.StatusOK, "OK", result)
}

// ══════════════════════════════════════════════════════════════════════════════
// BODY DECODING
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody reads and unmarshals a JSON request body with a size cap.
func decodeBody(r *http.Request, dest interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	defer r.Body.Close()

	return json.Unmarshal(body, dest)
}
