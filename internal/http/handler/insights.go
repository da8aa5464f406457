package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wellspring/internal/auth"
	"wellspring/internal/insight"
	"wellspring/internal/jobs"
	"wellspring/internal/record"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// BatchEnqueuer schedules insight jobs. A nil userID means a full sweep.
type BatchEnqueuer interface {
	EnqueueBatch(typ string, userID *uint64, runAt time.Time) error
}

// InsightHandler exposes the ad-hoc compute trigger and insight reads.
type InsightHandler struct {
	DB     *gorm.DB
	Svc    *insight.Service
	Loader *record.Loader
	Jobs   BatchEnqueuer
}

type computeReq struct {
	Type  string `json:"type"`
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`   // YYYY-MM-DD
}

// Compute runs the engine synchronously for the caller's own records over
// an arbitrary window. Unstored outcomes are 200s with a reason, not
// errors.
func (h *InsightHandler) Compute(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req computeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	start, err := time.Parse("2006-01-02", strings.TrimSpace(req.Start))
	if err != nil {
		http.Error(w, "invalid start (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	end, err := time.Parse("2006-01-02", strings.TrimSpace(req.End))
	if err != nil {
		http.Error(w, "invalid end (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	if !end.After(start) {
		http.Error(w, "end must be after start", http.StatusBadRequest)
		return
	}

	typ := insight.InsightType(strings.TrimSpace(strings.ToLower(req.Type)))

	payload, err := h.Loader.Window(r.Context(), &uid, start, end.AddDate(0, 0, 1))
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	result, err := h.Svc.ComputeAndStore(r.Context(), &uid, start, end, payload, typ)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// List returns the caller's stored insights, newest first.
func (h *InsightHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	q := h.DB.Model(&insight.InsightRecord{}).Where("user_id = ?", uid)
	if typ := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("type"))); typ != "" {
		q = q.Where("type = ?", typ)
	}

	var rows []insight.InsightRecord
	if err := q.Order("generated_at desc").Limit(50).Find(&rows).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

// Get returns one stored insight by id, scoped to the caller.
func (h *InsightHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var row insight.InsightRecord
	if err := h.DB.Where("id = ? AND user_id = ?", id, uid).First(&row).Error; err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(row)
}

type runBatchReq struct {
	Type string `json:"type"` // weekly | behavioral
}

// RunBatch enqueues a full batch sweep. Used by operators and the ad-hoc
// scheduler trigger.
func (h *InsightHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var req runBatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	var jobType string
	switch insight.InsightType(strings.TrimSpace(strings.ToLower(req.Type))) {
	case insight.TypeWeekly:
		jobType = jobs.TypeWeeklyBatch
	case insight.TypeBehavioral:
		jobType = jobs.TypeBehavioralBatch
	default:
		http.Error(w, "unsupported type", http.StatusBadRequest)
		return
	}

	if err := h.Jobs.EnqueueBatch(jobType, nil, time.Now()); err != nil {
		http.Error(w, "failed enqueue job", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Refresh enqueues an ad-hoc recompute job scoped to the caller. The
// worker picks it up like any other job, so the caller gets the batch
// retry behavior instead of a blocking compute.
func (h *InsightHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req runBatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	var jobType string
	switch insight.InsightType(strings.TrimSpace(strings.ToLower(req.Type))) {
	case insight.TypeWeekly:
		jobType = jobs.TypeWeeklyBatch
	case insight.TypeBehavioral:
		jobType = jobs.TypeBehavioralBatch
	default:
		http.Error(w, "unsupported type", http.StatusBadRequest)
		return
	}

	if err := h.Jobs.EnqueueBatch(jobType, &uid, time.Now()); err != nil {
		http.Error(w, "failed enqueue job", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
