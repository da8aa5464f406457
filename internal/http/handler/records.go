package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"wellspring/internal/auth"
	"wellspring/internal/record"

	"gorm.io/gorm"
)

// RecordHandler ingests sanitized check-ins and journal entries. The
// excerpt sanitizer runs here so raw text never reaches storage.
type RecordHandler struct {
	DB *gorm.DB
}

type checkinReq struct {
	MoodLevel   string          `json:"mood_level"`
	EnergyLevel string          `json:"energy_level"`
	StressLevel string          `json:"stress_level"`
	FeelBetter  *bool           `json:"feel_better"`
	Sentiment   string          `json:"sentiment"`
	Emotion     json.RawMessage `json:"emotion"`
}

func (h *RecordHandler) CreateCheckin(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req checkinReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.MoodLevel = strings.TrimSpace(strings.ToLower(req.MoodLevel))
	if req.MoodLevel == "" {
		http.Error(w, "mood_level required", http.StatusBadRequest)
		return
	}

	var emotion record.Emotion
	if len(req.Emotion) > 0 {
		_ = emotion.UnmarshalJSON(req.Emotion) // malformed decodes to none
	}

	c := record.CheckinRecord{
		UserID:      &uid,
		MoodLevel:   req.MoodLevel,
		EnergyLevel: strings.TrimSpace(strings.ToLower(req.EnergyLevel)),
		StressLevel: strings.TrimSpace(strings.ToLower(req.StressLevel)),
		FeelBetter:  req.FeelBetter,
		Sentiment:   strings.TrimSpace(strings.ToLower(req.Sentiment)),
		Emotion:     emotion,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.DB.Create(&c).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": c.ID})
}

type journalReq struct {
	Excerpt   string          `json:"excerpt"`
	Sentiment string          `json:"sentiment"`
	Emotion   json.RawMessage `json:"emotion"`
}

func (h *RecordHandler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req journalReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	excerpt := record.SanitizeExcerpt(req.Excerpt)
	if excerpt == "" {
		http.Error(w, "excerpt required", http.StatusBadRequest)
		return
	}

	var emotion record.Emotion
	if len(req.Emotion) > 0 {
		_ = emotion.UnmarshalJSON(req.Emotion)
	}

	j := record.JournalRecord{
		UserID:          &uid,
		RedactedExcerpt: excerpt,
		Sentiment:       strings.TrimSpace(strings.ToLower(req.Sentiment)),
		Emotion:         emotion,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.DB.Create(&j).Error; err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": j.ID})
}
