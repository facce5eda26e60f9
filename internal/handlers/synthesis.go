package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hogenchat/internal/models"
	"hogenchat/internal/observability"
	"hogenchat/internal/voicevox"
)

type SynthesisHandler struct {
	db             *gorm.DB
	engine         *voicevox.Client
	metrics        *observability.Metrics
	defaultSpeaker int
}

func NewSynthesisHandler(db *gorm.DB, engine *voicevox.Client, metrics *observability.Metrics, defaultSpeaker int) *SynthesisHandler {
	// Style id 0 is a real VOICEVOX voice; only negative values mean unset.
	if defaultSpeaker < 0 {
		defaultSpeaker = voicevox.DefaultSpeaker
	}
	return &SynthesisHandler{
		db:             db,
		engine:         engine,
		metrics:        metrics,
		defaultSpeaker: defaultSpeaker,
	}
}

// Synthesize renders text to speech through the engine's two-stage pipeline
// and returns the audio base64-encoded. Either stage failing yields a single
// synthesis error, never partial audio.
func (h *SynthesisHandler) Synthesize(c *fiber.Ctx) error {
	var req struct {
		Text      string `json:"text"`
		SpeakerID *int   `json:"speaker_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	speaker := h.defaultSpeaker
	if req.SpeakerID != nil {
		speaker = *req.SpeakerID
	}

	start := time.Now()
	ctx := c.UserContext()

	query, err := h.engine.CreateAudioQuery(ctx, req.Text, speaker)
	if err != nil {
		return h.synthesisFailed(c, "query_failed", speaker, len(req.Text), start, err)
	}

	audio, err := h.engine.Synthesis(ctx, query, speaker)
	if err != nil {
		return h.synthesisFailed(c, "render_failed", speaker, len(req.Text), start, err)
	}

	h.metrics.ObserveSynthesisDuration(time.Since(start))
	h.recordLog(speaker, "ok", len(req.Text), len(audio), time.Since(start))

	return c.JSON(fiber.Map{
		"audio":  base64.StdEncoding.EncodeToString(audio),
		"format": "wav",
	})
}

func (h *SynthesisHandler) synthesisFailed(c *fiber.Ctx, status string, speaker, textLen int, start time.Time, err error) error {
	stage := "unknown"
	var engineErr *voicevox.EngineError
	if errors.As(err, &engineErr) {
		stage = engineErr.Stage
	}
	h.metrics.SynthesisFailures.WithLabelValues(stage).Inc()
	h.recordLog(speaker, status, textLen, 0, time.Since(start))

	// Text content stays out of the log; its length is enough for debugging.
	slog.Error("Speech synthesis failed", "stage", stage, "speaker", speaker, "text_chars", textLen, "error", err)

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":   true,
		"message": "Speech synthesis failed: " + err.Error(),
	})
}

func (h *SynthesisHandler) recordLog(speaker int, status string, textLen, audioLen int, duration time.Duration) {
	details, err := json.Marshal(map[string]interface{}{
		"text_chars":  textLen,
		"audio_bytes": audioLen,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		return
	}

	entry := models.SynthesisLog{
		Speaker: speaker,
		Status:  status,
		Details: datatypes.JSON(details),
	}
	if err := h.db.Create(&entry).Error; err != nil {
		slog.Error("Failed to record synthesis log", "error", err)
	}
}

// ListVoices proxies the engine's speaker catalogue so clients can offer a
// voice picker instead of hardcoding speaker ids.
func (h *SynthesisHandler) ListVoices(c *fiber.Ctx) error {
	speakers, err := h.engine.Speakers(c.UserContext())
	if err != nil {
		slog.Error("Failed to list voices", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to reach the synthesis engine",
		})
	}
	return c.JSON(fiber.Map{
		"default_speaker_id": h.defaultSpeaker,
		"speakers":           speakers,
	})
}

// ListSynthesisLogs returns recent synthesis attempts, newest first,
// filterable by status.
func (h *SynthesisHandler) ListSynthesisLogs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := h.db.Model(&models.SynthesisLog{})
	if status := c.Query("status", ""); status != "" {
		query = query.Where("status = ?", status)
	}

	var logs []models.SynthesisLog
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list synthesis logs",
		})
	}
	return c.JSON(fiber.Map{"logs": logs})
}
