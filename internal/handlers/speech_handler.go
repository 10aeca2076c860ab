package handlers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/services"
)

type SpeechHandler struct {
	speechService services.SpeechService
	storage       services.StorageService
}

func NewSpeechHandler(speechService services.SpeechService, storage services.StorageService) *SpeechHandler {
	return &SpeechHandler{
		speechService: speechService,
		storage:       storage,
	}
}

// HandleVoices lists the voices available from the configured provider.
func (h *SpeechHandler) HandleVoices(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"enabled": h.speechService.Enabled(),
		"voices":  h.speechService.Voices(),
	})
}

// HandleSynthesize converts text to speech and streams back the audio.
func (h *SpeechHandler) HandleSynthesize(c *fiber.Ctx) error {
	var req models.SynthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text is required",
		})
	}

	if !h.speechService.Enabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no speech provider configured",
		})
	}

	audio, _, err := h.speechService.Synthesize(c.Context(), req.Text)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to synthesize speech: %v", err),
		})
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(audio)
}

// HandleTranscribe converts an uploaded recording to text.
func (h *SpeechHandler) HandleTranscribe(c *fiber.Ctx) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No audio uploaded. Send the recording in the 'audio' form field.",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read audio upload",
		})
	}
	defer src.Close()

	audio, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read audio upload",
		})
	}

	transcript, err := h.speechService.Transcribe(c.Context(), audio, file.Filename)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to transcribe audio: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"text": transcript,
	})
}

// HandleGetAudio serves previously synthesized question audio.
func (h *SpeechHandler) HandleGetAudio(c *fiber.Ctx) error {
	filename := filepath.Base(c.Params("filename"))
	if filename == "" || filename == "." {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid filename",
		})
	}

	return c.SendFile(h.storage.GetFilePath(filename))
}
