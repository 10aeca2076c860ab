package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/services"
)

const (
	chunkMaxSize = 1200
	chunkOverlap = 150
)

type ResumeHandler struct {
	resumeRepo     repositories.ResumeRepository
	storageService services.StorageService
	parserService  services.ResumeParserService
	chunker        services.ResumeChunker
	geminiService  services.GeminiService
	qdrantService  services.QdrantService
	maxFileSize    int64
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	storageService services.StorageService,
	parserService services.ResumeParserService,
	chunker services.ResumeChunker,
	geminiService services.GeminiService,
	qdrantService services.QdrantService,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:     resumeRepo,
		storageService: storageService,
		parserService:  parserService,
		chunker:        chunker,
		geminiService:  geminiService,
		qdrantService:  qdrantService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload accepts a resume file, extracts its text and structure, and
// indexes the content into Qdrant for retrieval during interviews.
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume file uploaded. Send the file in the 'resume' form field.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type. Upload a PDF or plain text resume.",
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file, "resume")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	parsed, err := h.parserService.Parse(filePath)
	if err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to parse resume: %v", err),
		})
	}

	sectionsJSON, _ := json.Marshal(parsed.Sections)
	contactJSON, _ := json.Marshal(parsed.ContactInfo)

	chunks := h.chunker.ChunkResume(parsed.Text, parsed.Sections, chunkMaxSize, chunkOverlap)

	resume := models.Resume{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: file.Filename,
		FileType:         strings.TrimPrefix(ext, "."),
		FilePath:         filePath,
		TextContent:      parsed.Text,
		Sections:         string(sectionsJSON),
		ContactInfo:      string(contactJSON),
		WordCount:        parsed.WordCount,
		ChunkCount:       len(chunks),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.resumeRepo.Create(&resume); err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume record: %v", err),
		})
	}

	// Index chunks in the background so uploads stay fast. Retrieval simply
	// returns fewer results until indexing finishes.
	go h.indexChunks(resume.ID, chunks)

	preview := parsed.Text
	if len(preview) > 500 {
		preview = preview[:500]
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Resume uploaded successfully",
		"resume": models.ResumeUploadResponse{
			ID:           resume.ID.String(),
			Filename:     resume.Filename,
			OriginalName: resume.OriginalFileName,
			FileType:     resume.FileType,
			WordCount:    resume.WordCount,
			TextPreview:  preview,
		},
	})
}

func (h *ResumeHandler) indexChunks(resumeID uuid.UUID, chunks []services.ResumeChunk) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	indexed := 0
	for _, chunk := range chunks {
		embedding, err := h.geminiService.GenerateEmbedding(ctx, chunk.Text)
		if err != nil {
			log.Printf("⚠️  Failed to embed resume chunk: %v\n", err)
			continue
		}
		if err := h.qdrantService.UpsertChunk(ctx, resumeID.String(), chunk.Type, chunk.Text, embedding); err != nil {
			log.Printf("⚠️  Failed to index resume chunk: %v\n", err)
			continue
		}
		indexed++
	}

	log.Printf("✅ Indexed %d/%d chunks for resume %s\n", indexed, len(chunks), resumeID)
}

// HandleList returns all uploaded resumes, newest first.
func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	resumes, err := h.resumeRepo.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to list resumes: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"resumes": resumes,
		"count":   len(resumes),
	})
}

// HandleGet returns one resume with its detected sections and contact info.
func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "resume not found",
		})
	}

	var sections map[string]string
	var contact map[string]string
	json.Unmarshal([]byte(resume.Sections), &sections)
	json.Unmarshal([]byte(resume.ContactInfo), &contact)

	return c.JSON(fiber.Map{
		"resume":       resume,
		"sections":     sections,
		"contact_info": contact,
	})
}

// HandleChunks re-chunks the stored resume text and returns the chunks,
// optionally filtered by section type. Chunking is deterministic, so this
// matches what was indexed at upload time.
func (h *ResumeHandler) HandleChunks(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "resume not found",
		})
	}

	var sections map[string]string
	json.Unmarshal([]byte(resume.Sections), &sections)

	chunks := h.chunker.ChunkResume(resume.TextContent, sections, chunkMaxSize, chunkOverlap)

	chunkType := c.Query("type")
	out := make([]fiber.Map, 0, len(chunks))
	for _, chunk := range chunks {
		if chunkType != "" && chunk.Type != chunkType {
			continue
		}
		out = append(out, fiber.Map{
			"type": chunk.Type,
			"text": chunk.Text,
		})
	}

	return c.JSON(fiber.Map{
		"resume_id": resume.ID,
		"count":     len(out),
		"chunks":    out,
	})
}

// HandleDelete removes the resume row, its file, and its vector chunks.
func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "resume not found",
		})
	}

	if err := h.qdrantService.DeleteResume(c.Context(), id.String()); err != nil {
		log.Printf("⚠️  Failed to delete resume vectors: %v\n", err)
	}
	if err := h.storageService.DeleteFile(resume.Filename); err != nil {
		log.Printf("⚠️  Failed to delete resume file: %v\n", err)
	}
	if err := h.resumeRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to delete resume: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Resume deleted successfully",
	})
}
