package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/config"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/services"
)

// Bulk-ingests resume files from the command line, bypassing the HTTP API.
// Useful for seeding a fresh environment or re-indexing after a Qdrant
// collection wipe.
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <resume.pdf|resume.txt> [...]", filepath.Base(os.Args[0]))
	}

	log.Println("🚀 Starting resume ingestion...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	resumeRepo := repositories.NewResumeRepository(db)

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	parser := services.NewResumeParserService()
	chunker := services.NewResumeChunker()

	ctx := context.Background()
	successCount := 0
	failCount := 0

	for _, path := range os.Args[1:] {
		log.Printf("\n📄 Processing: %s", path)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Printf("   ⚠️  File not found, skipping...")
			failCount++
			continue
		}

		parsed, err := parser.Parse(path)
		if err != nil {
			log.Printf("   ❌ Failed to parse: %v", err)
			failCount++
			continue
		}
		log.Printf("   ✅ Extracted %d words, %d sections", parsed.WordCount, len(parsed.Sections))

		chunks := chunker.ChunkResume(parsed.Text, parsed.Sections, 1200, 150)
		log.Printf("   ✂️  Created %d chunks", len(chunks))

		sectionsJSON, _ := json.Marshal(parsed.Sections)
		contactJSON, _ := json.Marshal(parsed.ContactInfo)

		resume := models.Resume{
			ID:               uuid.New(),
			Filename:         filepath.Base(path),
			OriginalFileName: filepath.Base(path),
			FileType:         strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
			FilePath:         path,
			TextContent:      parsed.Text,
			Sections:         string(sectionsJSON),
			ContactInfo:      string(contactJSON),
			WordCount:        parsed.WordCount,
			ChunkCount:       len(chunks),
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		if err := resumeRepo.Create(&resume); err != nil {
			log.Printf("   ❌ Failed to save resume record: %v", err)
			failCount++
			continue
		}

		stored := 0
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk.Text)
			if err != nil {
				log.Printf("   ❌ Failed to embed chunk %d: %v", i+1, err)
				continue
			}
			if err := qdrantService.UpsertChunk(ctx, resume.ID.String(), chunk.Type, chunk.Text, embedding); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}
			stored++
		}

		log.Printf("   ✅ Ingested %s (%d/%d chunks indexed, id=%s)", filepath.Base(path), stored, len(chunks), resume.ID)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d resumes", successCount)
	log.Printf("   ❌ Failed: %d resumes", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		os.Exit(1)
	}
}
