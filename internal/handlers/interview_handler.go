package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/interview"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/models"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/repositories"
	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/services"
)

// InterviewLimits clamp the requested question count.
type InterviewLimits struct {
	DefaultQuestions int
	MinQuestions     int
	MaxQuestions     int
}

type InterviewHandler struct {
	sessionStore  repositories.SessionStore
	resumeRepo    repositories.ResumeRepository
	recordRepo    repositories.InterviewRecordRepository
	planner       services.QuestionPlannerService
	evaluator     interview.ResponseEvaluator
	geminiService services.GeminiService
	qdrantService services.QdrantService
	behavioral    services.BehavioralService
	reportService services.ReportService
	speechService services.SpeechService
	storage       services.StorageService
	prompts       *services.PromptBuilder
	limits        InterviewLimits
}

func NewInterviewHandler(
	sessionStore repositories.SessionStore,
	resumeRepo repositories.ResumeRepository,
	recordRepo repositories.InterviewRecordRepository,
	planner services.QuestionPlannerService,
	evaluator interview.ResponseEvaluator,
	geminiService services.GeminiService,
	qdrantService services.QdrantService,
	behavioral services.BehavioralService,
	reportService services.ReportService,
	speechService services.SpeechService,
	storage services.StorageService,
	limits InterviewLimits,
) *InterviewHandler {
	return &InterviewHandler{
		sessionStore:  sessionStore,
		resumeRepo:    resumeRepo,
		recordRepo:    recordRepo,
		planner:       planner,
		evaluator:     evaluator,
		geminiService: geminiService,
		qdrantService: qdrantService,
		behavioral:    behavioral,
		reportService: reportService,
		speechService: speechService,
		storage:       storage,
		prompts:       services.NewPromptBuilder(),
		limits:        limits,
	}
}

// HandleStart creates an interview session: generates a resume-grounded
// question plan, prepares the intro, and returns the first question.
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.InterviewStartRequest
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

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_id must be a valid UUID",
		})
	}

	resume, err := h.resumeRepo.FindByID(resumeID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "resume not found",
		})
	}

	interviewType := req.InterviewType
	if interviewType == "" {
		interviewType = "comprehensive"
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "mid"
	}
	mode := req.Mode
	if mode == "" {
		mode = "text"
	}

	numQuestions := req.NumQuestions
	if numQuestions == 0 {
		numQuestions = h.limits.DefaultQuestions
	}
	if numQuestions < h.limits.MinQuestions {
		numQuestions = h.limits.MinQuestions
	}
	if numQuestions > h.limits.MaxQuestions {
		numQuestions = h.limits.MaxQuestions
	}

	ctx := c.Context()
	resumeContext := h.retrieveResumeContext(ctx, resume, req.JobDescription)

	plan, err := h.planner.GeneratePlan(ctx, resumeContext, services.PlanParams{
		JobDescription: req.JobDescription,
		InterviewType:  interviewType,
		Difficulty:     difficulty,
		NumQuestions:   numQuestions,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to generate question plan: %v", err),
		})
	}

	session, err := interview.Start(plan)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to start session: %v", err),
		})
	}

	intro := h.introMessage(ctx, resumeContext, interviewType, numQuestions)

	state := &repositories.SessionState{
		Session:        session,
		ResumeID:       resumeID,
		JobDescription: req.JobDescription,
		InterviewType:  interviewType,
		Difficulty:     difficulty,
		Mode:           mode,
		IntroMessage:   intro,
	}
	if err := h.sessionStore.Create(state); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to store session: %v", err),
		})
	}

	first, err := session.CurrentQuestion()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to get first question: %v", err),
		})
	}

	log.Printf("🎤 Interview session %s started: %d questions, type=%s\n", session.ID, numQuestions, interviewType)

	return c.Status(fiber.StatusCreated).JSON(models.InterviewStartResponse{
		SessionID:     session.ID.String(),
		Status:        string(session.Status),
		IntroMessage:  intro,
		FirstQuestion: h.questionResponse(ctx, first, mode),
	})
}

// HandleRespond submits a text answer to the session's current question.
func (h *InterviewHandler) HandleRespond(c *fiber.Ctx) error {
	var req models.InterviewRespondRequest
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

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id must be a valid UUID",
		})
	}

	return h.submitAnswer(c, sessionID, req.Response)
}

// HandleRespondAudio accepts a recorded answer, transcribes it with
// Whisper, and submits the transcript.
func (h *InterviewHandler) HandleRespondAudio(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session ID",
		})
	}

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

	return h.submitAnswer(c, sessionID, transcript)
}

func (h *InterviewHandler) submitAnswer(c *fiber.Ctx, sessionID uuid.UUID, answer string) error {
	state, err := h.sessionStore.Get(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}
	if state.Ended() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "interview was ended",
		})
	}

	result, err := state.Session.SubmitAnswer(c.Context(), answer, h.evaluator)
	if err != nil {
		switch {
		case errors.Is(err, interview.ErrSessionComplete):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "interview is already complete",
			})
		case errors.Is(err, interview.ErrEmptyAnswer):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "answer must not be empty",
			})
		case errors.Is(err, interview.ErrConcurrentSubmission):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "another answer for this session is being evaluated",
			})
		case errors.Is(err, interview.ErrEvaluationFailed):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "answer evaluation failed, please resubmit",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to submit answer: %v", err),
			})
		}
	}

	state.AppendResponse(answer)

	analysis := h.behavioral.AnalyzeResponse(answer, 0)

	response := models.InterviewRespondResponse{
		SessionID:         sessionID.String(),
		EvaluationSummary: result.Evaluation.Summary,
		Scores:            result.Evaluation.Scores,
		Behavioral: &models.BehavioralMetrics{
			FillerWordCount:     analysis.FillerWordCount,
			FillerWordRate:      analysis.FillerWordRate,
			ConfidenceScore:     analysis.ConfidenceScore,
			ClarityScore:        analysis.ClarityScore,
			VocabularyDiversity: analysis.VocabularyDiversity,
			Sentiment:           analysis.Sentiment,
			RedFlags:            analysis.RedFlags,
		},
		IsComplete: result.Completed,
	}

	if result.Completed {
		h.archiveSession(state)
	} else if result.Next != nil {
		response.NextQuestion = h.questionResponse(c.Context(), *result.Next, state.Mode)
	}

	return c.JSON(response)
}

// HandleCurrentQuestion returns the question awaiting an answer.
func (h *InterviewHandler) HandleCurrentQuestion(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session ID",
		})
	}

	state, err := h.sessionStore.Get(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}

	question, err := state.Session.CurrentQuestion()
	if err != nil {
		if errors.Is(err, interview.ErrSessionComplete) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "interview is already complete",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to get question: %v", err),
		})
	}

	return c.JSON(h.questionResponse(c.Context(), question, state.Mode))
}

// HandleEnd stops a session early. Already-completed sessions are just
// archived; an early end keeps the session incomplete so no report is
// produced for it.
func (h *InterviewHandler) HandleEnd(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session ID",
		})
	}

	state, err := h.sessionStore.Get(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}

	if state.MarkEnded() && !state.Session.IsComplete() {
		h.archiveSession(state)
	}

	status := string(state.Session.CurrentStatus())
	if !state.Session.IsComplete() {
		status = "ended_early"
	}

	return c.JSON(models.InterviewEndResponse{
		SessionID:         sessionID.String(),
		Status:            status,
		QuestionsAnswered: state.Session.Answered(),
		TotalQuestions:    state.Session.Plan.Length(),
		AggregateScores:   state.Session.AggregateScores(),
	})
}

// HandleReport returns the full report for a completed session. Repeated
// calls return the same scores; only the generated prose may vary.
func (h *InterviewHandler) HandleReport(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session ID",
		})
	}

	state, err := h.sessionStore.Get(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}

	report, err := h.reportService.GenerateReport(c.Context(), state)
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotComplete) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "interview is not complete yet",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to generate report: %v", err),
		})
	}

	return c.JSON(report)
}

// HandleBehavioral returns behavioral analytics over the answers given so
// far. Available before completion, unlike the report.
func (h *InterviewHandler) HandleBehavioral(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session ID",
		})
	}

	state, err := h.sessionStore.Get(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}

	report := h.behavioral.AnalyzeSession(state.Responses(), nil)
	if report == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "no answers to analyze yet",
		})
	}

	return c.JSON(report)
}

// HandleGetSession returns the detail of a live session, or the archived
// record once the session has finished and left memory.
func (h *InterviewHandler) HandleGetSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session ID",
		})
	}

	state, err := h.sessionStore.Get(sessionID)
	if err != nil {
		record, recErr := h.recordRepo.FindByID(sessionID)
		if recErr != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "session not found",
			})
		}
		return c.JSON(record)
	}

	transcript := state.Session.Transcript()
	history := make([]fiber.Map, 0, len(transcript))
	for _, entry := range transcript {
		history = append(history, fiber.Map{
			"question":   entry.Question.Prompt,
			"topic":      entry.Question.Topic,
			"answer":     entry.Answer,
			"scores":     entry.Evaluation.Scores,
			"assessment": entry.Evaluation.Summary,
		})
	}

	return c.JSON(fiber.Map{
		"session_id":         state.Session.ID.String(),
		"resume_id":          state.ResumeID.String(),
		"interview_type":     state.InterviewType,
		"difficulty":         state.Difficulty,
		"mode":               state.Mode,
		"status":             string(state.Session.CurrentStatus()),
		"ended":              state.Ended(),
		"questions_answered": state.Session.Answered(),
		"total_questions":    state.Session.Plan.Length(),
		"started_at":         state.Session.StartedAt.Format(time.RFC3339),
		"history":            history,
	})
}

// HandleListSessions lists live sessions and archived interview records.
func (h *InterviewHandler) HandleListSessions(c *fiber.Ctx) error {
	states, err := h.sessionStore.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to list sessions: %v", err),
		})
	}

	live := make([]models.SessionSummary, 0, len(states))
	for _, state := range states {
		live = append(live, models.SessionSummary{
			ID:                state.Session.ID.String(),
			ResumeID:          state.ResumeID.String(),
			Status:            string(state.Session.CurrentStatus()),
			QuestionsAnswered: state.Session.Answered(),
			TotalQuestions:    state.Session.Plan.Length(),
			StartedAt:         state.Session.StartedAt.Format(time.RFC3339),
		})
	}

	records, err := h.recordRepo.List(50)
	if err != nil {
		log.Printf("⚠️  Failed to list archived interviews: %v\n", err)
		records = nil
	}

	return c.JSON(fiber.Map{
		"sessions": live,
		"archived": records,
	})
}

func (h *InterviewHandler) retrieveResumeContext(ctx context.Context, resume *models.Resume, jobDescription string) string {
	query := jobDescription
	if query == "" {
		query = "work experience, projects, skills and achievements"
	}

	embedding, err := h.geminiService.GenerateEmbedding(ctx, query)
	if err == nil {
		results, err := h.qdrantService.SearchResumeContext(ctx, embedding, resume.ID.String(), 6)
		if err == nil && len(results) > 0 {
			return h.prompts.FormatResumeContext(results)
		}
	}

	// Retrieval unavailable, fall back to the raw text.
	text := resume.TextContent
	if len(text) > 8000 {
		text = text[:8000]
	}
	return text
}

func (h *InterviewHandler) introMessage(ctx context.Context, resumeContext, interviewType string, numQuestions int) string {
	prompt := h.prompts.BuildIntroPrompt(resumeContext, interviewType, numQuestions)
	intro, err := h.geminiService.GenerateTextWithRetry(ctx, prompt, 0.7, 1)
	if err != nil || intro == "" {
		return fmt.Sprintf("Welcome to your %s mock interview. We'll go through %d questions; answer each as you would in a real interview.", interviewType, numQuestions)
	}
	return intro
}

// questionResponse shapes a question for the wire, synthesizing audio when
// the session runs in voice mode.
func (h *InterviewHandler) questionResponse(ctx context.Context, q interview.Question, mode string) *models.QuestionResponse {
	resp := &models.QuestionResponse{
		QuestionNumber: q.Index,
		TotalQuestions: q.Total,
		Question:       q.Prompt,
		QuestionType:   q.Type,
		Topic:          q.Topic,
	}

	if mode == "voice" && h.speechService.Enabled() {
		audio, ext, err := h.speechService.Synthesize(ctx, q.Prompt)
		if err != nil {
			log.Printf("⚠️  Failed to synthesize question audio: %v\n", err)
			return resp
		}
		filename, _, err := h.storage.SaveBytes(audio, ext)
		if err != nil {
			log.Printf("⚠️  Failed to store question audio: %v\n", err)
			return resp
		}
		resp.AudioURL = "/api/v1/speech/audio/" + filename
	}

	return resp
}

// archiveSession writes a finished or abandoned session to Postgres.
func (h *InterviewHandler) archiveSession(state *repositories.SessionState) {
	session := state.Session

	historyJSON, err := json.Marshal(session.Transcript())
	if err != nil {
		log.Printf("⚠️  Failed to encode session history: %v\n", err)
		historyJSON = []byte("[]")
	}

	endedAt, ok := session.CompletedAt()
	if !ok {
		endedAt = time.Now().UTC()
	}

	record := models.InterviewRecord{
		ID:                session.ID,
		ResumeID:          state.ResumeID,
		JobDescription:    state.JobDescription,
		InterviewType:     state.InterviewType,
		Mode:              state.Mode,
		Difficulty:        state.Difficulty,
		NumQuestions:      session.Plan.Length(),
		QuestionsAnswered: session.Answered(),
		Completed:         session.IsComplete(),
		History:           string(historyJSON),
		StartedAt:         session.StartedAt,
		EndedAt:           endedAt,
	}

	if session.IsComplete() {
		if report, err := interview.AssembleReport(session, nil); err == nil {
			record.OverallScore = &report.OverallScore
		}
	}

	if err := h.recordRepo.Create(&record); err != nil {
		log.Printf("⚠️  Failed to archive interview session %s: %v\n", session.ID, err)
		return
	}
	log.Printf("💾 Archived interview session %s\n", session.ID)
}
