package models

// Request/response payloads for the HTTP layer.

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ResumeUploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	WordCount    int    `json:"word_count"`
	TextPreview  string `json:"text_preview,omitempty"`
}

type AnalyzeRequest struct {
	ResumeID       string `json:"resume_id" validate:"required,uuid"`
	JobDescription string `json:"job_description,omitempty"`
}

type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type InterviewStartRequest struct {
	ResumeID       string `json:"resume_id" validate:"required,uuid"`
	JobDescription string `json:"job_description,omitempty"`
	InterviewType  string `json:"interview_type,omitempty"` // screening, technical, behavioral, comprehensive
	NumQuestions   int    `json:"num_questions,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"` // entry, mid, senior, executive
	Mode           string `json:"mode,omitempty"`       // text or voice
}

type QuestionResponse struct {
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
	Question       string `json:"question"`
	QuestionType   string `json:"question_type,omitempty"`
	Topic          string `json:"topic,omitempty"`
	AudioURL       string `json:"audio_url,omitempty"`
}

type InterviewStartResponse struct {
	SessionID     string            `json:"session_id"`
	Status        string            `json:"status"`
	IntroMessage  string            `json:"intro_message"`
	FirstQuestion *QuestionResponse `json:"first_question"`
}

type InterviewRespondRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	Response  string `json:"response" validate:"required"`
}

type BehavioralMetrics struct {
	FillerWordCount     int      `json:"filler_word_count"`
	FillerWordRate      float64  `json:"filler_word_rate"`
	ConfidenceScore     float64  `json:"confidence_score"`
	ClarityScore        float64  `json:"clarity_score"`
	VocabularyDiversity float64  `json:"vocabulary_diversity"`
	Sentiment           string   `json:"sentiment"`
	RedFlags            []string `json:"red_flags,omitempty"`
}

type InterviewRespondResponse struct {
	SessionID         string             `json:"session_id"`
	EvaluationSummary string             `json:"evaluation_summary"`
	Scores            map[string]float64 `json:"scores"`
	Behavioral        *BehavioralMetrics `json:"behavioral,omitempty"`
	IsComplete        bool               `json:"is_complete"`
	NextQuestion      *QuestionResponse  `json:"next_question,omitempty"`
}

type InterviewEndResponse struct {
	SessionID         string             `json:"session_id"`
	Status            string             `json:"status"`
	QuestionsAnswered int                `json:"questions_answered"`
	TotalQuestions    int                `json:"total_questions"`
	AggregateScores   map[string]float64 `json:"aggregate_scores,omitempty"`
}

type SessionSummary struct {
	ID                string `json:"id"`
	ResumeID          string `json:"resume_id"`
	Status            string `json:"status"`
	QuestionsAnswered int    `json:"questions_answered"`
	TotalQuestions    int    `json:"total_questions"`
	StartedAt         string `json:"started_at"`
}

type SynthesizeRequest struct {
	Text  string  `json:"text" validate:"required"`
	Voice string  `json:"voice,omitempty"`
	Speed float64 `json:"speed,omitempty"`
}
