package services

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// SpeechAnalysis captures the behavioral read of a single answer.
// Scores are 0-100; SpeakingRateWPM is nil when no audio duration is known.
type SpeechAnalysis struct {
	FillerWordCount      int            `json:"filler_word_count"`
	FillerWordsFound     map[string]int `json:"filler_words_found"`
	FillerWordRate       float64        `json:"filler_word_rate"`
	SpeakingRateWPM      *float64       `json:"speaking_rate_wpm,omitempty"`
	ConfidenceScore      float64        `json:"confidence_score"`
	ClarityScore         float64        `json:"clarity_score"`
	VocabularyDiversity  float64        `json:"vocabulary_diversity"`
	Sentiment            string         `json:"sentiment"`
	HedgingLanguageCount int            `json:"hedging_language_count"`
	AssertiveCount       int            `json:"assertive_language_count"`
	RedFlags             []string       `json:"red_flags"`
}

// FillerCount is a (word, count) pair used for the top-fillers ranking.
type FillerCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SessionBehavioralReport aggregates per-answer analyses across a whole
// interview session.
type SessionBehavioralReport struct {
	OverallConfidence  float64          `json:"overall_confidence"`
	OverallClarity     float64          `json:"overall_clarity"`
	VocabularyRichness float64          `json:"vocabulary_richness"`
	AvgSpeakingRateWPM *float64         `json:"speaking_rate_wpm,omitempty"`
	ConfidenceTrend    string           `json:"confidence_trend"`
	TotalFillers       int              `json:"total_fillers"`
	AvgFillerRate      float64          `json:"average_filler_rate"`
	TopFillers         []FillerCount    `json:"top_fillers"`
	FillerAssessment   string           `json:"filler_assessment"`
	RedFlags           []string         `json:"red_flags"`
	Recommendations    []string         `json:"recommendations"`
	PerResponse        []SpeechAnalysis `json:"per_response"`
}

type BehavioralService interface {
	AnalyzeResponse(text string, audioDurationSeconds float64) SpeechAnalysis
	AnalyzeSession(responses []string, audioDurations []float64) *SessionBehavioralReport
}

type behavioralService struct {
	fillerPatterns    map[string]*regexp.Regexp
	hedgingPatterns   []*regexp.Regexp
	assertivePatterns []*regexp.Regexp
	negativePatterns  []*regexp.Regexp
}

var fillerWords = []string{
	"um", "uh", "uhh", "umm", "erm", "er", "ah", "ahh",
	"like", "you know", "i mean", "basically", "actually", "literally",
	"so yeah", "yeah so", "right so", "so like",
	"kind of", "sort of", "kinda", "sorta",
	"and stuff", "or something", "and things", "and whatnot",
	"you know what i mean", "if that makes sense",
}

var hedgingPhrases = []string{
	"i think", "i believe", "i guess", "maybe", "perhaps",
	"probably", "possibly", "might", "could be", "not sure",
	"i suppose", "it seems", "kind of", "sort of", "somewhat",
	"in a way", "to some extent", "more or less", "i feel like",
}

var assertivePhrases = []string{
	"i know", "i am certain", "definitely", "absolutely",
	"certainly", "clearly", "obviously", "without a doubt",
	"i'm confident", "i'm sure", "i can", "i will", "i did",
	"specifically", "precisely", "exactly", "in fact",
}

var negativePhrases = []string{
	"i can't", "i don't know", "i'm not sure", "i haven't",
	"i couldn't", "i wouldn't", "i didn't", "never done",
	"no experience", "not familiar", "not really",
}

func NewBehavioralService() BehavioralService {
	s := &behavioralService{
		fillerPatterns: make(map[string]*regexp.Regexp, len(fillerWords)),
	}
	for _, w := range fillerWords {
		s.fillerPatterns[w] = wordPattern(w)
	}
	for _, p := range hedgingPhrases {
		s.hedgingPatterns = append(s.hedgingPatterns, wordPattern(p))
	}
	for _, p := range assertivePhrases {
		s.assertivePatterns = append(s.assertivePatterns, wordPattern(p))
	}
	for _, p := range negativePhrases {
		s.negativePatterns = append(s.negativePatterns, wordPattern(p))
	}
	return s
}

func wordPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
}

// AnalyzeResponse implements BehavioralService.
func (s *behavioralService) AnalyzeResponse(text string, audioDurationSeconds float64) SpeechAnalysis {
	lower := strings.ToLower(text)
	words := strings.Fields(text)
	wordCount := len(words)

	if wordCount == 0 {
		return SpeechAnalysis{
			FillerWordsFound: map[string]int{},
			Sentiment:        "neutral",
			RedFlags:         []string{"Empty response"},
		}
	}

	fillerBreakdown := make(map[string]int)
	totalFillers := 0
	for word, pattern := range s.fillerPatterns {
		if n := len(pattern.FindAllStringIndex(lower, -1)); n > 0 {
			fillerBreakdown[word] = n
			totalFillers += n
		}
	}
	fillerRate := round2(float64(totalFillers) / float64(wordCount) * 100)

	hedgingCount := countPatterns(lower, s.hedgingPatterns)
	assertiveCount := countPatterns(lower, s.assertivePatterns)
	negativeCount := countPatterns(lower, s.negativePatterns)

	var speakingRate *float64
	if audioDurationSeconds > 0 {
		wpm := float64(wordCount) / audioDurationSeconds * 60
		speakingRate = &wpm
	}

	return SpeechAnalysis{
		FillerWordCount:      totalFillers,
		FillerWordsFound:     fillerBreakdown,
		FillerWordRate:       fillerRate,
		SpeakingRateWPM:      speakingRate,
		ConfidenceScore:      confidenceScore(fillerRate, hedgingCount, assertiveCount, negativeCount, wordCount),
		ClarityScore:         clarityScore(text, fillerRate, wordCount),
		VocabularyDiversity:  vocabularyDiversity(words),
		Sentiment:            sentimentLabel(hedgingCount, assertiveCount, negativeCount, wordCount),
		HedgingLanguageCount: hedgingCount,
		AssertiveCount:       assertiveCount,
		RedFlags:             redFlags(fillerRate, hedgingCount, negativeCount, wordCount, speakingRate),
	}
}

// AnalyzeSession implements BehavioralService.
func (s *behavioralService) AnalyzeSession(responses []string, audioDurations []float64) *SessionBehavioralReport {
	if len(responses) == 0 {
		return nil
	}

	analyses := make([]SpeechAnalysis, 0, len(responses))
	for i, response := range responses {
		var duration float64
		if i < len(audioDurations) {
			duration = audioDurations[i]
		}
		analyses = append(analyses, s.AnalyzeResponse(response, duration))
	}

	n := float64(len(analyses))
	var totalFillers int
	var sumFillerRate, sumConfidence, sumClarity, sumVocab float64
	combinedFillers := make(map[string]int)
	flagSet := make(map[string]bool)
	var flags []string
	var rates []float64
	var confidences []float64

	for _, a := range analyses {
		totalFillers += a.FillerWordCount
		sumFillerRate += a.FillerWordRate
		sumConfidence += a.ConfidenceScore
		sumClarity += a.ClarityScore
		sumVocab += a.VocabularyDiversity
		confidences = append(confidences, a.ConfidenceScore)
		for word, count := range a.FillerWordsFound {
			combinedFillers[word] += count
		}
		for _, f := range a.RedFlags {
			if !flagSet[f] {
				flagSet[f] = true
				flags = append(flags, f)
			}
		}
		if a.SpeakingRateWPM != nil {
			rates = append(rates, *a.SpeakingRateWPM)
		}
	}

	topFillers := make([]FillerCount, 0, len(combinedFillers))
	for word, count := range combinedFillers {
		topFillers = append(topFillers, FillerCount{Word: word, Count: count})
	}
	sort.Slice(topFillers, func(i, j int) bool {
		if topFillers[i].Count != topFillers[j].Count {
			return topFillers[i].Count > topFillers[j].Count
		}
		return topFillers[i].Word < topFillers[j].Word
	})
	if len(topFillers) > 5 {
		topFillers = topFillers[:5]
	}

	var avgSpeakingRate *float64
	if len(rates) > 0 {
		var sum float64
		for _, r := range rates {
			sum += r
		}
		avg := round1(sum / float64(len(rates)))
		avgSpeakingRate = &avg
	}

	avgFillerRate := round2(sumFillerRate / n)
	avgConfidence := round1(sumConfidence / n)
	avgClarity := round1(sumClarity / n)

	return &SessionBehavioralReport{
		OverallConfidence:  avgConfidence,
		OverallClarity:     avgClarity,
		VocabularyRichness: round1(sumVocab / n),
		AvgSpeakingRateWPM: avgSpeakingRate,
		ConfidenceTrend:    scoreTrend(confidences),
		TotalFillers:       totalFillers,
		AvgFillerRate:      avgFillerRate,
		TopFillers:         topFillers,
		FillerAssessment:   assessFillerUsage(avgFillerRate),
		RedFlags:           flags,
		Recommendations:    recommendations(avgFillerRate, avgConfidence, avgClarity, avgSpeakingRate, flags),
		PerResponse:        analyses,
	}
}

func countPatterns(text string, patterns []*regexp.Regexp) int {
	count := 0
	for _, p := range patterns {
		count += len(p.FindAllStringIndex(text, -1))
	}
	return count
}

func confidenceScore(fillerRate float64, hedging, assertive, negative, wordCount int) float64 {
	score := 70.0
	score -= fillerRate * 2
	score -= float64(hedging) / float64(wordCount) * 100 * 3
	score += float64(assertive) / float64(wordCount) * 100 * 2
	score -= float64(negative) / float64(wordCount) * 100 * 4
	return clamp(score, 0, 100)
}

var sentenceEndPattern = regexp.MustCompile(`[.!?]+`)

func clarityScore(text string, fillerRate float64, wordCount int) float64 {
	score := 80.0
	score -= fillerRate * 1.5

	switch {
	case wordCount < 20:
		score -= 15
	case wordCount < 50:
		score -= 5
	}
	switch {
	case wordCount > 300:
		score -= 10
	case wordCount > 200:
		score -= 5
	}

	if sentences := len(sentenceEndPattern.FindAllString(text, -1)); sentences > 0 {
		avgSentenceLength := float64(wordCount) / float64(sentences)
		if avgSentenceLength > 40 {
			score -= 10
		} else if avgSentenceLength < 8 {
			score -= 5
		}
	}

	return clamp(score, 0, 100)
}

// vocabularyDiversity maps the type-token ratio onto 0-100. Conversational
// speech typically sits in the 0.4-0.6 TTR range.
func vocabularyDiversity(words []string) float64 {
	clean := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.Trim(w, ".,!?;:"))
		if w != "" && isAlpha(w) {
			clean = append(clean, w)
		}
	}
	if len(clean) == 0 {
		return 0
	}

	unique := make(map[string]bool, len(clean))
	for _, w := range clean {
		unique[w] = true
	}

	ttr := float64(len(unique)) / float64(len(clean))
	return clamp((ttr-0.2)/0.5*100, 0, 100)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && r != '\'' {
			return false
		}
	}
	return true
}

func sentimentLabel(hedging, assertive, negative, wordCount int) string {
	if wordCount == 0 {
		return "neutral"
	}
	if float64(negative)/float64(wordCount) > 0.02 {
		return "uncertain"
	}
	if assertive > hedging+2 {
		return "positive"
	}
	if hedging > assertive+2 {
		return "uncertain"
	}
	return "neutral"
}

func redFlags(fillerRate float64, hedging, negative, wordCount int, speakingRate *float64) []string {
	var flags []string

	if fillerRate > 8 {
		flags = append(flags, "Excessive use of filler words (>8%)")
	} else if fillerRate > 5 {
		flags = append(flags, "High filler word usage (5-8%)")
	}

	if float64(hedging)/float64(wordCount)*100 > 5 {
		flags = append(flags, "Excessive hedging language, may indicate uncertainty")
	}
	if negative > 3 {
		flags = append(flags, "Multiple negative statements about capabilities")
	}
	if wordCount < 15 {
		flags = append(flags, "Very brief response, may indicate disengagement")
	}
	if speakingRate != nil {
		if *speakingRate > 180 {
			flags = append(flags, "Speaking too fast (>180 WPM)")
		} else if *speakingRate < 80 {
			flags = append(flags, "Speaking too slowly (<80 WPM)")
		}
	}

	return flags
}

func scoreTrend(scores []float64) string {
	if len(scores) < 3 {
		return "insufficient_data"
	}

	half := len(scores) / 2
	var firstSum, secondSum float64
	for _, s := range scores[:half] {
		firstSum += s
	}
	for _, s := range scores[half:] {
		secondSum += s
	}

	diff := secondSum/float64(len(scores)-half) - firstSum/float64(half)
	switch {
	case diff > 5:
		return "improving"
	case diff < -5:
		return "declining"
	default:
		return "stable"
	}
}

func assessFillerUsage(rate float64) string {
	switch {
	case rate < 2:
		return "Excellent: minimal filler usage"
	case rate < 4:
		return "Good: occasional fillers, within normal range"
	case rate < 6:
		return "Moderate: noticeable filler usage, room for improvement"
	case rate < 8:
		return "High: frequent fillers may distract from content"
	default:
		return "Excessive: significant filler usage affecting clarity"
	}
}

func recommendations(fillerRate, confidence, clarity float64, speakingRate *float64, flags []string) []string {
	var recs []string

	if fillerRate > 4 {
		recs = append(recs, "Practice pausing instead of using filler words. A brief silence is more professional than 'um' or 'like'.")
	}
	if confidence < 60 {
		recs = append(recs, "Use more assertive language. Replace 'I think' with 'I know' or 'In my experience' when discussing your actual experience.")
	}
	if clarity < 60 {
		recs = append(recs, "Structure responses with a clear beginning, middle, and end. Use the STAR method for behavioral questions.")
	}
	if speakingRate != nil && *speakingRate > 160 {
		recs = append(recs, "Slow down your speaking pace. Take a breath between thoughts to improve clarity.")
	}
	for _, f := range flags {
		if strings.Contains(strings.ToLower(f), "hedging") {
			recs = append(recs, "Reduce hedging phrases like 'kind of' or 'sort of'. Commit to your statements with confidence.")
			break
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "Strong communication skills demonstrated. Keep practicing to maintain this level.")
	}
	return recs
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
