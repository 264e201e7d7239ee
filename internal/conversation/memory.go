package conversation

// Memory is the derived index over a conversation. Buckets have fixed,
// per-bucket semantics: some are deduplicated ordered sets, some append-only
// logs. The distinction never changes at runtime.
type Memory struct {
	// Deduplicated ordered sets.
	KeyTopics         []string `json:"key_topics_discussed"`
	SymptomsMentioned []string `json:"symptoms_mentioned"`
	MedicalTermsUsed  []string `json:"medical_terms_used"`

	// Append-only logs.
	ConcernsRaised      []string          `json:"concerns_raised"`
	PatientQuestions    []string          `json:"questions_asked_by_patient"`
	EmotionalIndicators []string          `json:"emotional_indicators"`
	UrgencyMarkers      []string          `json:"urgency_markers"`
	StageTransitions    []StageTransition `json:"stage_transitions"`
}

// MentionSymptom inserts a symptom name, keeping first-mention order and
// dropping repeats.
func (m *Memory) MentionSymptom(name string) {
	m.SymptomsMentioned = dedupInsert(m.SymptomsMentioned, name)
}

// DiscussTopic inserts a topic, deduplicated.
func (m *Memory) DiscussTopic(topic string) {
	m.KeyTopics = dedupInsert(m.KeyTopics, topic)
}

// UseMedicalTerm inserts a recognized medical term, deduplicated.
func (m *Memory) UseMedicalTerm(term string) {
	m.MedicalTermsUsed = dedupInsert(m.MedicalTermsUsed, term)
}

// RaiseConcern appends to the concern log. Every raising is kept.
func (m *Memory) RaiseConcern(concern string) {
	m.ConcernsRaised = append(m.ConcernsRaised, concern)
}

// AskQuestion appends a patient question to the log.
func (m *Memory) AskQuestion(question string) {
	m.PatientQuestions = append(m.PatientQuestions, question)
}

// NoteEmotion appends an emotional indicator to the log.
func (m *Memory) NoteEmotion(indicator string) {
	m.EmotionalIndicators = append(m.EmotionalIndicators, indicator)
}

// MarkUrgency appends an urgency marker to the log.
func (m *Memory) MarkUrgency(marker string) {
	m.UrgencyMarkers = append(m.UrgencyMarkers, marker)
}

func (m *Memory) recordTransition(t StageTransition) {
	m.StageTransitions = append(m.StageTransitions, t)
}

func dedupInsert(set []string, v string) []string {
	if v == "" {
		return set
	}
	for _, existing := range set {
		if existing == v {
			return set
		}
	}
	return append(set, v)
}

func (m Memory) clone() Memory {
	return Memory{
		KeyTopics:           append([]string(nil), m.KeyTopics...),
		SymptomsMentioned:   append([]string(nil), m.SymptomsMentioned...),
		MedicalTermsUsed:    append([]string(nil), m.MedicalTermsUsed...),
		ConcernsRaised:      append([]string(nil), m.ConcernsRaised...),
		PatientQuestions:    append([]string(nil), m.PatientQuestions...),
		EmotionalIndicators: append([]string(nil), m.EmotionalIndicators...),
		UrgencyMarkers:      append([]string(nil), m.UrgencyMarkers...),
		StageTransitions:    append([]StageTransition(nil), m.StageTransitions...),
	}
}
