package generator

import (
	"context"
	"fmt"

	"medical-intake-engine/internal/conversation"
)

// Local is a heuristic generator used when no external service is configured,
// and in tests. It produces stage-appropriate intake questions from the
// snapshot alone.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Generate(_ context.Context, snap conversation.Snapshot, _ string) (*Result, error) {
	res := &Result{Confidence: 0.9}

	lastSymptom := ""
	if n := len(snap.RecentSymptoms); n > 0 {
		lastSymptom = snap.RecentSymptoms[n-1].Symptom.Name
	}

	switch snap.Stage {
	case conversation.StageGreeting:
		res.ResponseText = "Hello, I am here to help gather some details before your consultation. What brings you in today?"
	case conversation.StageHistoryTaking:
		if lastSymptom != "" {
			res.ResponseText = fmt.Sprintf("Thank you for sharing that. How long have you been experiencing the %s, and is there anything else bothering you?", lastSymptom)
		} else {
			res.ResponseText = "Could you describe your symptoms, when they started, and anything that makes them better or worse?"
		}
	case conversation.StageSymptomClarification:
		if lastSymptom != "" {
			res.ResponseText = fmt.Sprintf("I would like to understand the %s better. How severe is it on a scale of one to ten, and does anything trigger it?", lastSymptom)
		} else {
			res.ResponseText = "Can you tell me more about how the symptoms affect your day-to-day activities?"
		}
	case conversation.StageRiskAssessment:
		res.ResponseText = "Do you have any existing medical conditions, allergies, or medications you take regularly?"
		res.StageHint = conversation.StageRecommendation
	case conversation.StageRecommendation:
		res.ResponseText = "Based on what you have told me, I recommend discussing these symptoms with a clinician. I have prepared a summary for your appointment. Is there anything you would like to add?"
		res.StageHint = conversation.StageClosure
	case conversation.StageEmergencyEscalation:
		res.ResponseText = "Your symptoms may need immediate attention. Please contact emergency services or go to the nearest emergency department now. A clinician has been notified."
	case conversation.StageClosure:
		res.ResponseText = "Thank you. Your intake summary is complete and has been shared with the care team. Take care."
	default:
		res.ResponseText = "Could you tell me a little more about how you are feeling?"
	}

	return res, nil
}
