package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeSymptoms_MatchesRule(t *testing.T) {
	rec := AnalyzeSymptoms("I have chest pain and shortness of breath since yesterday")

	assert.Equal(t, "Cardiologist", rec.Specialist)
	assert.Equal(t, "urgent", rec.Urgency)
	assert.ElementsMatch(t, []string{"chest pain", "shortness of breath"}, rec.Matched)
}

func TestAnalyzeSymptoms_CaseInsensitive(t *testing.T) {
	rec := AnalyzeSymptoms("Severe HEADACHE and Dizziness")
	assert.Equal(t, "Neurologist", rec.Specialist)
}

func TestAnalyzeSymptoms_Fallback(t *testing.T) {
	rec := AnalyzeSymptoms("something entirely unrecognizable")

	assert.Equal(t, "General Physician", rec.Specialist)
	assert.Equal(t, "routine", rec.Urgency)
	assert.Empty(t, rec.Matched)
}

func TestAnalyzeSymptoms_FirstRuleWins(t *testing.T) {
	// Cardiology rules rank above dermatology.
	rec := AnalyzeSymptoms("chest pain and a rash")
	assert.Equal(t, "Cardiologist", rec.Specialist)
}
