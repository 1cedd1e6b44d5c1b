package services

import "strings"

// Recommendation is the output of the rule-based symptom analyzer. This is
// a keyword table, not an inference engine.
type Recommendation struct {
	Specialist string   `json:"specialist"`
	Urgency    string   `json:"urgency"`
	Advice     string   `json:"advice"`
	Matched    []string `json:"matched"`
}

type symptomRule struct {
	keywords   []string
	specialist string
	urgency    string
	advice     string
}

var symptomRules = []symptomRule{
	{
		keywords:   []string{"chest pain", "shortness of breath", "palpitations"},
		specialist: "Cardiologist",
		urgency:    "urgent",
		advice:     "Seek immediate medical attention if symptoms are severe or worsening.",
	},
	{
		keywords:   []string{"rash", "itching", "acne", "eczema"},
		specialist: "Dermatologist",
		urgency:    "routine",
		advice:     "Avoid scratching the affected area and keep it clean until your consultation.",
	},
	{
		keywords:   []string{"headache", "dizziness", "numbness", "seizure"},
		specialist: "Neurologist",
		urgency:    "soon",
		advice:     "Track when episodes occur and what precedes them; bring the log to your appointment.",
	},
	{
		keywords:   []string{"stomach pain", "nausea", "vomiting", "diarrhea"},
		specialist: "Gastroenterologist",
		urgency:    "soon",
		advice:     "Stay hydrated and avoid heavy meals until you have been seen.",
	},
	{
		keywords:   []string{"joint pain", "back pain", "swelling", "stiffness"},
		specialist: "Orthopedist",
		urgency:    "routine",
		advice:     "Rest the affected area and avoid strenuous activity.",
	},
	{
		keywords:   []string{"anxiety", "depression", "insomnia", "stress"},
		specialist: "Psychiatrist",
		urgency:    "routine",
		advice:     "Consider keeping a mood journal ahead of your consultation.",
	},
	{
		keywords:   []string{"fever", "cough", "sore throat", "cold"},
		specialist: "General Physician",
		urgency:    "routine",
		advice:     "Rest, drink fluids, and monitor your temperature.",
	},
}

// AnalyzeSymptoms matches free-text symptoms against the rule table and
// returns the first rule with a hit. Unmatched input falls back to a
// general-practitioner recommendation.
func AnalyzeSymptoms(text string) Recommendation {
	lower := strings.ToLower(text)

	for _, rule := range symptomRules {
		var matched []string
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			return Recommendation{
				Specialist: rule.specialist,
				Urgency:    rule.urgency,
				Advice:     rule.advice,
				Matched:    matched,
			}
		}
	}

	return Recommendation{
		Specialist: "General Physician",
		Urgency:    "routine",
		Advice:     "Your symptoms did not match a specific specialty. A general consultation is recommended.",
		Matched:    []string{},
	}
}
