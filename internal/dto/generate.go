package dto

import "github.com/PranavPrasannaV/satapp/internal/domain"

// GenerateQuestionsResponse is the body of the non-streaming generation
// endpoint: always exactly the requested count of well-formed units.
type GenerateQuestionsResponse struct {
	Questions []domain.QuestionUnit `json:"questions"`
}

// HealthResponse reports readiness of the service dependencies.
type HealthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
	LLM    string `json:"llm"`
}
