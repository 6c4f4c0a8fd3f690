package dto

// SuggestionRequest carries a free-text job description.
type SuggestionRequest struct {
	Text string `json:"text" validate:"required,min=10,max=20000"`
}
