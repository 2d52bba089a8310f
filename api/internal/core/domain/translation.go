package domain

import "context"

// NoTranslation is returned when the upstream answers without a translation.
const NoTranslation = "No translation available"

type TranslationRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

type TranslationResult struct {
	Translation string `json:"translation"`
}

// Translator is the outbound port to the remote translation endpoint.
type Translator interface {
	Translate(ctx context.Context, req TranslationRequest) (*TranslationResult, error)
}

// TranslationService validates requests before handing them to a Translator.
type TranslationService interface {
	Translate(ctx context.Context, req TranslationRequest) (*TranslationResult, error)
	Enabled() bool
}
