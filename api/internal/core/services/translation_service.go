package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Poojareddy2809/shadowshare/api/internal/core/domain"
)

type TranslationService struct {
	translator domain.Translator
	logger     *slog.Logger
}

// NewTranslationService wires the outbound translator. A nil translator
// leaves the service disabled; every call then fails with ErrTranslatorUnavailable.
func NewTranslationService(translator domain.Translator, logger *slog.Logger) *TranslationService {
	return &TranslationService{translator: translator, logger: logger}
}

func (s *TranslationService) Enabled() bool {
	return s.translator != nil
}

func (s *TranslationService) Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error) {
	req.Text = strings.TrimSpace(req.Text)
	req.TargetLang = strings.TrimSpace(req.TargetLang)

	if req.Text == "" {
		return nil, domain.ErrTranslateTextRequired
	}
	if req.TargetLang == "" {
		return nil, domain.ErrTargetLangRequired
	}
	if s.translator == nil {
		return nil, domain.ErrTranslatorUnavailable
	}

	res, err := s.translator.Translate(ctx, req)
	if err != nil {
		s.logger.Warn("Translation request failed",
			slog.String("target_lang", req.TargetLang),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrTranslationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
	}

	if res == nil || strings.TrimSpace(res.Translation) == "" {
		return &domain.TranslationResult{Translation: domain.NoTranslation}, nil
	}
	return res, nil
}
