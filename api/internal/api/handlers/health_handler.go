package handlers

import (
	"net/http"

	"github.com/Poojareddy2809/shadowshare/api/internal/core/domain"
)

type HealthHandler struct {
	translation domain.TranslationService
}

func NewHealthHandler(translation domain.TranslationService) *HealthHandler {
	return &HealthHandler{translation: translation}
}

// Check handles GET /health. The codec has no external dependency, so the
// process being able to answer is the health signal; translation is reported
// but never fails the probe.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	translation := "disabled"
	if h.translation != nil && h.translation.Enabled() {
		translation = "enabled"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "healthy",
		"translation": translation,
	})
}
