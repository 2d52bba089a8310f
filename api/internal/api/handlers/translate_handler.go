package handlers

import (
	"net/http"

	"github.com/Poojareddy2809/shadowshare/api/internal/core/domain"
)

type TranslateRequest struct {
	Text       string `json:"text" validate:"max=5000"`
	TargetLang string `json:"targetLang" validate:"max=64"`
}

type TranslateHandler struct {
	Service domain.TranslationService
}

func NewTranslateHandler(service domain.TranslationService) *TranslateHandler {
	return &TranslateHandler{Service: service}
}

// Translate handles POST /api/v1/translate
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := decodeJSON(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	res, err := h.Service.Translate(r.Context(), domain.TranslationRequest{
		Text:       req.Text,
		TargetLang: req.TargetLang,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
