package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Poojareddy2809/shadowshare/api/internal/core/domain"
)

// multipartMemory is how much of a multipart form is buffered in RAM; the
// rest spills to temp files. The body itself is capped by MaxBytes.
const multipartMemory = 8 << 20

// expiredMessage is shown in place of content once an envelope has expired.
const expiredMessage = "This message has expired."

// ==============================================================================
// 1. Request Payloads (Input Validation)
// ==============================================================================

type EncryptRequest struct {
	Text      string `json:"text" validate:"max=100000"`
	Image     string `json:"image" validate:"omitempty,datauri"`
	Password  string `json:"password" validate:"max=1024"`
	TimeLimit int    `json:"time_limit" validate:"min=0,max=525600"` // minutes, up to a year
}

type DecryptRequest struct {
	Ciphertext string `json:"ciphertext" validate:"max=20000000"`
	Password   string `json:"password" validate:"max=1024"`
}

type EncryptResponse struct {
	Ciphertext string     `json:"ciphertext"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type DecryptResponse struct {
	Text    string `json:"text,omitempty"`
	Image   string `json:"image,omitempty"`
	Expired bool   `json:"expired,omitempty"`
	Message string `json:"message,omitempty"`
}

// ==============================================================================
// 2. The Handler Struct (Dependency Injection)
// ==============================================================================

type CryptoHandler struct {
	Service domain.EnvelopeService
	now     func() time.Time
}

func NewCryptoHandler(service domain.EnvelopeService) *CryptoHandler {
	return &CryptoHandler{
		Service: service,
		now:     time.Now,
	}
}

// ==============================================================================
// 3. HTTP Methods
// ==============================================================================

// Encrypt handles POST /api/v1/encrypt
// Accepts JSON or multipart/form-data with an optional "image" file.
func (h *CryptoHandler) Encrypt(w http.ResponseWriter, r *http.Request) {
	var req EncryptRequest
	var err error

	if isMultipart(r) {
		err = parseEncryptForm(r, &req)
	} else {
		err = decodeJSON(r, &req)
	}
	if err != nil {
		HandleError(w, r, err)
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	req.Password = strings.TrimSpace(req.Password)

	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	in := domain.EncryptRequest{
		Text:     req.Text,
		Image:    req.Image,
		Password: req.Password,
	}
	if req.TimeLimit > 0 {
		expiresAt := h.now().Add(time.Duration(req.TimeLimit) * time.Minute)
		in.ExpiresAt = &expiresAt
	}

	ciphertext, err := h.Service.Encode(r.Context(), in)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, EncryptResponse{Ciphertext: ciphertext, ExpiresAt: in.ExpiresAt})
}

// Decrypt handles POST /api/v1/decrypt
func (h *CryptoHandler) Decrypt(w http.ResponseWriter, r *http.Request) {
	var req DecryptRequest
	if err := decodeJSON(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	req.Ciphertext = strings.TrimSpace(req.Ciphertext)
	req.Password = strings.TrimSpace(req.Password)

	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	res, err := h.Service.Decode(r.Context(), domain.DecryptRequest{
		Ciphertext: req.Ciphertext,
		Password:   req.Password,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	// 3. Expiry is a normal outcome, rendered distinctly and without content
	if res.Expired {
		writeJSON(w, http.StatusOK, DecryptResponse{Expired: true, Message: expiredMessage})
		return
	}

	writeJSON(w, http.StatusOK, DecryptResponse{
		Text:  res.Envelope.Text,
		Image: res.Envelope.Image,
	})
}

// ==============================================================================
// 4. Multipart Ingestion
// ==============================================================================

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

func parseEncryptForm(r *http.Request, req *EncryptRequest) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return errInvalidForm
	}
	defer r.MultipartForm.RemoveAll()

	req.Text = r.FormValue("text")
	req.Password = r.FormValue("password")

	if raw := strings.TrimSpace(r.FormValue("time_limit")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: time_limit must be a whole number of minutes", errInvalidForm)
		}
		req.TimeLimit = minutes
	}

	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return errInvalidForm
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	req.Image = toDataURI(data)
	return nil
}

// toDataURI encodes data the way a browser FileReader.readAsDataURL would.
func toDataURI(data []byte) string {
	mediaType := mimetype.Detect(data).String()
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
