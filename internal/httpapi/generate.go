package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/internal/service/generate"
	"github.com/testhr/llamagate/pkg/log"
)

const maxUploadBytes = 32 << 20

type generateBody struct {
	Prompt       string `json:"prompt"`
	Model        string `json:"model"`
	MaxNewTokens int    `json:"max_new_tokens"`
	SessionID    string `json:"session_id"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := parseGenerateRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		status, message := mapGenerateError(err)
		if status >= http.StatusInternalServerError {
			log.FromCtx(r.Context()).Error().Err(err).Msg("generation failed")
		}
		respondError(w, status, message)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"response":   resp.Text,
		"session_id": resp.SessionID,
	})
}

// parseGenerateRequest accepts either a JSON body or a multipart form
// with the same field names plus an optional "file" part.
func parseGenerateRequest(r *http.Request) (generate.Request, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return parseMultipartGenerate(r)
	}

	var body generateBody
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxUploadBytes)).Decode(&body); err != nil {
		return generate.Request{}, errors.New("Invalid request body")
	}
	return generate.Request{
		Prompt:       body.Prompt,
		Model:        body.Model,
		MaxNewTokens: body.MaxNewTokens,
		SessionID:    body.SessionID,
	}, nil
}

func parseMultipartGenerate(r *http.Request) (generate.Request, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return generate.Request{}, errors.New("Invalid multipart form")
	}

	req := generate.Request{
		Prompt:    r.FormValue("prompt"),
		Model:     r.FormValue("model"),
		SessionID: r.FormValue("session_id"),
	}
	if v := r.FormValue("max_new_tokens"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return generate.Request{}, errors.New("max_new_tokens must be an integer")
		}
		req.MaxNewTokens = n
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		content, readErr := io.ReadAll(file)
		if readErr != nil {
			return generate.Request{}, errors.New("Failed to read uploaded file")
		}
		req.Filename = header.Filename
		req.FileContent = content
	} else if !errors.Is(err, http.ErrMissingFile) {
		return generate.Request{}, errors.New("Invalid file upload")
	}

	return req, nil
}

func mapGenerateError(err error) (int, string) {
	var (
		unsupported  *core.UnsupportedInputError
		invalidModel *core.InvalidModelError
		extraction   *core.ExtractionError
		completion   *core.CompletionError
		storage      *core.StorageError
	)

	switch {
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, unsupported.Error()
	case errors.As(err, &invalidModel):
		return http.StatusBadRequest, invalidModel.Error()
	case errors.As(err, &extraction):
		return http.StatusBadRequest, extraction.Error()
	case errors.As(err, &completion):
		return http.StatusBadGateway, "Completion service unavailable"
	case errors.As(err, &storage):
		return http.StatusInternalServerError, "Internal storage error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
