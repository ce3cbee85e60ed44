package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"docqa/internal/contextutil"
	"docqa/internal/service"
)

// Multipart form fields accepted by POST /qa.
const (
	QuestionsField = "questions_file"
	DocumentField  = "document_file"
)

// QAHandler handles document question answering uploads.
type QAHandler struct {
	qaService      service.QAService
	renderer       *AnswerRenderer
	maxUploadBytes int64
}

// NewQAHandler creates a new QAHandler. maxUploadBytes bounds the whole request body.
func NewQAHandler(qaService service.QAService, renderer *AnswerRenderer, maxUploadBytes int64) *QAHandler {
	return &QAHandler{
		qaService:      qaService,
		renderer:       renderer,
		maxUploadBytes: maxUploadBytes,
	}
}

// QAEnvelope wraps answers when ?envelope=true is requested.
type QAEnvelope struct {
	Answers map[string]string `json:"answers"`
}

// ServeHTTP handles POST /qa.
//
// The response is a JSON object mapping each question to its answer. With
// ?envelope=true the object is nested under "answers"; with ?format=html the
// answers are rendered as an HTML page.
func (h *QAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	questionsPath, err := saveUpload(r, QuestionsField)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer removeTemp(r, questionsPath)

	documentPath, err := saveUpload(r, DocumentField)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer removeTemp(r, documentPath)

	logger.InfoContext(ctx, "files saved", "questions", questionsPath, "document", documentPath)

	resp, err := h.qaService.Answer(ctx, service.QARequest{
		QuestionsPath: questionsPath,
		DocumentPath:  documentPath,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process Q&A request")
		return
	}

	query := r.URL.Query()
	switch {
	case query.Get("format") == "html":
		var buf bytes.Buffer
		if err := h.renderer.RenderAnswers(&buf, resp.Answers); err != nil {
			logger.ErrorContext(ctx, "failed to render answers", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to render answers")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	case query.Get("envelope") == "true":
		writeJSON(ctx, w, http.StatusOK, QAEnvelope{Answers: resp.Answers})
	default:
		writeJSON(ctx, w, http.StatusOK, resp.Answers)
	}
}

// saveUpload copies a multipart file field to a temp file that keeps the
// uploaded file's extension, and returns its path.
func saveUpload(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", fmt.Errorf("%s is required", field)
		}
		return "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer func() {
		_ = file.Close()
	}()

	return copyToTemp(file, header)
}

func copyToTemp(src multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "docqa-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return tmp.Name(), nil
}

func removeTemp(r *http.Request, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		ctx := r.Context()
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to remove temp file", "path", path, "error", err)
	}
}
