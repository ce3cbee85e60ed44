package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_qa_service.go -package=mocks docqa/internal/service QAService,IndexBuilder

import (
	"context"
	"errors"
	"fmt"

	"docqa/internal/contextutil"
	"docqa/internal/document"
	"docqa/internal/indexer"
	"docqa/internal/rag"
	"docqa/internal/vectorstore"
)

// QARequest names the uploaded files to answer from.
type QARequest struct {
	QuestionsPath string
	DocumentPath  string
}

// QAResponse maps each distinct question to its answer.
type QAResponse struct {
	Answers map[string]string
}

// QAService answers a questions file against a document.
type QAService interface {
	Answer(ctx context.Context, req QARequest) (QAResponse, error)
}

// IndexBuilder builds a request-scoped vector index from chunks.
type IndexBuilder interface {
	BuildIndex(ctx context.Context, chunks []indexer.Chunk) (vectorstore.Index, error)
}

// qaService implements QAService.
type qaService struct {
	splitter *indexer.RecursiveSplitter
	builder  IndexBuilder
	engine   rag.Engine
}

// NewQAService creates a new QAService.
func NewQAService(splitter *indexer.RecursiveSplitter, builder IndexBuilder, engine rag.Engine) QAService {
	return &qaService{
		splitter: splitter,
		builder:  builder,
		engine:   engine,
	}
}

// Answer loads, chunks, and indexes the document, then answers every question.
// The index is released before Answer returns.
func (s *qaService) Answer(ctx context.Context, req QARequest) (QAResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	questions, err := document.LoadQuestions(req.QuestionsPath)
	if err != nil {
		logger.WarnContext(ctx, "failed to load questions", "error", err)
		return QAResponse{}, WrapError(err, "failed to load questions")
	}
	if len(questions) == 0 {
		return QAResponse{}, fmt.Errorf("%w: no questions found in file", ErrEmptyInput)
	}
	logger.InfoContext(ctx, "loaded questions", "count", len(questions))

	units, err := document.Load(req.DocumentPath)
	if err != nil {
		logger.WarnContext(ctx, "failed to load document", "error", err)
		return QAResponse{}, WrapError(err, "failed to load document")
	}
	if len(units) == 0 {
		return QAResponse{}, fmt.Errorf("%w: no content found in document", ErrEmptyInput)
	}
	logger.InfoContext(ctx, "loaded document", "units", len(units))

	chunks := s.splitter.SplitUnits(units)
	if len(chunks) == 0 {
		return QAResponse{}, fmt.Errorf("%w: document has no text to index", ErrEmptyInput)
	}
	stats := indexer.ComputeChunkStats(chunks)
	logger.InfoContext(ctx, "chunked document",
		"chunks", stats.Count,
		"min_chars", stats.MinChars,
		"max_chars", stats.MaxChars,
		"mean_chars", stats.MeanChars,
		"p95_chars", stats.P95Chars,
		"approx_tokens", stats.ApproxTokens,
	)

	idx, err := s.builder.BuildIndex(ctx, chunks)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return QAResponse{}, err
		}
		logger.ErrorContext(ctx, "failed to build index", "error", err)
		return QAResponse{}, fmt.Errorf("%w: failed to build index: %w", ErrExternalService, err)
	}
	defer func() {
		if err := idx.Close(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "failed to release index", "error", err)
		}
	}()

	answers, err := s.engine.AnswerAll(ctx, idx, questions)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return QAResponse{}, err
		}
		logger.ErrorContext(ctx, "failed to answer questions", "error", err)
		return QAResponse{}, fmt.Errorf("%w: failed to answer questions: %w", ErrExternalService, err)
	}

	logger.InfoContext(ctx, "qa request completed", "questions", len(questions), "answers", len(answers))
	return QAResponse{Answers: answers}, nil
}
