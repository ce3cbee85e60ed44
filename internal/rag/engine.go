package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks docqa/internal/rag Engine,Embedder,Generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"docqa/internal/contextutil"
	"docqa/internal/llm"
	"docqa/internal/vectorstore"
)

// Engine answers questions against a prepared vector index.
type Engine interface {
	// Answer retrieves context for one question and generates an answer.
	Answer(ctx context.Context, idx vectorstore.Index, question string) (string, error)

	// AnswerAll answers every distinct question and returns answers keyed by question text.
	AnswerAll(ctx context.Context, idx vectorstore.Index, questions []string) (map[string]string, error)
}

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a completion for a conversation.
type Generator interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder    Embedder
	generator   Generator
	k           int
	concurrency int
}

// NewEngine creates a new RAG engine that retrieves k chunks per question and
// answers up to concurrency questions at once.
func NewEngine(embedder Embedder, generator Generator, k, concurrency int) Engine {
	if k <= 0 {
		k = DefaultK
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ragEngine{
		embedder:    embedder,
		generator:   generator,
		k:           k,
		concurrency: concurrency,
	}
}

// Answer answers a single question.
func (e *ragEngine) Answer(ctx context.Context, idx vectorstore.Index, question string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed question", "error", err)
		return "", fmt.Errorf("failed to embed question: %w", err)
	}
	if len(embeddings) == 0 {
		return "", fmt.Errorf("no embedding returned for question")
	}

	results, err := idx.Search(ctx, embeddings[0], e.k)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search index", "error", err)
		return "", fmt.Errorf("failed to search index: %w", err)
	}

	if len(results) > 0 {
		topScores := make([]float32, 0, 3)
		for i := 0; i < len(results) && i < 3; i++ {
			topScores = append(topScores, results[i].Score)
		}
		logger.DebugContext(ctx, "retrieved chunks", "count", len(results), "top_3_scores", topScores)
	}

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}
	prompt := BuildPrompt(strings.Join(contents, "\n\n"), question)

	answer, err := e.generator.ChatWithMessages(ctx, []llm.Message{
		{Role: "user", Content: prompt},
	}, llm.ChatParams{Temperature: 0})
	if errors.Is(err, llm.ErrNoChoices) {
		logger.WarnContext(ctx, "model returned no choices", "question", question)
		return FallbackAnswer, nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return "", fmt.Errorf("failed to get LLM response: %w", err)
	}

	if strings.TrimSpace(answer) == "" {
		return FallbackAnswer, nil
	}

	logger.DebugContext(ctx, "answer generated", "prompt_length", len(prompt), "answer_length", len(answer))
	return answer, nil
}

// AnswerAll answers each distinct question once. The first failure cancels the
// remaining questions and is returned.
func (e *ragEngine) AnswerAll(ctx context.Context, idx vectorstore.Index, questions []string) (map[string]string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	distinct := make([]string, 0, len(questions))
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		distinct = append(distinct, q)
	}
	if len(distinct) < len(questions) {
		logger.WarnContext(ctx, "duplicate questions collapsed", "questions", len(questions), "distinct", len(distinct))
	}

	var mu sync.Mutex
	answers := make(map[string]string, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, q := range distinct {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			answer, err := e.Answer(gctx, idx, q)
			if err != nil {
				return err
			}
			mu.Lock()
			answers[q] = answer
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "questions answered", "count", len(answers))
	return answers, nil
}
