package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kross8/rag-api/internal/domain"
	"github.com/Kross8/rag-api/internal/port"
)

// FallbackAnswer is the sentence the generator is instructed to produce when
// the retrieved context does not contain the answer.
const FallbackAnswer = "I don't have enough information to answer that."

// RefusalAnswer replaces any generated answer that fails grounding
// verification. The original answer is never returned in that case.
const RefusalAnswer = "I'm sorry, but I couldn't find a fully verified answer in my knowledge base."

// QueryService runs the retrieve → generate → verify pipeline. The three
// stages are strictly sequential and any stage error fails the whole query;
// only a failed verification is turned into a successful-but-redacted result.
type QueryService struct {
	embedder  port.Embedder
	store     port.VectorStore
	completer port.Completer

	topK       int
	genTemp    float64
	verifyTemp float64
}

// NewQueryService creates the query pipeline with its retrieval and sampling
// parameters.
func NewQueryService(embedder port.Embedder, store port.VectorStore, completer port.Completer, topK int, genTemp, verifyTemp float64) *QueryService {
	return &QueryService{
		embedder:   embedder,
		store:      store,
		completer:  completer,
		topK:       topK,
		genTemp:    genTemp,
		verifyTemp: verifyTemp,
	}
}

// Answer resolves a question against the knowledge base.
func (s *QueryService) Answer(ctx context.Context, question string) (domain.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return domain.QueryResult{}, fmt.Errorf("%w: question is empty", port.ErrInvalidInput)
	}

	slog.Info("query", "question", question)

	// Stage A: retrieval. An empty index is allowed; the pipeline proceeds
	// with empty context. No similarity threshold is applied.
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("embed question: %w", err)
	}

	matches, err := s.store.Search(ctx, vector, s.topK)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("search chunks: %w", err)
	}

	contexts := make([]string, len(matches))
	for i, m := range matches {
		contexts[i] = m.Text
	}
	combined := strings.Join(contexts, "\n\n")

	// Stage B: grounded generation at the default (non-zero) temperature.
	answer, err := s.completer.Complete(ctx, []port.Message{
		{Role: "system", Content: generationPrompt(combined)},
		{Role: "user", Content: question},
	}, s.genTemp)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("generate answer: %w", err)
	}

	// Stage C: grounding verification at temperature 0. Runs even when the
	// answer is the fallback sentence.
	verdict, err := s.completer.Complete(ctx, []port.Message{
		{Role: "user", Content: verificationPrompt(combined, answer)},
	}, s.verifyTemp)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("verify answer: %w", err)
	}

	grounded := IsGrounded(verdict)
	if !grounded {
		slog.Warn("answer failed grounding verification", "question", question, "verdict", strings.TrimSpace(verdict))
		answer = RefusalAnswer
	}

	return domain.QueryResult{
		Question: question,
		Answer:   answer,
		IsSafe:   grounded,
		Contexts: contexts,
	}, nil
}

func generationPrompt(contextText string) string {
	return fmt.Sprintf(`You are a helpful knowledge base assistant.
Use the following retrieved context to answer the user's question accurately.
If the answer cannot be found in the context, say %q

Context:
%s`, FallbackAnswer, contextText)
}

func verificationPrompt(contextText, answer string) string {
	return fmt.Sprintf(`You are a strict safety and ethics evaluator.
Read the provided context and the generated answer.
If the answer contains claims, facts, or numbers not present in the context, output exactly "NO".
If the answer is completely supported by the context, output exactly "YES".

Context: %s

Answer: %s`, contextText, answer)
}
