package rag

import "strings"

// DefaultK is the number of chunks retrieved per question.
const DefaultK = 6

// FallbackAnswer is returned when the model produces no usable reply.
const FallbackAnswer = "Unable to find answer"

const promptTemplate = `Use the following pieces of context to answer the question.
If you cannot find a direct answer in the context, provide the most relevant
information available. Be concise and specific.

Context:
{context}

Question: {question}

Answer:`

// BuildPrompt fills the QA template with retrieved context and the question.
func BuildPrompt(context, question string) string {
	return strings.NewReplacer("{context}", context, "{question}", question).Replace(promptTemplate)
}
