package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

const pageStyle = `
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    section {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 1.5rem 2rem;
      margin-bottom: 1.5rem;
    }
    section h2 {
      color: #c7d2fe;
      font-size: 1.15rem;
      margin-top: 0;
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
      background: rgba(99, 102, 241, 0.18);
      padding: 2px 5px;
      border-radius: 6px;
    }
    label {
      display: block;
      margin: 1rem 0 0.25rem;
      color: #94a3b8;
    }
    button {
      margin-top: 1.5rem;
      padding: 0.5rem 1.25rem;
      border-radius: 8px;
      border: 1px solid rgba(99, 102, 241, 0.6);
      background: rgba(99, 102, 241, 0.25);
      color: #fff;
      cursor: pointer;
    }
    a {
      color: #60a5fa;
    }`

var answersTemplate = template.Must(template.New("answers").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Answers</title>
  <style>{{.Style}}</style>
</head>
<body>
  <h1>Answers</h1>
  {{range .Answers}}
  <section>
    <h2>{{.Question}}</h2>
    {{.Answer}}
  </section>
  {{end}}
  <p><a href="/ui">Ask another set</a></p>
</body>
</html>`))

var uploadTemplate = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Document Q&amp;A</title>
  <style>{{.Style}}</style>
</head>
<body>
  <h1>Document Q&amp;A</h1>
  <section>
    <form action="/qa?format=html" method="post" enctype="multipart/form-data">
      <label for="questions_file">Questions (<code>.json</code>)</label>
      <input id="questions_file" name="questions_file" type="file" accept=".json" required>
      <label for="document_file">Document (<code>.pdf</code> or <code>.json</code>)</label>
      <input id="document_file" name="document_file" type="file" accept=".pdf,.json" required>
      <button type="submit">Get answers</button>
    </form>
  </section>
</body>
</html>`))

// answerRow is one rendered question/answer pair.
type answerRow struct {
	Question string
	Answer   template.HTML
}

// AnswerRenderer renders model answers as Markdown into an HTML page.
type AnswerRenderer struct {
	markdown goldmark.Markdown
}

// NewAnswerRenderer creates a renderer. Raw HTML in answers is escaped.
func NewAnswerRenderer() *AnswerRenderer {
	return &AnswerRenderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// RenderAnswers writes an HTML page listing answers sorted by question.
func (r *AnswerRenderer) RenderAnswers(w io.Writer, answers map[string]string) error {
	questions := make([]string, 0, len(answers))
	for q := range answers {
		questions = append(questions, q)
	}
	sort.Strings(questions)

	rows := make([]answerRow, 0, len(questions))
	for _, q := range questions {
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(answers[q]), &buf); err != nil {
			return fmt.Errorf("convert markdown: %w", err)
		}
		rows = append(rows, answerRow{Question: q, Answer: template.HTML(buf.String())})
	}

	return answersTemplate.Execute(w, struct {
		Style   template.CSS
		Answers []answerRow
	}{
		Style:   template.CSS(pageStyle),
		Answers: rows,
	})
}

// RenderUploadForm writes the upload page.
func (r *AnswerRenderer) RenderUploadForm(w io.Writer) error {
	return uploadTemplate.Execute(w, struct {
		Style template.CSS
	}{
		Style: template.CSS(pageStyle),
	})
}
