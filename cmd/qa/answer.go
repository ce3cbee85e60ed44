package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docqa/internal/app"
	"docqa/internal/client"
	"docqa/internal/config"
	"docqa/internal/service"
)

func newAnswerCmd() *cobra.Command {
	var (
		questionsPath string
		documentPath  string
		server        string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "answer",
		Short: "Answer every question in a questions file",
		Long: `Answer every question in a JSON questions file using a PDF or JSON document
as the only source of context. With --server the files are uploaded to
POST /qa; otherwise the pipeline runs locally.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			ctx := cmd.Context()
			var (
				answers map[string]string
				err     error
			)
			if server != "" {
				answers, err = client.New(server).Answer(ctx, questionsPath, documentPath)
			} else {
				answers, err = answerLocally(ctx, questionsPath, documentPath)
			}
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), output, answers)
		},
	}

	cmd.Flags().StringVarP(&questionsPath, "questions", "q", "", "questions file (.json)")
	cmd.Flags().StringVarP(&documentPath, "document", "d", "", "document file (.pdf or .json)")
	cmd.Flags().StringVar(&server, "server", "", "API server base URL; runs locally when empty")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or yaml")
	_ = cmd.MarkFlagRequired("questions")
	_ = cmd.MarkFlagRequired("document")

	return cmd
}

func answerLocally(ctx context.Context, questionsPath, documentPath string) (map[string]string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	factory, qdrantStore, err := app.OpenVectorStore(cfg)
	if err != nil {
		return nil, err
	}
	if qdrantStore != nil {
		defer func() {
			_ = qdrantStore.Close()
		}()
	}

	qa, err := app.NewQAService(cfg, factory)
	if err != nil {
		return nil, err
	}

	resp, err := qa.Answer(ctx, service.QARequest{
		QuestionsPath: questionsPath,
		DocumentPath:  documentPath,
	})
	if err != nil {
		return nil, err
	}
	return resp.Answers, nil
}
