package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/meddoc/internal/api"
	"github.com/Veraticus/meddoc/internal/cli"
	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/tui/viewmodel"
)

// toolFailed renders a patient tool failure and returns it as the command error.
func toolFailed(cmd *cobra.Command, op, retry string, err error) error {
	if werr := write(cmd, cli.RenderError(viewmodel.NewErrorView(err), retry)); werr != nil {
		return werr
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate FILE",
		Short: "Rewrite a text document in plain language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocumentText(args[0])
			if err != nil {
				return err
			}
			lang, _ := cmd.Flags().GetString("language")

			a, err := initApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.client.Translate(cmd.Context(), text, lang)
			if err != nil {
				return toolFailed(cmd, api.OpTranslate, "meddoc translate "+args[0], err)
			}
			return write(cmd, cli.RenderTranslation(resp))
		},
	}
	cmd.Flags().String("language", api.DefaultTargetLanguage, "target language or reading level")
	return cmd
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat FILE",
		Short: "Ask questions about a text document",
		Long: `Start an interactive question-and-answer session about a document.
Recent answers are sent along with each question so follow-ups keep their context.
Type 'exit' or press Ctrl+D to finish.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocumentText(args[0])
			if err != nil {
				return err
			}

			a, err := initApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := handler.HandleInterrupts(cmd.Context(), "Chat", "meddoc chat "+args[0])

			if err := write(cmd, cli.FormatTitle(cli.AppIcon+"  Document Q&A")+"\n"); err != nil {
				return err
			}
			prompter := cli.NewChatPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return prompter.Run(ctx, func(ctx context.Context, question string, history []model.ChatTurn) (model.ChatResponse, error) {
				return a.client.Chat(ctx, text, question, history)
			})
		},
	}
}

func medicationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "medications FILE",
		Aliases: []string{"meds"},
		Short:   "List the medications mentioned in a text document",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocumentText(args[0])
			if err != nil {
				return err
			}

			a, err := initApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.client.ExtractMedications(cmd.Context(), text)
			if err != nil {
				return toolFailed(cmd, api.OpExtractMedications, "meddoc medications "+args[0], err)
			}
			return write(cmd, cli.RenderMedications(resp))
		},
	}
}

func interactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactions [MEDICATION...]",
		Short: "Check medications for interactions",
		Long: `Check two or more medications for interactions. Name them as arguments,
or pass --file to check the medications found in a text document.`,
		RunE: runInteractions,
	}
	cmd.Flags().String("file", "", "extract the medications from this text document")
	return cmd
}

func runInteractions(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file == "" && len(args) < 2 {
		return fmt.Errorf("name at least two medications, or use --file")
	}

	a, err := initApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	names := cleanNames(args)
	if file != "" {
		text, err := readDocumentText(file)
		if err != nil {
			return err
		}
		meds, err := a.client.ExtractMedications(cmd.Context(), text)
		if err != nil {
			return toolFailed(cmd, api.OpExtractMedications, "meddoc interactions --file "+file, err)
		}
		if err := write(cmd, cli.RenderMedications(meds)+"\n"); err != nil {
			return err
		}
		names = append(names, medicationNames(meds.Medications)...)
	}
	if len(names) < 2 {
		return write(cmd, cli.FormatInfo("Fewer than two medications to compare")+"\n")
	}

	resp, err := a.client.CheckInteractions(cmd.Context(), names)
	if err != nil {
		return toolFailed(cmd, api.OpCheckInteractions, "meddoc interactions "+strings.Join(names, " "), err)
	}
	return write(cmd, cli.RenderInteractions(resp))
}

func cleanNames(args []string) []string {
	names := make([]string, 0, len(args))
	for _, a := range args {
		if n := strings.TrimSpace(a); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func actionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "actions FILE",
		Aliases: []string{"next-steps"},
		Short:   "Suggest next steps and questions for the doctor",
		Long: `Suggest action items, questions and reminders for a text document.
Pass --document to include the ICD-10 codes found for an uploaded document.`,
		Args: cobra.ExactArgs(1),
		RunE: runActions,
	}
	cmd.Flags().String("document", "", "uploaded document ID whose codes are included")
	return cmd
}

func runActions(cmd *cobra.Command, args []string) error {
	text, err := readDocumentText(args[0])
	if err != nil {
		return err
	}

	a, err := initApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var codes []model.ICD10Code
	if ref, _ := cmd.Flags().GetString("document"); ref != "" {
		id, err := parseDocumentID(ref)
		if err != nil {
			return err
		}
		doc, err := a.client.GetDocument(cmd.Context(), id)
		if err != nil {
			return toolFailed(cmd, api.OpGetDocument, "meddoc actions "+args[0]+" --document "+ref, err)
		}
		if doc.Results != nil {
			codes = doc.Results.Codes.Codes
		}
	}

	resp, err := a.client.ActionItems(cmd.Context(), text, codes)
	if err != nil {
		return toolFailed(cmd, api.OpActionItems, "meddoc actions "+args[0], err)
	}
	return write(cmd, cli.RenderActionItems(resp))
}
