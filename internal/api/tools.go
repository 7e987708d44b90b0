package api

import (
	"context"
	"strings"

	"github.com/Veraticus/meddoc/internal/common"
	"github.com/Veraticus/meddoc/internal/model"
	"github.com/Veraticus/meddoc/internal/schema"
)

// DefaultTargetLanguage asks the backend for a plain-English explanation.
const DefaultTargetLanguage = "simple"

// chatHistoryLimit matches how many prior exchanges the backend folds into its prompt.
const chatHistoryLimit = 3

type translateRequest struct {
	DocumentText   string `json:"document_text"`
	TargetLanguage string `json:"target_language"`
}

type chatRequest struct {
	DocumentText        string           `json:"document_text"`
	Question            string           `json:"question"`
	ConversationHistory []model.ChatTurn `json:"conversation_history,omitempty"`
}

type documentTextRequest struct {
	DocumentText string `json:"document_text"`
}

type interactionsRequest struct {
	Medications []string `json:"medications"`
}

type actionItemsRequest struct {
	DocumentText string            `json:"document_text"`
	Codes        []model.ICD10Code `json:"codes,omitempty"`
}

// Translate rewrites document text for a patient. An empty language means DefaultTargetLanguage.
func (c *Client) Translate(ctx context.Context, documentText, targetLanguage string) (model.TranslateResponse, error) {
	if strings.TrimSpace(documentText) == "" {
		return model.TranslateResponse{}, common.ErrEmptyDocument
	}
	if targetLanguage == "" {
		targetLanguage = DefaultTargetLanguage
	}

	body, err := c.post(ctx, OpTranslate, "/api/translate", translateRequest{
		DocumentText:   documentText,
		TargetLanguage: targetLanguage,
	})
	if err != nil {
		return model.TranslateResponse{}, err
	}
	return schema.DecodeTranslateResponse(body)
}

// Chat asks a question about a document. Only the most recent exchanges of history are sent.
func (c *Client) Chat(ctx context.Context, documentText, question string, history []model.ChatTurn) (model.ChatResponse, error) {
	if strings.TrimSpace(documentText) == "" {
		return model.ChatResponse{}, common.ErrEmptyDocument
	}
	if len(history) > chatHistoryLimit {
		history = history[len(history)-chatHistoryLimit:]
	}

	body, err := c.post(ctx, OpChat, "/api/chat", chatRequest{
		DocumentText:        documentText,
		Question:            question,
		ConversationHistory: history,
	})
	if err != nil {
		return model.ChatResponse{}, err
	}
	return schema.DecodeChatResponse(body)
}

// ExtractMedications lists medications mentioned in a document.
func (c *Client) ExtractMedications(ctx context.Context, documentText string) (model.MedicationsResponse, error) {
	if strings.TrimSpace(documentText) == "" {
		return model.MedicationsResponse{}, common.ErrEmptyDocument
	}

	body, err := c.post(ctx, OpExtractMedications, "/api/extract-medications", documentTextRequest{DocumentText: documentText})
	if err != nil {
		return model.MedicationsResponse{}, err
	}
	return schema.DecodeMedicationsResponse(body)
}

// CheckInteractions checks a set of medication names for interactions.
// Fewer than two medications cannot interact, so no request is made.
func (c *Client) CheckInteractions(ctx context.Context, medications []string) (model.InteractionsResponse, error) {
	if len(medications) < 2 {
		return model.InteractionsResponse{Interactions: []model.Interaction{}, Warnings: []string{}}, nil
	}

	body, err := c.post(ctx, OpCheckInteractions, "/api/check-interactions", interactionsRequest{Medications: medications})
	if err != nil {
		return model.InteractionsResponse{}, err
	}
	return schema.DecodeInteractionsResponse(body)
}

// ActionItems extracts follow-ups, questions and reminders. Codes give the backend extra context.
func (c *Client) ActionItems(ctx context.Context, documentText string, codes []model.ICD10Code) (model.ActionItemsResponse, error) {
	if strings.TrimSpace(documentText) == "" {
		return model.ActionItemsResponse{}, common.ErrEmptyDocument
	}

	body, err := c.post(ctx, OpActionItems, "/api/action-items", actionItemsRequest{
		DocumentText: documentText,
		Codes:        codes,
	})
	if err != nil {
		return model.ActionItemsResponse{}, err
	}
	return schema.DecodeActionItemsResponse(body)
}
