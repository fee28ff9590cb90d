package qa

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tracerag/src/storage/postgres/chatctrl"
)

// Reasoner generates completions and trims text to a token budget.
type Reasoner interface {
	Reasoning(ctx context.Context, system string, prompt string) (string, error)
	TextSplit(ctx context.Context, text string, chunkSize, chunkOverlap int) ([]string, error)
}

// HistoryStore persists chat turns. *chatctrl.ChatService implements it.
type HistoryStore interface {
	Save(ctx context.Context, msg *chatctrl.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string) ([]chatctrl.ChatMessage, error)
}

const (
	// contextTokenBudget caps how much retrieved text goes into the
	// prompt.
	contextTokenBudget = 3000
	// historyTurnLimit caps how many prior messages the prompt carries.
	historyTurnLimit = 6
	// contextChunkLimit caps how many chunks are retrieved per question.
	contextChunkLimit = 8
)

const systemPrompt = "You are a question answering assistant. Answer using only the " +
	"provided context passages. If the context does not contain the answer, say so. " +
	"Cite passages by their chunk id when you use them."

type chatService struct {
	history  HistoryStore
	searcher SearchService
	reasoner Reasoner
}

func NewChatService(history HistoryStore, searcher SearchService, reasoner Reasoner) ChatService {
	return &chatService{
		history:  history,
		searcher: searcher,
		reasoner: reasoner,
	}
}

func (s *chatService) GenerateCompletion(ctx context.Context, sessionID string, documentIDs []string, question string) (*ChatMessage, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidRequest)
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	previous, err := s.history.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	userMsg := &chatctrl.ChatMessage{
		SessionID: sessionID,
		MessageID: uuid.New().String(),
		Role:      "user",
		Content:   question,
	}
	if err := s.history.Save(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	contextChunks, err := s.searcher.Search(ctx, question, documentIDs, SearchModeVector, contextChunkLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get context: %w", err)
	}

	prompt, err := s.formatPrompt(ctx, previous, contextChunks, question)
	if err != nil {
		return nil, err
	}

	completion, err := s.reasoner.Reasoning(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}

	assistantMsg := &chatctrl.ChatMessage{
		SessionID: sessionID,
		MessageID: uuid.New().String(),
		Role:      "assistant",
		Content:   completion,
	}
	if err := s.history.Save(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}

	return &ChatMessage{
		SessionID: sessionID,
		MessageID: assistantMsg.MessageID,
		Content:   completion,
		Role:      "assistant",
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	records, err := s.history.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	messages := make([]ChatMessage, 0, len(records))
	for _, r := range records {
		messages = append(messages, ChatMessage{
			SessionID: r.SessionID,
			MessageID: r.MessageID,
			Content:   r.Content,
			Role:      r.Role,
			CreatedAt: r.CreatedAt,
		})
	}
	return messages, nil
}

// formatPrompt assembles context passages and recent history into the
// final prompt, trimming the context block to the token budget.
func (s *chatService) formatPrompt(ctx context.Context, history []chatctrl.ChatMessage, contextChunks []SearchResultChunk, question string) (string, error) {
	var contextBlock strings.Builder
	for _, chunk := range contextChunks {
		fmt.Fprintf(&contextBlock, "[%s]\n%s\n\n", chunk.ChunkID, chunk.Content)
	}

	contextText := strings.TrimSpace(contextBlock.String())
	if contextText != "" {
		pieces, err := s.reasoner.TextSplit(ctx, contextText, contextTokenBudget, 0)
		if err != nil {
			return "", fmt.Errorf("failed to trim context: %w", err)
		}
		if len(pieces) > 0 {
			contextText = pieces[0]
		}
	}

	var sb strings.Builder
	if contextText != "" {
		sb.WriteString("Context passages:\n\n")
		sb.WriteString(contextText)
		sb.WriteString("\n\n")
	}

	if len(history) > historyTurnLimit {
		history = history[len(history)-historyTurnLimit:]
	}
	if len(history) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, msg := range history {
			fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Question: %s\nAnswer:", question)
	return sb.String(), nil
}
