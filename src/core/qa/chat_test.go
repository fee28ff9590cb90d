package qa_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tracerag/src/core/qa"
	"tracerag/src/storage/postgres/chatctrl"
)

type fakeHistory struct {
	messages []chatctrl.ChatMessage
}

func (f *fakeHistory) Save(_ context.Context, msg *chatctrl.ChatMessage) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeHistory) ListBySession(_ context.Context, sessionID string) ([]chatctrl.ChatMessage, error) {
	var out []chatctrl.ChatMessage
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeSearcher struct {
	chunks []qa.SearchResultChunk
	err    error
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ []string, _ qa.SearchMode, _ int) ([]qa.SearchResultChunk, error) {
	return f.chunks, f.err
}

type fakeReasoner struct {
	answer     string
	lastPrompt string
	lastSystem string
}

func (f *fakeReasoner) Reasoning(_ context.Context, system, prompt string) (string, error) {
	f.lastSystem = system
	f.lastPrompt = prompt
	return f.answer, nil
}

func (f *fakeReasoner) TextSplit(_ context.Context, text string, _, _ int) ([]string, error) {
	return []string{text}, nil
}

func TestGenerateCompletionSavesBothTurns(t *testing.T) {
	history := &fakeHistory{}
	searcher := &fakeSearcher{chunks: []qa.SearchResultChunk{
		{ChunkID: "doc-1_c0", Content: "The warranty lasts two years."},
	}}
	reasoner := &fakeReasoner{answer: "Two years."}

	service := qa.NewChatService(history, searcher, reasoner)
	msg, err := service.GenerateCompletion(context.Background(), "session-1", nil, "How long is the warranty?")
	if err != nil {
		t.Fatalf("GenerateCompletion returned error: %v", err)
	}

	if msg.Role != "assistant" || msg.Content != "Two years." {
		t.Errorf("got message %+v", msg)
	}
	if msg.SessionID != "session-1" {
		t.Errorf("session id = %q", msg.SessionID)
	}

	if len(history.messages) != 2 {
		t.Fatalf("saved %d messages, want 2", len(history.messages))
	}
	if history.messages[0].Role != "user" || history.messages[0].Content != "How long is the warranty?" {
		t.Errorf("first saved message = %+v", history.messages[0])
	}
	if history.messages[1].Role != "assistant" || history.messages[1].Content != "Two years." {
		t.Errorf("second saved message = %+v", history.messages[1])
	}
}

func TestGenerateCompletionPromptCarriesContext(t *testing.T) {
	history := &fakeHistory{}
	searcher := &fakeSearcher{chunks: []qa.SearchResultChunk{
		{ChunkID: "doc-1_c0", Content: "Alpha passage."},
		{ChunkID: "doc-1_c1", Content: "Beta passage."},
	}}
	reasoner := &fakeReasoner{answer: "ok"}

	service := qa.NewChatService(history, searcher, reasoner)
	if _, err := service.GenerateCompletion(context.Background(), "s", nil, "What is alpha?"); err != nil {
		t.Fatalf("GenerateCompletion returned error: %v", err)
	}

	for _, want := range []string{"[doc-1_c0]", "Alpha passage.", "[doc-1_c1]", "Question: What is alpha?"} {
		if !strings.Contains(reasoner.lastPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, reasoner.lastPrompt)
		}
	}
	if reasoner.lastSystem == "" {
		t.Error("system prompt was empty")
	}
}

func TestGenerateCompletionTrimsHistory(t *testing.T) {
	history := &fakeHistory{}
	for i := 0; i < 10; i++ {
		history.messages = append(history.messages, chatctrl.ChatMessage{
			SessionID: "s",
			Role:      "user",
			Content:   fmt.Sprintf("turn-%d", i),
		})
	}
	reasoner := &fakeReasoner{answer: "ok"}

	service := qa.NewChatService(history, &fakeSearcher{}, reasoner)
	if _, err := service.GenerateCompletion(context.Background(), "s", nil, "q"); err != nil {
		t.Fatalf("GenerateCompletion returned error: %v", err)
	}

	if strings.Contains(reasoner.lastPrompt, "turn-3") {
		t.Error("prompt carries turns beyond the history limit")
	}
	for i := 4; i < 10; i++ {
		if !strings.Contains(reasoner.lastPrompt, fmt.Sprintf("turn-%d", i)) {
			t.Errorf("prompt missing recent turn-%d", i)
		}
	}
}

func TestGenerateCompletionAssignsSession(t *testing.T) {
	history := &fakeHistory{}
	service := qa.NewChatService(history, &fakeSearcher{}, &fakeReasoner{answer: "ok"})

	msg, err := service.GenerateCompletion(context.Background(), "", nil, "hello?")
	if err != nil {
		t.Fatalf("GenerateCompletion returned error: %v", err)
	}
	if msg.SessionID == "" {
		t.Fatal("no session id assigned")
	}
	for _, saved := range history.messages {
		if saved.SessionID != msg.SessionID {
			t.Errorf("saved message session = %q, want %q", saved.SessionID, msg.SessionID)
		}
	}
}

func TestGenerateCompletionRejectsEmptyQuestion(t *testing.T) {
	service := qa.NewChatService(&fakeHistory{}, &fakeSearcher{}, &fakeReasoner{})

	for _, question := range []string{"", "   ", "\n"} {
		if _, err := service.GenerateCompletion(context.Background(), "s", nil, question); !errors.Is(err, qa.ErrInvalidRequest) {
			t.Errorf("question %q: error = %v, want ErrInvalidRequest", question, err)
		}
	}
}

func TestGetHistory(t *testing.T) {
	history := &fakeHistory{messages: []chatctrl.ChatMessage{
		{SessionID: "s", MessageID: "m1", Role: "user", Content: "hi"},
		{SessionID: "s", MessageID: "m2", Role: "assistant", Content: "hello"},
		{SessionID: "other", MessageID: "m3", Role: "user", Content: "unrelated"},
	}}
	service := qa.NewChatService(history, &fakeSearcher{}, &fakeReasoner{})

	messages, err := service.GetHistory(context.Background(), "s")
	if err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].MessageID != "m1" || messages[1].MessageID != "m2" {
		t.Errorf("got messages %+v", messages)
	}
}

// An unknown session is not an error, just an empty history.
func TestGetHistoryUnknownSession(t *testing.T) {
	service := qa.NewChatService(&fakeHistory{}, &fakeSearcher{}, &fakeReasoner{})

	messages, err := service.GetHistory(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("got %d messages, want 0", len(messages))
	}
}
