package openrouter

import (
	"strings"
	"testing"
)

func TestBuildMessagesOrder(t *testing.T) {
	msgs := buildMessages(Input{
		SystemMessage: "be helpful",
		History: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
		},
		UserMessage: "final question",
	})

	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[0].Content != "be helpful" {
		t.Errorf("expected system first, got %+v", msgs[0])
	}
	if msgs[3].Role != RoleUser || msgs[3].Content != "final question" {
		t.Errorf("expected user last, got %+v", msgs[3])
	}
}

func TestBuildMessagesNoSystem(t *testing.T) {
	msgs := buildMessages(Input{UserMessage: "only question"})
	if len(msgs) != 1 || msgs[0].Role != RoleUser {
		t.Fatalf("expected single user message, got %+v", msgs)
	}
}

func TestBuildMessagesHistoryWindow(t *testing.T) {
	history := make([]Message, MaxHistoryMessages+10)
	for i := range history {
		history[i] = Message{Role: RoleUser, Content: "m"}
	}
	history[len(history)-1] = Message{Role: RoleAssistant, Content: "newest"}

	msgs := buildMessages(Input{History: history, UserMessage: "q"})
	// history window + final user message
	if len(msgs) != MaxHistoryMessages+1 {
		t.Fatalf("expected %d messages, got %d", MaxHistoryMessages+1, len(msgs))
	}
	if msgs[len(msgs)-2].Content != "newest" {
		t.Error("expected newest history entry kept")
	}
}

func TestBuildMessagesBudgetDropsOldestHistory(t *testing.T) {
	big := strings.Repeat("x", 15000)
	msgs := buildMessages(Input{
		SystemMessage: "sys",
		History: []Message{
			{Role: RoleUser, Content: "oldest " + big},
			{Role: RoleAssistant, Content: "middle " + big},
			{Role: RoleUser, Content: "newest " + big},
		},
		UserMessage: "final",
	})

	if contentLength(msgs) > messageBudgetChars {
		t.Errorf("expected total under budget, got %d", contentLength(msgs))
	}
	if msgs[0].Role != RoleSystem {
		t.Error("system message must survive trimming")
	}
	if last := msgs[len(msgs)-1]; last.Role != RoleUser || last.Content != "final" {
		t.Error("final user message must survive trimming")
	}
	for _, m := range msgs {
		if strings.HasPrefix(m.Content, "oldest") {
			t.Error("oldest history entry should be dropped first")
		}
	}
}

func TestBuildMessagesBudgetKeepsMandatoryPair(t *testing.T) {
	big := strings.Repeat("x", MaxMessageChars)
	msgs := buildMessages(Input{
		SystemMessage: big,
		History:       []Message{{Role: RoleUser, Content: big}},
		UserMessage:   big,
	})

	// Only the system and final user messages remain.
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[1].Role != RoleUser {
		t.Errorf("expected system+user pair, got %+v", msgs)
	}
}
