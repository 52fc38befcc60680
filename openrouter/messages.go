package openrouter

// buildMessages assembles [system?] + history + [user] and trims the
// oldest history entries while the combined content length exceeds the
// budget. The system message and the final user message are never dropped.
func buildMessages(in Input) []Message {
	history := in.History
	if len(history) > MaxHistoryMessages {
		history = history[len(history)-MaxHistoryMessages:]
	}

	messages := make([]Message, 0, len(history)+2)
	if in.SystemMessage != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: in.SystemMessage})
	}
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: in.UserMessage})

	total := contentLength(messages)
	if total <= messageBudgetChars {
		return messages
	}

	dropIdx := 0
	if in.SystemMessage != "" {
		dropIdx = 1
	}
	for len(messages) > 2 && total > messageBudgetChars {
		messages = append(messages[:dropIdx], messages[dropIdx+1:]...)
		total = contentLength(messages)
	}
	return messages
}

func contentLength(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += len(m.Content)
	}
	return total
}
