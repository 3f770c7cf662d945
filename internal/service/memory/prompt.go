package memory

import (
	"fmt"
	"strings"
)

const GenericInstruction = "You are a helpful assistant. Use the following conversation history from today to provide a thoughtful, meaningful, and detailed response. History includes all sessions from today, with the current session's history prioritized:\n\n"

const RiskInstruction = "You are a careful risk analyst. Do not invent or fabricate risks that are not supported by the input. If the request is too vague to analyze, ask for more context instead of guessing:\n\n"

const NoEchoInstruction = "Do not repeat the input. Analyze and respond insightfully:\n\n"

func ListRetryInstruction(count int) string {
	return fmt.Sprintf("The previous answer was incomplete. You must respond with a bulleted list containing at least %d items, one per line, each starting with '-':\n\n", count)
}

// InstructionFor picks the instruction for a user input: short risk
// queries get the risk-analysis instruction, everything else the generic
// history-aware one.
func InstructionFor(input string) string {
	if len(strings.Fields(input)) < 5 && strings.Contains(strings.ToLower(input), "risk") {
		return RiskInstruction
	}
	return GenericInstruction
}

// BuildPrompt assembles the final completion prompt. Regeneration calls
// reuse the same history block with a different instruction.
func BuildPrompt(instruction, history, input string) string {
	return instruction + history + "\n\nUser: " + input + "\nAssistant:"
}
