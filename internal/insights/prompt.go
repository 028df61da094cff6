package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"finpulse/internal/core"
)

// buildPrompt serializes the recent transactions and goals into the advisor
// prompt. The caller decides how many transactions "recent" means.
func buildPrompt(txns []core.Transaction, goals []core.Goal) (string, error) {
	txnJSON, err := json.Marshal(txns)
	if err != nil {
		return "", fmt.Errorf("marshal transactions: %w", err)
	}
	goalJSON, err := json.Marshal(goals)
	if err != nil {
		return "", fmt.Errorf("marshal goals: %w", err)
	}

	var b strings.Builder
	b.WriteString("Act as an expert personal finance advisor. Analyze the following financial data and provide 3-4 concise, actionable observations or tips.\n\n")
	b.WriteString("Transactions: ")
	b.Write(txnJSON)
	b.WriteString("\nGoals: ")
	b.Write(goalJSON)
	b.WriteString("\n\nAmounts are integer cents. Focus on spending patterns, debt management, and goal progress.\n")
	b.WriteString("Return the response as a valid JSON array of strings.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")

	return b.String(), nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only the outermost JSON array if there is still text around it.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
