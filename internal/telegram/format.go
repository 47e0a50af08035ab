package telegram

import (
	"fmt"
	"strings"

	"github.com/rewired-gh/boligpris/internal/chart"
	"github.com/rewired-gh/boligpris/internal/models"
)

// formatCaption lists each quarter's value under the category name
func formatCaption(category models.Category, result models.SeriesResult, unit string) string {
	var b strings.Builder
	n := result.Points()

	fmt.Fprintf(&b, "*%s*", escapeMarkdownV2(category.Label))
	if n > 0 {
		fmt.Fprintf(&b, " %s", escapeMarkdownV2(result.Categories[0]+"-"+result.Categories[n-1]))
	}
	b.WriteString("\n\n")

	for i := 0; i < n; i++ {
		line := fmt.Sprintf("%s: %s", result.Categories[i], chart.FormatValue(result.Values[i]))
		if !result.Missing(i) {
			line += " " + unit
		}
		b.WriteString(escapeMarkdownV2(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatHistory renders saved searches oldest first
func formatHistory(records []models.QueryRecord) string {
	if len(records) == 0 {
		return "No saved searches."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d saved searches:\n", len(records))
	for i, r := range records {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return strings.TrimRight(b.String(), "\n")
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
