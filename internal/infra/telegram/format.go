package telegram

import (
	"html"
	"strings"

	"hadith_master/internal/domain/hadith"
)

// FormatHadith renders a hadith as a Telegram HTML message.
func FormatHadith(h *hadith.Hadith) string {
	var b strings.Builder
	b.WriteString("📖 <b>Hadith of the Day</b>\n\n")
	if h.ArabicText != "" {
		b.WriteString(html.EscapeString(h.ArabicText))
		b.WriteString("\n\n")
	}
	b.WriteString("<i>")
	b.WriteString(html.EscapeString(h.Text))
	b.WriteString("</i>\n\n")
	b.WriteString("Narrated by ")
	b.WriteString(html.EscapeString(h.Narrator))
	b.WriteString("\n")
	b.WriteString(html.EscapeString(h.Reference()))
	if h.Chapter != "" {
		b.WriteString(" · ")
		b.WriteString(html.EscapeString(h.Chapter))
	}
	if len(h.Tags) > 0 {
		b.WriteString("\n")
		for i, tag := range h.Tags {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString("#")
			b.WriteString(html.EscapeString(strings.ReplaceAll(tag, " ", "_")))
		}
	}
	return b.String()
}
