package hadith

import (
	"fmt"
	"strings"
	"time"
)

// Hadith is a single narration served by the application.
// Corresponds to the 'hadiths' table.
type Hadith struct {
	ID           string    `json:"id"`
	ArabicText   string    `json:"arabicText,omitempty"`
	Text         string    `json:"text"` // Translated text
	Narrator     string    `json:"narrator"`
	Book         string    `json:"book"`
	BookNumber   int       `json:"bookNumber,omitempty"`
	HadithNumber int       `json:"hadithNumber,omitempty"`
	Chapter      string    `json:"chapter,omitempty"`
	Category     string    `json:"category,omitempty"`
	Difficulty   string    `json:"difficulty,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks the fields every stored hadith must carry.
func (h *Hadith) Validate() error {
	if h == nil {
		return fmt.Errorf("hadith is nil")
	}
	if strings.TrimSpace(h.ID) == "" {
		return fmt.Errorf("hadith id is empty")
	}
	if strings.TrimSpace(h.Narrator) == "" {
		return fmt.Errorf("hadith %s: narrator is empty", h.ID)
	}
	if strings.TrimSpace(h.Text) == "" {
		return fmt.Errorf("hadith %s: text is empty", h.ID)
	}
	if strings.TrimSpace(h.Book) == "" {
		return fmt.Errorf("hadith %s: book reference is empty", h.ID)
	}
	return nil
}

// Reference renders the source-book reference, e.g. "Sahih al-Bukhari, Book 1, Hadith 1".
func (h *Hadith) Reference() string {
	var b strings.Builder
	b.WriteString(h.Book)
	if h.BookNumber > 0 {
		fmt.Fprintf(&b, ", Book %d", h.BookNumber)
	}
	if h.HadithNumber > 0 {
		fmt.Fprintf(&b, ", Hadith %d", h.HadithNumber)
	}
	return b.String()
}
