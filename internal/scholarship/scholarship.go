// Package scholarship implements scholarship record parsing, time-window
// resolution and deadline/status filtering over the CTSV portal data.
package scholarship

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/ctsv"
	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/webpage"
)

// DeadlineLayout is the portal's deadline format.
const DeadlineLayout = "2006-01-02 15:04:05"

// Scholarship is one parsed scholarship record. Records are rebuilt from each
// crawl response and never cached.
type Scholarship struct {
	ID          int
	Title       string
	Deadline    *time.Time // nil when missing or unparseable
	Amount      string
	Quantity    int
	TypeInfo    string
	Contact     string
	Description string // plain text, markup stripped
}

// Parse builds a Scholarship from a raw portal record. An unparseable
// deadline yields a nil Deadline rather than an error.
func Parse(raw ctsv.RawScholarship) Scholarship {
	s := Scholarship{
		ID:       raw.DocumentID,
		Title:    raw.Title,
		Amount:   raw.TotalPrice,
		Quantity: raw.Quantity,
		TypeInfo: raw.TypeInfo,
		Contact:  raw.ContactEmail,
	}

	if raw.Deadline != "" {
		if dl, err := time.ParseInLocation(DeadlineLayout, raw.Deadline, time.Local); err == nil {
			s.Deadline = &dl
		}
	}

	if raw.Content != "" {
		if text, err := webpage.ExtractText(strings.NewReader(raw.Content)); err == nil {
			s.Description = text
		} else {
			s.Description = raw.Content
		}
	}

	return s
}

// Active reports whether the application deadline is still in the future.
// A record without a deadline is never active.
func (s Scholarship) Active(now time.Time) bool {
	return s.Deadline != nil && now.Before(*s.Deadline)
}

var extraNewlines = regexp.MustCompile(`\n{2,}`)

// FormatFull renders the record as a single human-readable string, the shape
// the decision oracle receives as a tool result.
func (s Scholarship) FormatFull(now time.Time) string {
	deadline := "Không có"
	if s.Deadline != nil {
		deadline = s.Deadline.Format("15:04:05 02/01/2006")
	}
	status := "Hết hạn"
	if s.Active(now) {
		status = "Còn hạn"
	}
	contact := s.Contact
	if contact == "" {
		contact = "Không có"
	}

	parts := []string{
		"Tiêu đề: " + s.Title,
		"ID: " + strconv.Itoa(s.ID),
		"Loại học bổng: " + s.TypeInfo,
		"Giá trị: " + s.Amount,
		"Số lượng: " + strconv.Itoa(s.Quantity) + " suất",
		"Hạn nộp: " + deadline,
		"Trạng thái: " + status,
		"Email liên hệ: " + contact,
		"--------------------",
		"Nội dung chi tiết:",
		s.Description,
	}

	full := strings.Join(parts, "\n")
	return strings.TrimSpace(extraNewlines.ReplaceAllString(full, "\n"))
}
