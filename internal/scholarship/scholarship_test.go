package scholarship

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/ctsv"
)

func TestParse(t *testing.T) {
	raw := ctsv.RawScholarship{
		DocumentID:   42,
		Title:        "Học bổng Trần Đại Nghĩa",
		Deadline:     "2025-09-15 17:00:00",
		TotalPrice:   "5.000.000 VNĐ",
		Quantity:     10,
		TypeInfo:     "Doanh nghiệp",
		Content:      "<p>Dành cho sinh viên có hoàn cảnh khó khăn.</p><script>alert(1)</script>",
		ContactEmail: "ctsv@hust.edu.vn",
	}

	s := Parse(raw)
	if s.ID != 42 || s.Title != raw.Title {
		t.Fatalf("unexpected parse result: %+v", s)
	}
	if s.Deadline == nil || s.Deadline.Format(DeadlineLayout) != "2025-09-15 17:00:00" {
		t.Fatalf("unexpected deadline: %v", s.Deadline)
	}
	if !strings.Contains(s.Description, "hoàn cảnh khó khăn") {
		t.Fatalf("description missing body text: %q", s.Description)
	}
	if strings.Contains(s.Description, "alert") {
		t.Fatalf("description leaked script content: %q", s.Description)
	}
}

func TestParseBadDeadline(t *testing.T) {
	for _, raw := range []string{"", "15/09/2025", "2025-09-15"} {
		s := Parse(ctsv.RawScholarship{DocumentID: 1, Deadline: raw})
		if s.Deadline != nil {
			t.Errorf("deadline %q: expected nil, got %v", raw, s.Deadline)
		}
	}
}

func TestFormatFull(t *testing.T) {
	now := mustTime(t, "2025-08-20 10:30:00")
	s := Scholarship{
		ID:          7,
		Title:       "Học bổng KOVA",
		Deadline:    deadline(t, "2025-09-15 17:00:00"),
		Amount:      "10.000.000 VNĐ",
		Quantity:    5,
		TypeInfo:    "Doanh nghiệp",
		Contact:     "kova@example.com",
		Description: "Chi tiết.\n\n\nNhiều dòng trống.",
	}

	out := s.FormatFull(now)
	for _, want := range []string{
		"Tiêu đề: Học bổng KOVA",
		"ID: 7",
		"Số lượng: 5 suất",
		"Hạn nộp: 17:00:00 15/09/2025",
		"Trạng thái: Còn hạn",
		"--------------------",
		"Nội dung chi tiết:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\n\n") {
		t.Errorf("blank lines not collapsed:\n%s", out)
	}

	s.Deadline = deadline(t, "2025-08-01 17:00:00")
	if out := s.FormatFull(now); !strings.Contains(out, "Trạng thái: Hết hạn") {
		t.Errorf("expected expired status:\n%s", out)
	}

	s.Deadline = nil
	s.Contact = ""
	out = s.FormatFull(now)
	if !strings.Contains(out, "Hạn nộp: Không có") || !strings.Contains(out, "Email liên hệ: Không có") {
		t.Errorf("missing placeholders:\n%s", out)
	}
}

type fakeSource struct {
	records []ctsv.RawScholarship
	err     error
}

func (f *fakeSource) FetchScholarships(ctx context.Context) ([]ctsv.RawScholarship, error) {
	return f.records, f.err
}

func TestServiceLookupCrawlFailure(t *testing.T) {
	svc := NewService(&fakeSource{err: errors.New("portal down")}, nil)
	out := svc.Lookup(context.Background(), "upcoming", "all")
	if len(out) != 1 || out[0] != "Lỗi: Không thể crawl dữ liệu học bổng." {
		t.Fatalf("unexpected crawl failure diagnostic: %v", out)
	}
}

func TestServiceLookupEmptyCrawl(t *testing.T) {
	svc := NewService(&fakeSource{}, nil)
	out := svc.Lookup(context.Background(), "upcoming", "all")
	if len(out) != 1 || out[0] != "Lỗi: Không thể crawl dữ liệu học bổng." {
		t.Fatalf("unexpected empty crawl diagnostic: %v", out)
	}
}

func TestServiceLookupFilters(t *testing.T) {
	svc := NewService(&fakeSource{records: []ctsv.RawScholarship{
		{DocumentID: 1, Title: "Sắp hết hạn", Deadline: time.Now().Add(72 * time.Hour).Format(DeadlineLayout)},
		{DocumentID: 2, Title: "Đã qua lâu", Deadline: "2020-01-01 00:00:00"},
	}}, nil)

	out := svc.Lookup(context.Background(), "upcoming", "open")
	if len(out) != 1 || !strings.Contains(out[0], "Tiêu đề: Sắp hết hạn") {
		t.Fatalf("unexpected lookup result: %v", out)
	}
}
