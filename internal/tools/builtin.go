package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

// Retrieval namespaces of the Pinecone index.
const (
	NamespaceHandbook    = "semantic_chunker"
	NamespaceRegulations = "QCDT2025"
	NamespaceLaw         = "LawVN"
)

// VectorSearcher is the vector search provider contract.
type VectorSearcher interface {
	Search(ctx context.Context, namespace, query string, topK int) ([]string, error)
}

// WebSearcher is the web search provider contract.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// PageFetcher is the page fetcher contract.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ScholarshipLookup is the structured scholarship source contract.
type ScholarshipLookup interface {
	Lookup(ctx context.Context, period, status string) []string
}

var querySchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"query": {"type": "string", "description": "Câu truy vấn tìm kiếm."}
	},
	"required": ["query"]
}`)

var scholarshipSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"time_period": {
			"type": "string",
			"description": "Từ khóa (upcoming, this_week, this_month, last_7_days, last_month) hoặc YYYY-MM hoặc YYYY-MM-DD.",
			"default": "upcoming"
		},
		"status": {
			"type": "string",
			"enum": ["open", "expired", "all"],
			"default": "all"
		}
	}
}`)

type queryArgs struct {
	Query string `json:"query"`
}

type scholarshipArgs struct {
	TimePeriod string `json:"time_period"`
	Status     string `json:"status"`
}

// Deps bundles the collaborators the built-in capabilities need.
type Deps struct {
	Vector      VectorSearcher
	Web         WebSearcher
	Fetcher     PageFetcher
	Scholarship ScholarshipLookup
	Logger      *zap.Logger
}

// NewDefaultRegistry builds the fixed capability set of the assistant.
func NewDefaultRegistry(deps Deps) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "tools"))

	r := NewRegistry()

	r.MustRegister(domain.CapabilityDescriptor{
		Name: "search_handbook",
		Description: "Sử dụng để tra cứu thông tin về ĐỜI SỐNG SINH VIÊN và CÁC DỊCH VỤ HỖ TRỢ trong Sổ tay Sinh viên. " +
			"Rất hữu ích cho các câu hỏi về: điểm rèn luyện, hoạt động ngoại khóa, câu lạc bộ, ký túc xá, nhà trọ, " +
			"các tuyến xe bus, hỗ trợ tâm lý, hướng nghiệp, việc làm thêm, quy tắc ứng xử văn hóa, quy định về học bổng " +
			"và thông tin liên hệ các phòng ban, khoa, viện.",
		Schema: querySchema,
	}, vectorExecutor(deps.Vector, logger, NamespaceHandbook, 10))

	r.MustRegister(domain.CapabilityDescriptor{
		Name: "search_regulations",
		Description: "Sử dụng để tra cứu các QUY ĐỊNH HỌC THUẬT CHÍNH THỨC trong Quy chế Đào tạo. " +
			"Dùng cho các câu hỏi về: tín chỉ, điểm số (GPA/CPA), đăng ký học phần, cảnh báo học tập, " +
			"điều kiện tốt nghiệp, đồ án tốt nghiệp, nghỉ học tạm thời, buộc thôi học, học phí, " +
			"học cùng lúc hai chương trình, và các vấn đề học vụ khác.",
		Schema: querySchema,
	}, vectorExecutor(deps.Vector, logger, NamespaceRegulations, 10))

	r.MustRegister(domain.CapabilityDescriptor{
		Name: "search_law",
		Description: "Sử dụng để tra cứu các VĂN BẢN LUẬT VIỆT NAM. Dùng cho các câu hỏi liên quan đến: " +
			"Bộ luật, Hiến pháp, luật hình sự, luật dân sự, luật tố tụng, luật giáo dục, và các văn bản pháp luật khác.",
		Schema: querySchema,
	}, vectorExecutor(deps.Vector, logger, NamespaceLaw, 5))

	r.MustRegister(domain.CapabilityDescriptor{
		Name: "search_web",
		Description: "Tìm kiếm website liên quan đến query, sau đó đọc nội dung các website đó và trả về danh sách " +
			"đoạn văn bản. Hữu ích cho các câu hỏi cần thông tin mới, thời sự hoặc không có trong cơ sở dữ liệu. " +
			"Luôn thử công cụ này trước khi kết luận không tìm thấy thông tin.",
		Schema: querySchema,
	}, webExecutor(deps.Web, deps.Fetcher, logger))

	r.MustRegister(domain.CapabilityDescriptor{
		Name: "get_scholarships",
		Description: "Sử dụng để lấy danh sách học bổng CỤ THỂ, có thể lọc theo thời gian và trạng thái " +
			"(còn hạn/hết hạn). status: open, expired, all. time_period: upcoming, this_week, this_month, " +
			"last_7_days, last_month, hoặc YYYY-MM, hoặc YYYY-MM-DD.",
		Schema: scholarshipSchema,
	}, scholarshipExecutor(deps.Scholarship))

	return r
}

func vectorExecutor(searcher VectorSearcher, logger *zap.Logger, namespace string, topK int) ExecutorFunc {
	return func(ctx context.Context, args json.RawMessage) (string, error) {
		var parsed queryArgs
		if err := json.Unmarshal(args, &parsed); err != nil || strings.TrimSpace(parsed.Query) == "" {
			return "", fmt.Errorf("tham số query không hợp lệ")
		}

		passages, err := searcher.Search(ctx, namespace, parsed.Query, topK)
		if err != nil {
			return "", fmt.Errorf("tìm kiếm trong namespace %s thất bại: %w", namespace, err)
		}

		logger.Debug("vector search done",
			zap.String("namespace", namespace),
			zap.Int("passages", len(passages)))

		// An empty list is a valid result: it tells the oracle there was no
		// match, which its instructions treat as a web-fallback trigger.
		return marshalPassages(passages), nil
	}
}

func webExecutor(web WebSearcher, fetcher PageFetcher, logger *zap.Logger) ExecutorFunc {
	return func(ctx context.Context, args json.RawMessage) (string, error) {
		var parsed queryArgs
		if err := json.Unmarshal(args, &parsed); err != nil || strings.TrimSpace(parsed.Query) == "" {
			return "", fmt.Errorf("tham số query không hợp lệ")
		}

		urls, err := web.Search(ctx, parsed.Query)
		if err != nil {
			logger.Warn("web search failed", zap.Error(err))
			return marshalPassages([]string{fmt.Sprintf("Lỗi khi tìm kiếm với Tavily: %v", err)}), nil
		}
		if len(urls) == 0 {
			return marshalPassages([]string{"Không tìm thấy website nào liên quan."}), nil
		}

		var passages []string
		var lastErr error
		for _, pageURL := range urls {
			text, err := fetcher.Fetch(ctx, pageURL)
			if err != nil {
				lastErr = err
				logger.Warn("page fetch failed", zap.String("url", pageURL), zap.Error(err))
				continue
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			passages = append(passages, text)
		}

		if len(passages) == 0 {
			if lastErr != nil {
				return marshalPassages([]string{fmt.Sprintf("Lỗi khi scrape website: %v", lastErr)}), nil
			}
			return marshalPassages([]string{"Không tìm thấy website nào liên quan."}), nil
		}
		return marshalPassages(passages), nil
	}
}

func scholarshipExecutor(lookup ScholarshipLookup) ExecutorFunc {
	return func(ctx context.Context, args json.RawMessage) (string, error) {
		parsed := scholarshipArgs{TimePeriod: "upcoming", Status: "all"}
		if len(args) > 0 {
			if err := json.Unmarshal(args, &parsed); err != nil {
				return "", fmt.Errorf("tham số không hợp lệ: %w", err)
			}
		}
		if parsed.TimePeriod == "" {
			parsed.TimePeriod = "upcoming"
		}
		if parsed.Status == "" {
			parsed.Status = "all"
		}

		return marshalPassages(lookup.Lookup(ctx, parsed.TimePeriod, parsed.Status)), nil
	}
}

func marshalPassages(passages []string) string {
	if passages == nil {
		passages = []string{}
	}
	out, _ := json.Marshal(passages)
	return string(out)
}
