package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/adapter/webpage"
)

const maxListingPages = 5

// ScholarshipView is the listing shape of one scholarship.
type ScholarshipView struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Amount      string     `json:"amount"`
	Quantity    int        `json:"quantity"`
	Type        string     `json:"type"`
	Contact     string     `json:"contact"`
	Description string     `json:"description"`
	Active      bool       `json:"active"`
}

// ListScholarships returns the crawled scholarship records.
// GET /v1/scholarships?status=open|expired|all
func (h *Handler) ListScholarships(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = "all"
	}

	records, err := h.scholarships.List(c.Request().Context())
	if err != nil {
		h.logger.Error("scholarship listing failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Không thể crawl dữ liệu học bổng."})
	}

	now := time.Now()
	views := make([]ScholarshipView, 0, len(records))
	for _, s := range records {
		active := s.Active(now)
		if status == "open" && !active {
			continue
		}
		if status == "expired" && active {
			continue
		}
		views = append(views, ScholarshipView{
			ID:          s.ID,
			Title:       s.Title,
			Deadline:    s.Deadline,
			Amount:      s.Amount,
			Quantity:    s.Quantity,
			Type:        s.TypeInfo,
			Contact:     s.Contact,
			Description: s.Description,
			Active:      active,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"scholarships": views})
}

// ActivityView is the listing shape of one activity.
type ActivityView struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Organizer string `json:"organizer"`
	Type      string `json:"activity_type"`
	Place     string `json:"location,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// ListActivities returns published activities.
// GET /v1/activities
func (h *Handler) ListActivities(c echo.Context) error {
	ctx := c.Request().Context()

	var views []ActivityView
	for page := 1; page <= maxListingPages; page++ {
		raw, err := h.portal.FetchActivities(ctx, page, 100)
		if err != nil {
			h.logger.Error("activity listing failed", zap.Int("page", page), zap.Error(err))
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Không thể crawl dữ liệu hoạt động."})
		}
		if len(raw) == 0 {
			break
		}
		for _, a := range raw {
			view := ActivityView{
				ID:        a.AID,
				Title:     a.AName,
				Organizer: a.GName,
				Type:      a.AType,
				Place:     a.APlace,
				StartTime: a.StartTime,
			}
			if a.Avatar != "" {
				view.ImageURL = strings.TrimRight(h.portal.BaseURL(), "/") + "/" + strings.TrimLeft(a.Avatar, "/")
			}
			views = append(views, view)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"activities": views})
}

// JobView is the listing shape of one recruitment record.
type JobView struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	MajorsRequired string `json:"majors_required"`
	Description    string `json:"description"`
	Deadline       string `json:"deadline,omitempty"`
}

// ListJobs returns published recruitment records, optionally filtered by
// city and career substring match.
// GET /v1/jobs?location=1&city=...&career=...
func (h *Handler) ListJobs(c echo.Context) error {
	ctx := c.Request().Context()

	locationCode := 1
	if l := c.QueryParam("location"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			locationCode = val
		}
	}
	city := strings.ToLower(strings.TrimSpace(c.QueryParam("city")))
	career := strings.ToLower(strings.TrimSpace(c.QueryParam("career")))

	var views []JobView
	for page := 1; page <= maxListingPages; page++ {
		raw, err := h.portal.FetchJobs(ctx, page, 100, locationCode)
		if err != nil {
			h.logger.Error("job listing failed", zap.Int("page", page), zap.Error(err))
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Không thể crawl dữ liệu việc làm."})
		}
		if len(raw) == 0 {
			break
		}
		for _, j := range raw {
			if city != "" && !strings.Contains(strings.ToLower(j.Location), city) {
				continue
			}
			if career != "" && !strings.Contains(strings.ToLower(j.MajorsRequired), career) {
				continue
			}
			description := j.Content
			if text, err := webpage.ExtractText(strings.NewReader(j.Content)); err == nil {
				description = text
			}
			views = append(views, JobView{
				ID:             j.RID,
				Title:          j.Title,
				Company:        j.CompanyName,
				Location:       j.Location,
				MajorsRequired: j.MajorsRequired,
				Description:    description,
				Deadline:       j.Deadline,
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"jobs": views})
}
