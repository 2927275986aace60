package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/http/middleware"
	"backoffice/internal/services"
	"backoffice/internal/utils"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

func requestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// paramID reads a positive integer path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "invalid "+name, nil)
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) (int64, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// dateRange reads start_date/end_date (YYYY-MM-DD); either may be omitted.
func dateRange(c *gin.Context) (domain.DateRange, bool) {
	from, err := utils.ParseOptionalDate(c.Query("start_date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_date", "start_date must be YYYY-MM-DD", nil)
		return domain.DateRange{}, false
	}
	to, err := utils.ParseOptionalDate(c.Query("end_date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_date", "end_date must be YYYY-MM-DD", nil)
		return domain.DateRange{}, false
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		respondError(c, http.StatusBadRequest, "invalid_date", "end_date is before start_date", nil)
		return domain.DateRange{}, false
	}
	return domain.DateRange{From: from, To: to}, true
}

// listFilter reads the common list query parameters.
func listFilter(c *gin.Context) (domain.ListFilter, bool) {
	rng, ok := dateRange(c)
	if !ok {
		return domain.ListFilter{}, false
	}
	f := domain.ListFilter{
		Search: strings.TrimSpace(c.Query("q")),
		Status: strings.TrimSpace(c.Query("status")),
		Kind:   strings.TrimSpace(c.Query("kind")),
		Range:  rng,
	}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.PageSize, _ = strconv.Atoi(c.Query("pageSize"))

	var err error
	if f.TripID, err = queryID(c, "trip_id"); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_id", err.Error(), nil)
		return f, false
	}
	if f.ClientID, err = queryID(c, "client_id"); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_id", err.Error(), nil)
		return f, false
	}
	return f, true
}

// respondAction renders the outcome of a named action.
func respondAction(c *gin.Context, res services.ActionResult, err error) {
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// respondList wraps list results with the pagination that produced them.
func respondList[T any](c *gin.Context, items []T, f domain.ListFilter) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"page":     max(f.Page, 1),
		"pageSize": f.Pagination.Limit(),
	})
}

// sendFile streams a generated document; inline PDFs open in the browser.
func sendFile(c *gin.Context, data []byte, filename, contentType string, inline bool) {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// Date accepts "YYYY-MM-DD" or RFC 3339 in request bodies.
type Date struct{ time.Time }

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := utils.ParseDate(s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	d.Time = t
	return nil
}

// timeOf returns nil for an absent optional date.
func timeOf(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
