package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/chekline/backend/internal/metrics"
)

const receiptCacheTTL = 5 * time.Minute

// CheckService exposes the check endpoints: creation, listing, lookup and
// the public plain-text receipt view.
type CheckService struct {
	repo      *CheckRepository
	redis     *redis.Client
	formatter *ReceiptFormatter
	validator *ValidationHelper
}

// CreateCheckRequest represents the check creation payload
// @Description Check creation request structure
type CreateCheckRequest struct {
	Products       []ProductInput  `json:"products" validate:"required,min=1,dive"`
	Payment        PaymentInput    `json:"payment" validate:"required"`
	AdditionalData json.RawMessage `json:"additional_data,omitempty"`
}

func NewCheckService(repo *CheckRepository, redisClient *redis.Client, formatter *ReceiptFormatter) *CheckService {
	return &CheckService{
		repo:      repo,
		redis:     redisClient,
		formatter: formatter,
		validator: NewValidationHelper(),
	}
}

// CreateCheck handles check creation
// @Summary Create a check
// @Description Create a receipt with line items and a payment; totals and change are computed server-side
// @Tags checks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCheckRequest true "Check creation request"
// @Success 201 {object} models.Check
// @Failure 400 {object} ErrorResponse "Invalid request or payment insufficient"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /checks/ [post]
func (s *CheckService) CreateCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req CreateCheckRequest
	if err := DecodeStrictJSON(w, r, &req); err != nil {
		logrus.Warnf("[CHECK] Create failed, invalid request: %v", err)
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		logrus.Warnf("[CHECK] Create validation failed: %v", err)
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	check, err := s.repo.CreateCheck(userID, req.Products, req.Payment, req.AdditionalData)
	if err != nil {
		if errors.Is(err, ErrPaymentInsufficient) {
			logrus.Warnf("[CHECK] Payment insufficient for user %d", userID)
			SendErrorResponse(w, ErrPaymentInsufficient.Error(), http.StatusBadRequest, nil)
			return
		}
		logrus.Errorf("[CHECK] Create failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to create check", http.StatusInternalServerError, nil)
		return
	}

	metrics.ChecksCreated.Inc()
	logrus.Infof("[CHECK] Check %d created for user %d, total: %.2f", check.ID, userID, check.Total)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(check)
}

// listChecksParams are the recognized query parameters of the list endpoint.
// Anything else in the query string is rejected.
var listChecksParams = map[string]bool{
	"date_from":    true,
	"date_to":      true,
	"min_total":    true,
	"payment_type": true,
	"limit":        true,
	"offset":       true,
}

// ListChecks handles check listing
// @Summary List own checks
// @Description List the caller's checks, newest first, with optional filters
// @Tags checks
// @Produce json
// @Security BearerAuth
// @Param date_from query string false "Inclusive lower bound on creation time (RFC 3339 or YYYY-MM-DD)"
// @Param date_to query string false "Inclusive upper bound on creation time"
// @Param min_total query number false "Inclusive lower bound on check total"
// @Param payment_type query string false "Exact payment type match (cash or cashless)"
// @Param limit query int false "Page size, 10-100 (default 10)"
// @Param offset query int false "Offset, >= 0 (default 0)"
// @Success 200 {array} models.Check
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /checks/ [get]
func (s *CheckService) ListChecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	query := r.URL.Query()
	for key := range query {
		if !listChecksParams[key] {
			SendErrorResponse(w, fmt.Sprintf("Unknown query parameter: %s", key), http.StatusBadRequest, nil)
			return
		}
	}

	filter := CheckFilter{PaymentType: query.Get("payment_type")}

	if raw := query.Get("date_from"); raw != "" {
		t, err := parseFilterTime(raw)
		if err != nil {
			SendErrorResponse(w, "Invalid date_from", http.StatusBadRequest, nil)
			return
		}
		filter.DateFrom = &t
	}

	if raw := query.Get("date_to"); raw != "" {
		t, err := parseFilterTime(raw)
		if err != nil {
			SendErrorResponse(w, "Invalid date_to", http.StatusBadRequest, nil)
			return
		}
		filter.DateTo = &t
	}

	if raw := query.Get("min_total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			SendErrorResponse(w, "Invalid min_total", http.StatusBadRequest, nil)
			return
		}
		filter.MinTotal = &v
	}

	page := struct {
		Limit  int `validate:"gte=10,lte=100"`
		Offset int `validate:"gte=0"`
	}{Limit: 10}

	if raw := query.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			SendErrorResponse(w, "Invalid limit", http.StatusBadRequest, nil)
			return
		}
		page.Limit = v
	}

	if raw := query.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			SendErrorResponse(w, "Invalid offset", http.StatusBadRequest, nil)
			return
		}
		page.Offset = v
	}

	if err := s.validator.ValidateStruct(&page); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	checks, err := s.repo.ListChecks(userID, filter, page.Limit, page.Offset)
	if err != nil {
		logrus.Errorf("[CHECK] List failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to fetch checks", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(checks)
}

// GetCheck handles single check lookup
// @Summary Get a check by id
// @Description Fetch one of the caller's checks; a check owned by someone else reads as not found
// @Tags checks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Check ID"
// @Success 200 {object} models.Check
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Check not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /checks/{id} [get]
func (s *CheckService) GetCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	checkID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid check id", http.StatusBadRequest, nil)
		return
	}

	check, err := s.repo.GetCheckByID(userID, checkID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			SendErrorResponse(w, ErrNotFound.Error(), http.StatusNotFound, nil)
			return
		}
		logrus.Errorf("[CHECK] Fetch failed for check %d: %v", checkID, err)
		SendErrorResponse(w, "Failed to fetch check", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(check)
}

// PublicCheckView handles the unauthenticated receipt view
// @Summary View a shared receipt
// @Description Render the check behind a public token as a fixed-width plain-text receipt
// @Tags checks
// @Produce plain
// @Param token path string true "Public token"
// @Param line_width query int false "Receipt line width, 11-80 (default 32)"
// @Success 200 {string} string "Formatted receipt"
// @Failure 400 {object} ErrorResponse "Invalid line width"
// @Failure 404 {object} ErrorResponse "Check not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /checks/public/{token} [get]
func (s *CheckService) PublicCheckView(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	width := ReceiptDefaultWidth
	if raw := r.URL.Query().Get("line_width"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < ReceiptMinWidth || v > ReceiptMaxWidth {
			SendErrorResponse(w, "Invalid line_width", http.StatusBadRequest, nil)
			return
		}
		width = v
	}

	cacheKey := fmt.Sprintf("receipt:%s:%d", token, width)
	if s.redis != nil {
		if cached, err := s.redis.Get(r.Context(), cacheKey).Result(); err == nil {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte(cached))
			return
		}
	}

	check, err := s.repo.GetCheckByPublicToken(token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			SendErrorResponse(w, ErrNotFound.Error(), http.StatusNotFound, nil)
			return
		}
		logrus.Errorf("[CHECK] Public fetch failed: %v", err)
		SendErrorResponse(w, "Failed to fetch check", http.StatusInternalServerError, nil)
		return
	}

	formatted := s.formatter.Format(check, width)

	if s.redis != nil {
		if err := s.redis.Set(r.Context(), cacheKey, formatted, receiptCacheTTL).Err(); err != nil {
			logrus.Warnf("[CHECK] Failed to cache receipt: %v", err)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(formatted))
}

// parseFilterTime accepts RFC 3339 timestamps or bare dates.
func parseFilterTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
