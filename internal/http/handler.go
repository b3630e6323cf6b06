package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ddreams3d/quoter-service/internal/calc"
	"github.com/ddreams3d/quoter-service/internal/model"
	"github.com/ddreams3d/quoter-service/internal/service"
	"github.com/ddreams3d/quoter-service/internal/whatsapp"
)

type Handler struct {
	quotes *service.QuoteService
	db     *gorm.DB
	log    zerolog.Logger
}

func NewHandler(quotes *service.QuoteService, db *gorm.DB, log zerolog.Logger) *Handler {
	return &Handler{quotes: quotes, db: db, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", h.health)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/quotes/calculate", h.calculate)
	protected.POST("/quotes", h.saveQuote)
	protected.GET("/quotes", h.listQuotes)
	protected.GET("/quotes/export", h.exportQuotes)
	protected.PATCH("/quotes/:id/status", h.updateStatus)
	protected.DELETE("/quotes/:id", h.deleteQuote)
	protected.POST("/quotes/:id/sale", h.convertToSale)
	protected.GET("/quotes/:id/records", h.listSaleRecords)
	protected.POST("/quotes/:id/pdf", h.quotePDF)
	protected.GET("/quotes/:id/whatsapp", h.whatsappSummary)
}

func (h *Handler) health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type pricingRequest struct {
	DesiredMarginPercent *float64 `json:"desired_margin_percent"`
	ManualPrice          *float64 `json:"manual_price"`
	TaxMode              string   `json:"tax_mode"`
}

type calculateRequest struct {
	Form    calc.QuoteForm `json:"form"`
	Pricing pricingRequest `json:"pricing"`
}

func (h *Handler) calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pricing, err := parsePricing(req.Pricing)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tax_mode"})
		return
	}

	result, err := h.quotes.Compute(c.Request.Context(), req.Form, pricing)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payload": result.Payload,
		"costs":   result.Costs,
		"pricing": result.Pricing,
	})
}

type saveQuoteRequest struct {
	ClientName  string         `json:"client_name"`
	ClientPhone string         `json:"client_phone"`
	ClientEmail string         `json:"client_email"`
	ProjectName string         `json:"project_name" binding:"required"`
	Form        calc.QuoteForm `json:"form"`
	Pricing     pricingRequest `json:"pricing"`
}

func (h *Handler) saveQuote(c *gin.Context) {
	var req saveQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pricing, err := parsePricing(req.Pricing)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tax_mode"})
		return
	}

	quote, err := h.quotes.Save(c.Request.Context(), service.SaveQuoteInput{
		ClientName:  strings.TrimSpace(req.ClientName),
		ClientPhone: strings.TrimSpace(req.ClientPhone),
		ClientEmail: strings.TrimSpace(req.ClientEmail),
		ProjectName: strings.TrimSpace(req.ProjectName),
		Form:        req.Form,
		Pricing:     pricing,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

func (h *Handler) listQuotes(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	quotes, err := h.quotes.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := model.QuoteStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err := h.quotes.UpdateStatus(c.Request.Context(), id, status); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

func (h *Handler) deleteQuote(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.quotes.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type convertToSaleRequest struct {
	ClientName    string  `json:"client_name"`
	PaymentMethod string  `json:"payment_method"`
	PaymentPhase  string  `json:"payment_phase" binding:"required"`
	Amount        float64 `json:"amount"`
}

func (h *Handler) convertToSale(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req convertToSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.quotes.ConvertToSale(c.Request.Context(), id, service.SaleDetails{
		ClientName:    strings.TrimSpace(req.ClientName),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		PaymentPhase:  model.PaymentPhase(strings.ToLower(strings.TrimSpace(req.PaymentPhase))),
		Amount:        req.Amount,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": model.QuoteStatusAccepted})
}

func (h *Handler) listSaleRecords(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	records, err := h.quotes.ListSaleRecords(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

type quotePDFRequest struct {
	ShowTechnicalDetails bool `json:"show_technical_details"`
	ShowTaxBreakdown     bool `json:"show_tax_breakdown"`
}

func (h *Handler) quotePDF(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req quotePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, fileName, err := h.quotes.GenerateQuotePDF(c.Request.Context(), id, service.DocumentOptions{
		ShowTechnicalDetails: req.ShowTechnicalDetails,
		ShowTaxBreakdown:     req.ShowTaxBreakdown,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *Handler) exportQuotes(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	content, fileName, err := h.quotes.ExportQuotesExcel(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *Handler) whatsappSummary(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	quote, err := h.quotes.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, whatsapp.Build(*quote))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyQuote):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param("id")))
}

func parsePricing(req pricingRequest) (calc.PricingInput, error) {
	input := calc.PricingInput{
		DesiredMarginPercent: req.DesiredMarginPercent,
		ManualPrice:          req.ManualPrice,
	}
	switch strings.ToLower(strings.TrimSpace(req.TaxMode)) {
	case "":
		// Simulate falls back to plus_tax.
	case "tax_included":
		input.TaxMode = model.TaxModeTaxIncluded
	case "plus_tax":
		input.TaxMode = model.TaxModePlusTax
	default:
		return calc.PricingInput{}, service.ErrInvalidInput
	}
	return input, nil
}
