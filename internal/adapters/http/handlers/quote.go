package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-api/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotes-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotes-api/internal/app"
)

// QuoteHandler handles the quote CRUD endpoints. Its methods return errors,
// which middleware.ErrorHandler renders.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// ListQuotes handles GET /api/v1/quotes.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Success 200 {array} dto.QuoteResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) error {
	quotes, err := h.service.ListQuotes(c.Request.Context())
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, dto.NewQuoteListResponse(quotes))

	return nil
}

// GetQuote handles GET /api/v1/quotes/:id.
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) error {
	quote, err := h.service.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))

	return nil
}

// CreateQuote handles POST /api/v1/quotes and responds with the stored quote.
//
// @Summary Create a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param quote body dto.QuoteRequest true "Quote"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) error {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.CreateQuote(c.Request.Context(), req.ToDomain())
	if err != nil {
		return err
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(created))

	return nil
}

// UpdateQuote handles PUT /api/v1/quotes/:id, overwriting quote, author and year.
//
// @Summary Replace a quote
// @Tags quotes
// @Accept json
// @Param id path string true "Quote ID"
// @Param quote body dto.QuoteRequest true "Quote"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [put]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) error {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateQuote(c.Request.Context(), c.Param("id"), req.ToDomain()); err != nil {
		return err
	}

	c.Status(http.StatusNoContent)

	return nil
}

// DeleteQuote handles DELETE /api/v1/quotes/:id.
//
// @Summary Delete a quote
// @Tags quotes
// @Param id path string true "Quote ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) error {
	if err := h.service.DeleteQuote(c.Request.Context(), c.Param("id")); err != nil {
		return err
	}

	c.Status(http.StatusNoContent)

	return nil
}

// RandomQuote handles GET /api/v1/quotes/quote/random.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/quote/random [get]
func (h *QuoteHandler) RandomQuote(c *gin.Context) error {
	quote, err := h.service.RandomQuote(c.Request.Context())
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))

	return nil
}

// RegisterQuoteRoutes registers the quote routes on rg. writeGuards run
// before the mutating routes only, e.g. RequireAuth and RequireRole.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	quotes := rg.Group("/quotes")

	quotes.GET("", middleware.ForwardErrors(h.ListQuotes))
	quotes.GET("/quote/random", middleware.ForwardErrors(h.RandomQuote))
	quotes.GET("/:id", middleware.ForwardErrors(h.GetQuote))

	write := quotes.Group("", writeGuards...)
	write.POST("", middleware.ForwardErrors(h.CreateQuote))
	write.PUT("/:id", middleware.ForwardErrors(h.UpdateQuote))
	write.DELETE("/:id", middleware.ForwardErrors(h.DeleteQuote))
}
