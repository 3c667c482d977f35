package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"
	"github.com/senyabanana/shipquote-service/internal/quotepdf"
	"github.com/senyabanana/shipquote-service/internal/services"
	"github.com/senyabanana/shipquote-service/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// QuoteHandler - обработчики расчёта и коммерческих предложений.
type QuoteHandler struct {
	Service *services.QuoteService
	PDF     quotepdf.Generator
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewQuoteHandler создаёт новый экземпляр QuoteHandler.
func NewQuoteHandler(service *services.QuoteService, pdf quotepdf.Generator, logger *zap.Logger, timeout time.Duration) *QuoteHandler {
	return &QuoteHandler{
		Service: service,
		PDF:     pdf,
		Logger:  logger,
		Timeout: timeout,
	}
}

// Calculate обрабатывает запросы на расчёт стоимости перевозки.
func (h *QuoteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CalculateRequest
	if err := decodeBody(r, &req); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	calc, err := h.Service.Calculate(ctx, req)
	if err != nil {
		fail(h.Logger, w, r, err,
			zap.String("originPortId", req.OriginPortID),
			zap.String("destinationPortId", req.DestinationPortID),
			zap.String("containerTypeId", req.ContainerTypeID))
		return
	}
	utils.WriteJSON(w, http.StatusOK, calc)
}

// Commit обрабатывает запросы на расчёт с сохранением предложения.
func (h *QuoteHandler) Commit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CommitQuoteRequest
	if err := decodeBody(r, &req); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	quote, err := h.Service.Commit(ctx, req)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	h.Logger.Info("quote committed",
		zap.String("quoteId", quote.ID),
		zap.String("quoteNumber", quote.QuoteNumber),
		zap.String("total", quote.TotalAmount.StringFixed(2)))
	utils.WriteJSON(w, http.StatusCreated, quote)
}

// CreateQuote обрабатывает запросы для создания предложения.
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var quoteReq models.QuoteRequest
	if err := decodeBody(r, &quoteReq); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	quote, err := h.Service.CreateQuote(ctx, quoteReq)
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	h.Logger.Info("quote created", zap.String("quoteId", quote.ID), zap.String("quoteNumber", quote.QuoteNumber))
	utils.WriteJSON(w, http.StatusCreated, quote)
}

// ListQuotes обрабатывает запросы для получения списка предложений.
func (h *QuoteHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	limit, offset, err := utils.ParseLimitOffset(query.Get("limit"), query.Get("offset"))
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	quotes, err := h.Service.ListQuotes(ctx, models.QuoteFilter{
		Limit:         limit,
		Offset:        offset,
		Statuses:      utils.SplitList(query["status"]),
		CustomerEmail: query.Get("customerEmail"),
	})
	if err != nil {
		fail(h.Logger, w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, quotes)
}

// GetQuote обрабатывает запросы для получения предложения.
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	quoteId := chi.URLParam(r, "quoteId")
	quote, err := h.Service.GetQuote(ctx, quoteId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("quoteId", quoteId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, quote)
}

// UpdateQuoteStatus обрабатывает запросы для изменения статуса предложения.
func (h *QuoteHandler) UpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	quoteId := chi.URLParam(r, "quoteId")
	quote, err := h.Service.UpdateQuoteStatus(ctx, quoteId, r.URL.Query().Get("status"))
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("quoteId", quoteId))
		return
	}
	h.Logger.Info("quote status changed", zap.String("quoteId", quoteId), zap.String("status", string(quote.Status)))
	utils.WriteJSON(w, http.StatusOK, quote)
}

// AddItem обрабатывает запросы для добавления позиции.
func (h *QuoteHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	quoteId := chi.URLParam(r, "quoteId")
	var itemReq models.QuoteItemRequest
	if err := decodeBody(r, &itemReq); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	quote, err := h.Service.AddItem(ctx, quoteId, itemReq)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("quoteId", quoteId))
		return
	}
	utils.WriteJSON(w, http.StatusCreated, quote)
}

// UpdateItem обрабатывает запросы для изменения позиции.
func (h *QuoteHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	quoteId := chi.URLParam(r, "quoteId")
	itemId := chi.URLParam(r, "itemId")
	var itemReq models.QuoteItemRequest
	if err := decodeBody(r, &itemReq); err != nil {
		fail(h.Logger, w, r, err)
		return
	}

	quote, err := h.Service.UpdateItem(ctx, quoteId, itemId, itemReq)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("quoteId", quoteId), zap.String("itemId", itemId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, quote)
}

// DeleteItem обрабатывает запросы для удаления позиции.
func (h *QuoteHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	quoteId := chi.URLParam(r, "quoteId")
	itemId := chi.URLParam(r, "itemId")
	quote, err := h.Service.DeleteItem(ctx, quoteId, itemId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("quoteId", quoteId), zap.String("itemId", itemId))
		return
	}
	utils.WriteJSON(w, http.StatusOK, quote)
}

// QuotePDF обрабатывает запросы для выгрузки предложения в PDF.
func (h *QuoteHandler) QuotePDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	quoteId := chi.URLParam(r, "quoteId")
	doc, err := h.Service.Document(ctx, quoteId)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("quoteId", quoteId))
		return
	}

	out, err := h.PDF.Generate(*doc)
	if err != nil {
		fail(h.Logger, w, r, err, zap.String("quoteId", quoteId))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, doc.Quote.QuoteNumber))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		h.Logger.Warn("failed to write pdf", zap.String("quoteId", quoteId), zap.Error(err))
	}
}
