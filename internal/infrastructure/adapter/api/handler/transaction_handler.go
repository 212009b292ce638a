package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/middleware"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionUseCase usecase.TransactionUseCase
	logger             coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(transactionUseCase usecase.TransactionUseCase, logger coreport.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionUseCase: transactionUseCase,
		logger:             logger,
	}
}

// actor is set by middleware.Actor on every route of this handler
func actor(c *gin.Context) entity.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

// Reserve handles POST /transactions
func (h *TransactionHandler) Reserve(c *gin.Context) {
	var req dto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.transactionUseCase.Reserve(c.Request.Context(), actor(c), usecase.ReserveRequest{
		PropertyID: req.PropertyID,
		AgentID:    req.AgentID,
		OfferPrice: req.OfferPrice,
		Note:       req.Note,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	tx, err := h.transactionUseCase.Get(c.Request.Context(), actor(c), c.Param("id"))
	h.respondTransaction(c, tx, err)
}

// Progress handles GET /transactions/:id/progress
func (h *TransactionHandler) Progress(c *gin.Context) {
	view, err := h.transactionUseCase.Progress(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProgressResponse(view))
}

// UploadDocument handles PUT /transactions/:id/documents/:type
func (h *TransactionHandler) UploadDocument(c *gin.Context) {
	var req dto.UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.transactionUseCase.UploadDocument(c.Request.Context(), actor(c), usecase.UploadDocumentRequest{
		TransactionID: c.Param("id"),
		DocumentType:  c.Param("type"),
		DocumentRef:   req.DocumentRef,
	})
	h.respondTransaction(c, tx, err)
}

// ValidateDocument handles POST /transactions/:id/documents/:type/validation
func (h *TransactionHandler) ValidateDocument(c *gin.Context) {
	var req dto.ValidateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.transactionUseCase.ValidateDocument(c.Request.Context(), actor(c), usecase.ValidateDocumentRequest{
		TransactionID: c.Param("id"),
		DocumentType:  c.Param("type"),
		Approve:       *req.Approve,
		Notes:         req.Notes,
	})
	h.respondTransaction(c, tx, err)
}

// SetStatus handles POST /transactions/:id/status
func (h *TransactionHandler) SetStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.transactionUseCase.SetStatus(c.Request.Context(), actor(c), usecase.SetStatusRequest{
		TransactionID: c.Param("id"),
		Status:        req.Status,
		Reason:        req.Reason,
	})
	h.respondTransaction(c, tx, err)
}

// Claim handles POST /transactions/:id/claim
func (h *TransactionHandler) Claim(c *gin.Context) {
	tx, err := h.transactionUseCase.Claim(c.Request.Context(), actor(c), c.Param("id"))
	h.respondTransaction(c, tx, err)
}

// ScheduleMeeting handles POST /transactions/:id/meetings
func (h *TransactionHandler) ScheduleMeeting(c *gin.Context) {
	var req dto.ScheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.transactionUseCase.ScheduleMeeting(c.Request.Context(), actor(c), usecase.ScheduleMeetingRequest{
		TransactionID: c.Param("id"),
		Type:          req.Type,
		ScheduledAt:   req.ScheduledAt,
		Location:      req.Location,
		Agenda:        req.Agenda,
		Participants:  req.Participants,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

// UpdateMeeting handles PATCH /transactions/:id/meetings/:meetingId
func (h *TransactionHandler) UpdateMeeting(c *gin.Context) {
	var req dto.UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.transactionUseCase.UpdateMeetingStatus(c.Request.Context(), actor(c), usecase.UpdateMeetingRequest{
		TransactionID: c.Param("id"),
		MeetingID:     c.Param("meetingId"),
		Status:        req.Status,
	})
	h.respondTransaction(c, tx, err)
}

// RescheduleMeeting handles POST /transactions/:id/meetings/:meetingId/reschedule
func (h *TransactionHandler) RescheduleMeeting(c *gin.Context) {
	var req dto.RescheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.transactionUseCase.RescheduleMeeting(c.Request.Context(), actor(c), usecase.RescheduleMeetingRequest{
		TransactionID: c.Param("id"),
		MeetingID:     c.Param("meetingId"),
		ScheduledAt:   req.ScheduledAt,
		Location:      req.Location,
	})
	h.respondTransaction(c, tx, err)
}

// AddNote handles POST /transactions/:id/notes
func (h *TransactionHandler) AddNote(c *gin.Context) {
	var req dto.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.transactionUseCase.AddNote(c.Request.Context(), actor(c), usecase.AddNoteRequest{
		TransactionID: c.Param("id"),
		Body:          req.Body,
		Category:      req.Category,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

// Delete handles DELETE /transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.transactionUseCase.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	transactions, err := h.transactionUseCase.ListForActor(c.Request.Context(), actor(c))
	h.respondList(c, transactions, err)
}

// ListActive handles GET /transactions/active
func (h *TransactionHandler) ListActive(c *gin.Context) {
	transactions, err := h.transactionUseCase.ListActive(c.Request.Context(), actor(c))
	h.respondList(c, transactions, err)
}

// ListByProperty handles GET /properties/:propertyId/transactions
func (h *TransactionHandler) ListByProperty(c *gin.Context) {
	transactions, err := h.transactionUseCase.ListByProperty(c.Request.Context(), actor(c), c.Param("propertyId"))
	h.respondList(c, transactions, err)
}

// Summary handles GET /transactions/summary
func (h *TransactionHandler) Summary(c *gin.Context) {
	summary, err := h.transactionUseCase.Summary(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSummaryResponse(summary))
}

func (h *TransactionHandler) respondTransaction(c *gin.Context, tx *entity.Transaction, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

func (h *TransactionHandler) respondList(c *gin.Context, transactions []*entity.Transaction, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionListResponse(transactions))
}
