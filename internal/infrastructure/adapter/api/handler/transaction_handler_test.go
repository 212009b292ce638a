package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	transactionUseCase "github.com/amirhossein-jamali/property-purchase/internal/domain/usecase/transaction"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/id"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/metrics"
	timeProvider "github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/time"
)

type identity struct {
	id   string
	role string
}

var (
	buyer    = identity{"buyer-1", "buyer"}
	stranger = identity{"buyer-2", "buyer"}
	agent    = identity{"agent-1", "agent"}
	notary   = identity{"notary-1", "notary"}
	admin    = identity{"admin-1", "admin"}
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	appLogger := logger.NewNoopLogger()
	tp := timeProvider.NewRealTimeProvider()
	catalog := memory.NewPropertyCatalog(
		entity.PropertyListing{
			ID:                "prop-1",
			AgentID:           agent.id,
			Price:             decimal.RequireFromString("450000.00"),
			RequiredDocuments: []entity.DocumentType{entity.DocumentContract, entity.DocumentIdentity},
			Status:            entity.PropertyValidated,
		},
		entity.PropertyListing{
			ID:      "prop-2",
			AgentID: agent.id,
			Price:   decimal.RequireFromString("100000.00"),
			Status:  entity.PropertySold,
		},
	)

	service := transactionUseCase.NewTransactionService(
		memory.NewTransactionRepository(appLogger),
		memory.NewLockRepository(tp),
		catalog,
		id.NewUUIDGenerator(),
		tp,
		appLogger,
		metrics.NoopRecorder{},
		transactionUseCase.DefaultRetryConfig(),
	)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, tp)
	routes.SetupRoutes(
		router,
		handler.NewTransactionHandler(service, appLogger),
		handler.NewHealthHandler("memory", nil),
		"/metrics",
		metrics.NewPrometheusRecorder("test").Handler(),
	)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, who *identity, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if who != nil {
		req.Header.Set(middleware.ActorIDHeader, who.id)
		req.Header.Set(middleware.ActorRoleHeader, who.role)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func reserve(t *testing.T, router *gin.Engine) dto.TransactionResponse {
	t.Helper()
	w := do(t, router, http.MethodPost, "/transactions", &buyer, dto.ReserveRequest{
		PropertyID: "prop-1",
		AgentID:    agent.id,
		Note:       "Offer at asking price",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TransactionResponse](t, w)
}

func TestTransactionHandler_FullLifecycle(t *testing.T) {
	router := setupRouter(t)
	tx := reserve(t, router)

	assert.Equal(t, "pending", tx.Status)
	assert.Equal(t, "450000.00", tx.FinalPrice)
	assert.Equal(t, []string{"contract", "identity"}, tx.RequiredDocuments)
	base := "/transactions/" + tx.ID

	w := do(t, router, http.MethodPut, base+"/documents/contract", &buyer, dto.UploadDocumentRequest{DocumentRef: "s3://docs/contract.pdf"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "documents_pending", decode[dto.TransactionResponse](t, w).Status)

	w = do(t, router, http.MethodPut, base+"/documents/identity", &agent, dto.UploadDocumentRequest{DocumentRef: "s3://docs/id.pdf"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "under_review", decode[dto.TransactionResponse](t, w).Status)

	w = do(t, router, http.MethodPost, base+"/status", &notary, dto.StatusRequest{Status: "completed"})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "not_possible", decode[dto.ErrorResponse](t, w).Class)

	approve := true
	for _, doc := range []string{"contract", "identity"} {
		w = do(t, router, http.MethodPost, base+"/documents/"+doc+"/validation", &notary,
			dto.ValidateDocumentRequest{Approve: &approve, Notes: "ok"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, base+"/progress", &buyer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	progress := decode[dto.ProgressResponse](t, w)
	assert.Equal(t, 2, progress.ValidatedCount)
	assert.InDelta(t, 100.0, progress.Percentage, 0.001)
	assert.Empty(t, progress.MissingDocuments)

	w = do(t, router, http.MethodPost, base+"/status", &notary, dto.StatusRequest{Status: "completed", Reason: "signed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode[dto.TransactionResponse](t, w)
	assert.Equal(t, "completed", done.Status)
	assert.Equal(t, notary.id, done.NotaryID)
	assert.NotNil(t, done.CompletedAt)

	w = do(t, router, http.MethodPut, base+"/documents/contract", &buyer, dto.UploadDocumentRequest{DocumentRef: "s3://docs/v2.pdf"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodGet, "/transactions/summary", &buyer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := decode[dto.SummaryResponse](t, w)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.Active)
	assert.Equal(t, "450000.00", summary.CompletedValue)
}

func TestTransactionHandler_Reserve(t *testing.T) {
	router := setupRouter(t)

	t.Run("missing identity", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/transactions", nil, dto.ReserveRequest{PropertyID: "prop-1", AgentID: agent.id})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/transactions", &buyer, `{"propertyId":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_input", decode[dto.ErrorResponse](t, w).Class)
	})

	t.Run("unavailable property", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/transactions", &buyer, dto.ReserveRequest{PropertyID: "prop-2", AgentID: agent.id})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown property", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/transactions", &buyer, dto.ReserveRequest{PropertyID: "nope", AgentID: agent.id})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("agents cannot reserve", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/transactions", &agent, dto.ReserveRequest{PropertyID: "prop-1", AgentID: agent.id})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("repeat reservation returns the same transaction", func(t *testing.T) {
		first := reserve(t, router)
		second := reserve(t, router)
		assert.Equal(t, first.ID, second.ID)
	})
}

func TestTransactionHandler_Access(t *testing.T) {
	router := setupRouter(t)
	tx := reserve(t, router)
	base := "/transactions/" + tx.ID

	w := do(t, router, http.MethodGet, base, &stranger, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_allowed", decode[dto.ErrorResponse](t, w).Class)

	w = do(t, router, http.MethodGet, "/transactions/missing", &buyer, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode[dto.ErrorResponse](t, w).Class)

	w = do(t, router, http.MethodGet, "/transactions", &stranger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[dto.TransactionListResponse](t, w).Count)

	w = do(t, router, http.MethodGet, "/transactions/active", &notary, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.TransactionListResponse](t, w).Count)

	w = do(t, router, http.MethodGet, "/properties/prop-1/transactions", &agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.TransactionListResponse](t, w).Count)

	w = do(t, router, http.MethodDelete, base, &buyer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodDelete, base, &admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, base, &buyer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionHandler_MeetingsAndNotes(t *testing.T) {
	router := setupRouter(t)
	tx := reserve(t, router)
	base := "/transactions/" + tx.ID

	w := do(t, router, http.MethodPost, base+"/meetings", &agent, dto.ScheduleMeetingRequest{
		Type:        "property_viewing",
		ScheduledAt: time.Now().Add(48 * time.Hour),
		Location:    "Main St 1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	scheduled := decode[dto.TransactionResponse](t, w)
	require.Len(t, scheduled.Meetings, 1)
	meetingID := scheduled.Meetings[0].ID

	w = do(t, router, http.MethodPost, base+"/meetings", &agent, dto.ScheduleMeetingRequest{
		Type:        "property_viewing",
		ScheduledAt: time.Now().Add(-time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, base+"/progress", &buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := decode[dto.ProgressResponse](t, w)
	assert.Equal(t, 1, progress.UpcomingMeetings)
	require.NotNil(t, progress.NextMeeting)
	assert.Equal(t, meetingID, progress.NextMeeting.ID)

	moved := time.Now().Add(96 * time.Hour).UTC().Truncate(time.Second)
	w = do(t, router, http.MethodPost, base+"/meetings/"+meetingID+"/reschedule", &buyer, dto.RescheduleMeetingRequest{
		ScheduledAt: moved,
		Location:    "Main St 2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rescheduled := decode[dto.TransactionResponse](t, w)
	require.Len(t, rescheduled.Meetings, 1)
	assert.Equal(t, "rescheduled", rescheduled.Meetings[0].Status)
	assert.True(t, moved.Equal(rescheduled.Meetings[0].ScheduledAt))
	assert.Equal(t, "Main St 2", rescheduled.Meetings[0].Location)

	w = do(t, router, http.MethodPost, base+"/meetings/"+meetingID+"/reschedule", &buyer, dto.RescheduleMeetingRequest{
		ScheduledAt: time.Now().Add(-time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPatch, base+"/meetings/"+meetingID, &buyer, dto.UpdateMeetingRequest{Status: "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodPatch, base+"/meetings/"+meetingID, &buyer, dto.UpdateMeetingRequest{Status: "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodPatch, base+"/meetings/"+meetingID, &buyer, dto.UpdateMeetingRequest{Status: "cancelled"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "a finished meeting cannot change again")

	w = do(t, router, http.MethodPatch, base+"/meetings/unknown", &buyer, dto.UpdateMeetingRequest{Status: "cancelled"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, base+"/notes", &buyer, dto.AddNoteRequest{Body: "Can we move the date?", Category: "urgent"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	noted := decode[dto.TransactionResponse](t, w)
	last := noted.Notes[len(noted.Notes)-1]
	assert.Equal(t, "urgent", last.Category)
	assert.Equal(t, buyer.id, last.AuthorID)

	w = do(t, router, http.MethodPost, base+"/notes", &buyer, dto.AddNoteRequest{Body: "forged", Category: "system"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandler_Claim(t *testing.T) {
	router := setupRouter(t)
	tx := reserve(t, router)
	base := "/transactions/" + tx.ID

	w := do(t, router, http.MethodPost, base+"/claim", &notary, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, notary.id, decode[dto.TransactionResponse](t, w).NotaryID)

	other := identity{"notary-2", "notary"}
	w = do(t, router, http.MethodPost, base+"/claim", &other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/health/ready", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"memory"`)

	w = do(t, router, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
