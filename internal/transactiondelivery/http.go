// Package transactiondelivery manages delivery layer of ledger transactions.
package transactiondelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Execute(ctx context.Context, req domain.TransactionRequest) (domain.Transaction, error)
	Deposit(ctx context.Context, toAccountID int64, amount moneypkg.Money, description string) (domain.Transaction, error)
	Withdraw(ctx context.Context, fromAccountID int64, amount moneypkg.Money, description string) (domain.Transaction, error)
	Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount moneypkg.Money, description string) (domain.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (domain.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) Handler {
	return Handler{service: ts}
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}

func statusCode(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsRuleViolation(err):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

func respondError(gctx *gin.Context, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		err = errorspkg.ErrInternal
	}

	gctx.JSON(code, web.Error(err))
}

func respondTransaction(gctx *gin.Context, t domain.Transaction, err error) {
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Data(data{t}))
}

// bind decodes the JSON body into req and parses amount. It writes the
// 400 response itself and reports false on failure.
func bind(gctx *gin.Context, req interface{}, amount func() string) (moneypkg.Money, bool) {
	l := zerolog.Ctx(gctx.Request.Context())

	if err := gctx.ShouldBindJSON(req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return moneypkg.Money{}, false
	}

	m, err := moneypkg.NewFromString(amount())
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return moneypkg.Money{}, false
	}

	return m, true
}

type executeRequest struct {
	Kind          string `json:"kind" binding:"required,transaction_kind"`
	FromAccountID int64  `json:"from_account_id" binding:"omitempty,min=1"`
	ToAccountID   int64  `json:"to_account_id" binding:"omitempty,min=1"`
	Amount        string `json:"amount" binding:"required"`
	Description   string `json:"description" binding:"required"`
}

// Create handles http request to execute a transaction of any kind.
func (h *Handler) Create(gctx *gin.Context) {
	var req executeRequest

	amount, ok := bind(gctx, &req, func() string { return req.Amount })
	if !ok {
		return
	}

	kind, err := domain.ParseTransactionKind(req.Kind)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	t, err := h.service.Execute(gctx.Request.Context(), domain.TransactionRequest{
		Kind:          kind,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
		Description:   req.Description,
	})
	respondTransaction(gctx, t, err)
}

type depositRequest struct {
	ToAccountID int64  `json:"to_account_id" binding:"required,min=1"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// Deposit handles http request to deposit money into an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	var req depositRequest

	amount, ok := bind(gctx, &req, func() string { return req.Amount })
	if !ok {
		return
	}

	t, err := h.service.Deposit(gctx.Request.Context(), req.ToAccountID, amount, req.Description)
	respondTransaction(gctx, t, err)
}

type withdrawalRequest struct {
	FromAccountID int64  `json:"from_account_id" binding:"required,min=1"`
	Amount        string `json:"amount" binding:"required"`
	Description   string `json:"description" binding:"required"`
}

// Withdraw handles http request to withdraw money from an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	var req withdrawalRequest

	amount, ok := bind(gctx, &req, func() string { return req.Amount })
	if !ok {
		return
	}

	t, err := h.service.Withdraw(gctx.Request.Context(), req.FromAccountID, amount, req.Description)
	respondTransaction(gctx, t, err)
}

type transferRequest struct {
	FromAccountID int64  `json:"from_account_id" binding:"required,min=1"`
	ToAccountID   int64  `json:"to_account_id" binding:"required,min=1"`
	Amount        string `json:"amount" binding:"required"`
	Description   string `json:"description" binding:"required"`
}

// Transfer handles http request to move money between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	var req transferRequest

	amount, ok := bind(gctx, &req, func() string { return req.Amount })
	if !ok {
		return
	}

	t, err := h.service.Transfer(gctx.Request.Context(), req.FromAccountID, req.ToAccountID, amount, req.Description)
	respondTransaction(gctx, t, err)
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get a transaction.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	t, err := h.service.GetTransaction(ctx, req.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(data{t}))
}

// ListByAccount handles http request to list the transactions of an account.
func (h *Handler) ListByAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	items, err := h.service.ListAccountTransactions(ctx, req.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(dataTransactions{items}))
}

// List handles http request to list every transaction.
func (h *Handler) List(gctx *gin.Context) {
	items, err := h.service.ListTransactions(gctx.Request.Context())
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(dataTransactions{items}))
}
