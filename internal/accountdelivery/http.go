// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

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

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Open(ctx context.Context, ownerID int64, kind domain.AccountKind, initialDeposit moneypkg.Money) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetByNumber(ctx context.Context, number string) (domain.Account, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	ChangeStatus(ctx context.Context, id int64, status domain.AccountStatus) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.Account `json:"account"`
}

type dataAccounts struct {
	Accounts []domain.Account `json:"accounts"`
}

// statusCode maps service errors onto HTTP statuses.
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

type createRequest struct {
	OwnerID        int64  `json:"owner_id" binding:"required,min=1"`
	Kind           string `json:"kind" binding:"required,account_kind"`
	InitialDeposit string `json:"initial_deposit"`
}

// Create handles http request to open an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	kind, err := domain.ParseAccountKind(req.Kind)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	deposit := moneypkg.Zero
	if req.InitialDeposit != "" {
		if deposit, err = moneypkg.NewFromString(req.InitialDeposit); err != nil {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}
	}

	account, err := h.service.Open(ctx, req.OwnerID, kind, deposit)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Data(data{account}))
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	account, err := h.service.Get(ctx, req.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(data{account}))
}

type numberRequest struct {
	Number string `uri:"number" binding:"required"`
}

// GetByNumber handles http request to get account by its account number.
func (h *Handler) GetByNumber(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	account, err := h.service.GetByNumber(ctx, req.Number)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(data{account}))
}

// ListByOwner handles http request to list accounts of an owner.
func (h *Handler) ListByOwner(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	accounts, err := h.service.ListByOwner(ctx, req.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(dataAccounts{accounts}))
}

// List handles http request to list accounts.
func (h *Handler) List(gctx *gin.Context) {
	accounts, err := h.service.List(gctx.Request.Context())
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(dataAccounts{accounts}))
}

type statusRequest struct {
	Status string `json:"status" binding:"required,account_status"`
}

// ChangeStatus handles http request to freeze, activate or close an account.
func (h *Handler) ChangeStatus(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req statusRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	status, err := domain.ParseAccountStatus(req.Status)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	account, err := h.service.ChangeStatus(ctx, uri.ID, status)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Data(data{account}))
}
