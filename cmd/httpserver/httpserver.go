// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/ledgerrepo"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transactiondelivery"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/retrypkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Repo is the persistence the server is wired to.
type Repo interface {
	domain.UnitOfWork
	domain.Stores
}

// New creates Server type backed by the Postgres connection.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	engine, err := NewEngine(ledgerrepo.NewRepoPGS(conn), logger, config)
	if err != nil {
		return nil, err
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}

// NewEngine wires services and routes on top of repo.
func NewEngine(repo Repo, logger zerolog.Logger, config configpkg.Config) (*gin.Engine, error) {
	numbers, err := domain.NewAccountNumberGenerator(config.BankCode, config.BranchCode, config.AccountTypeCode)
	if err != nil {
		return nil, fmt.Errorf("cannot create account number generator: %w", err)
	}

	retry := retrypkg.Policy{
		MaxRetries:      config.TxMaxRetries,
		InitialInterval: config.TxRetryInitialInterval,
		MaxInterval:     config.TxRetryMaxInterval,
	}

	accountService := accountservice.New(repo, accountservice.Config{Numbers: numbers, Retry: retry})
	ledgerService := ledgerservice.New(repo, ledgerservice.Config{Retry: retry})

	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(ledgerService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := accountdelivery.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("cannot register account validators: %w", err)
		}

		if err := transactiondelivery.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("cannot register transaction validators: %w", err)
		}
	}

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts", accountHandler.List)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.PUT("/accounts/:id/status", accountHandler.ChangeStatus)
	engine.GET("/accounts/:id/transactions", transactionHandler.ListByAccount)
	engine.GET("/account-numbers/:number", accountHandler.GetByNumber)
	engine.GET("/owners/:id/accounts", accountHandler.ListByOwner)

	engine.POST("/transactions", transactionHandler.Create)
	engine.GET("/transactions", transactionHandler.List)
	engine.GET("/transactions/:id", transactionHandler.Get)
	engine.POST("/deposits", transactionHandler.Deposit)
	engine.POST("/withdrawals", transactionHandler.Withdraw)
	engine.POST("/transfers", transactionHandler.Transfer)

	return engine, nil
}
