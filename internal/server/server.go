// Package server exposes the REST API: auth, expense/income ledgers,
// filtering and summaries, XLSX export, and the receipt extraction endpoint.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/expenselens/expense-tracker/internal/auth"
	"github.com/expenselens/expense-tracker/internal/export"
	"github.com/expenselens/expense-tracker/internal/ocr"
	"github.com/expenselens/expense-tracker/internal/pipeline"
	"github.com/expenselens/expense-tracker/internal/repository"
)

type Server struct {
	Users     repository.UserRepository
	Txs       repository.TransactionRepository
	Tokens    *auth.TokenIssuer
	OCR       ocr.TextExtractor
	Extractor pipeline.RecordExtractor
	Export    *export.Service
	Logger    *slog.Logger
}

// NewRouter wires the gin engine. corsOrigin restricts browsers to the
// frontend host; tokens are required on everything under /api except
// register and login.
func (s *Server) NewRouter(corsOrigin string) *gin.Engine {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "backend is running"})
	})

	api := r.Group("/api")
	api.POST("/register", s.Register)
	api.POST("/login", s.Login)

	authed := api.Group("")
	authed.Use(AuthMiddleware(s.Tokens))

	authed.GET("/profile", s.Profile)

	authed.POST("/expenses", s.createTransaction(txExpense))
	authed.GET("/expenses", s.listTransactions(txExpense))
	authed.GET("/expenses/filter", s.filterTransactions(txExpense))
	authed.PUT("/expenses/:id", s.updateTransaction(txExpense))
	authed.DELETE("/expenses/:id", s.deleteTransaction(txExpense))

	authed.POST("/incomes", s.createTransaction(txIncome))
	authed.GET("/incomes", s.listTransactions(txIncome))
	authed.GET("/incomes/filter", s.filterTransactions(txIncome))
	authed.PUT("/incomes/:id", s.updateTransaction(txIncome))
	authed.DELETE("/incomes/:id", s.deleteTransaction(txIncome))

	authed.GET("/summary/period", s.SummaryPeriod)
	authed.POST("/extract", s.Extract)
	authed.GET("/export", s.ExportXLSX)

	return r
}
