package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kintaihub/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/jwt"
)

func NewRouter(JWTService jwt.Service, timecardHandler TimecardHandler, approvalHandler ApprovalHandler, expenseHandler ExpenseHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "kintai-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/timecards", func(r chi.Router) {
				r.Route("/my", func(r chi.Router) {
					r.Get("/", timecardHandler.GetMyMonth)
					r.Put("/", timecardHandler.SaveRecords)
					r.Post("/validate", timecardHandler.Validate)
				})

				// Reviewer queue
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireReviewer)
					r.Get("/review", approvalHandler.ListForReview)
				})

				r.Route("/{ledgerID}", func(r chi.Router) {
					r.Post("/submit", approvalHandler.Submit)
					r.Post("/reopen", approvalHandler.Reopen)
					r.Get("/history", approvalHandler.History)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireReviewer)
						r.Post("/approve", approvalHandler.LeaderApprove)
						r.Post("/reject", approvalHandler.LeaderReject)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/finalize", approvalHandler.AdminApprove)
					})
				})
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Route("/my", func(r chi.Router) {
					r.Get("/", expenseHandler.GetMyMonth)
					r.Put("/", expenseHandler.SaveItems)
					r.Post("/receipts", expenseHandler.AddReceipt)
					r.Delete("/receipts/{receiptID}", expenseHandler.DeleteReceipt)
				})
			})
		})
	})
	return r
}
