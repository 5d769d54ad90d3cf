package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/lojaviva/admin-api-go/internal/domain"
	"github.com/lojaviva/admin-api-go/internal/infra/observability"
	"github.com/lojaviva/admin-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// maxUploadSize caps image uploads at 5 MiB.
const maxUploadSize = 5 << 20

// Services groups everything the router needs.
type Services struct {
	Catalog       *service.CatalogService
	Finance       *service.FinanceService
	Reports       *service.ReportService
	Promotions    *service.PromotionService
	Notifications *service.NotificationService
	Settings      *service.SettingsService
	Dashboard     *service.DashboardService
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the Loja Viva admin frontend.
func NewRouter(svcs Services, metrics *observability.Metrics, jwtSecret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
		AllowCredentials: false,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svcs.Finance, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Device registration is called by the storefront app, not the
		// admin console, so it sits outside the operator auth guard.
		r.Post("/devices", registerDeviceHandler(svcs.Notifications, logger))

		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(jwtSecret, logger))

			r.Route("/stores/{storeId}", func(r chi.Router) {

				// =============================================
				// 1. 📊 Dashboard
				// =============================================
				r.Get("/dashboard", dashboardHandler(svcs.Dashboard, logger))

				// =============================================
				// 2. 🛍 Catálogo
				// =============================================
				r.Get("/products", listProductsHandler(svcs.Catalog, logger))
				r.Post("/products", createProductHandler(svcs.Catalog, logger))
				r.Get("/products/{productId}", getProductHandler(svcs.Catalog, logger))
				r.Put("/products/{productId}", updateProductHandler(svcs.Catalog, logger))
				r.Delete("/products/{productId}", deleteProductHandler(svcs.Catalog, logger))
				r.Post("/products/{productId}/image", uploadProductImageHandler(svcs.Catalog, logger))
				r.Delete("/products/{productId}/image", removeProductImageHandler(svcs.Catalog, logger))

				r.Get("/collections", listCollectionsHandler(svcs.Catalog, logger))
				r.Post("/collections", createCollectionHandler(svcs.Catalog, logger))
				r.Delete("/collections/{collectionId}", deleteCollectionHandler(svcs.Catalog, logger))

				// =============================================
				// 3. 🏷 Promoções
				// =============================================
				r.Get("/promotions", listPromotionsHandler(svcs.Promotions, logger))
				r.Post("/promotions", createPromotionHandler(svcs.Promotions, logger))
				r.Get("/promotions/{promotionId}", getPromotionHandler(svcs.Promotions, logger))
				r.Put("/promotions/{promotionId}", updatePromotionHandler(svcs.Promotions, logger))
				r.Delete("/promotions/{promotionId}", deletePromotionHandler(svcs.Promotions, logger))
				r.Post("/promotions/{promotionId}/toggle", togglePromotionHandler(svcs.Promotions, logger))

				// =============================================
				// 4. 💰 Financeiro
				// =============================================
				r.Get("/transactions", listTransactionsHandler(svcs.Finance, logger))
				r.Post("/transactions", createTransactionHandler(svcs.Finance, logger))
				r.Get("/transactions/{transactionId}", getTransactionHandler(svcs.Finance, logger))
				r.Put("/transactions/{transactionId}", updateTransactionHandler(svcs.Finance, logger))
				r.Delete("/transactions/{transactionId}", deleteTransactionHandler(svcs.Finance, logger))

				r.Get("/finance/summary", financeSummaryHandler(svcs.Finance, logger))
				r.Get("/finance/report", downloadReportHandler(svcs.Reports, logger))

				r.Get("/bank-accounts", listBankAccountsHandler(svcs.Finance, logger))
				r.Post("/bank-accounts", createBankAccountHandler(svcs.Finance, logger))
				r.Put("/bank-accounts/{accountId}", updateBankAccountHandler(svcs.Finance, logger))
				r.Delete("/bank-accounts/{accountId}", deleteBankAccountHandler(svcs.Finance, logger))

				// =============================================
				// 5. 🔔 Notificações
				// =============================================
				r.Get("/notifications", listNotificationsHandler(svcs.Notifications, logger))
				r.Post("/notifications", sendNotificationHandler(svcs.Notifications, logger))
				r.Get("/notifications/{notificationId}", getNotificationHandler(svcs.Notifications, logger))
				r.Post("/notifications/{notificationId}/cancel", cancelNotificationHandler(svcs.Notifications, logger))
				r.Get("/notifications/{notificationId}/recipients", listRecipientsHandler(svcs.Notifications, logger))

				// =============================================
				// 6. ⚙️ Configurações da Loja
				// =============================================
				r.Get("/settings", getSettingsHandler(svcs.Settings, logger))
				r.Put("/settings", updateSettingsHandler(svcs.Settings, logger))
				r.Post("/settings/images/{kind}", uploadSettingsImageHandler(svcs.Settings, logger))
				r.Delete("/settings/images/{kind}", removeSettingsImageHandler(svcs.Settings, logger))
			})
		})
	})

	return r
}

// ============================================================
// Health
// ============================================================

type serviceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latency_ms"`
	LastChecked string `json:"last_checked"`
}

func healthzHandler(finance *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []serviceHealth{
			{Name: "admin-api", Status: "healthy", LastChecked: now},
		}

		if finance != nil {
			start := time.Now()
			_, err := finance.ListBankAccounts(ctx, "health-check")
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				logger.Warn("health probe failed", zap.Error(err))
				status = "degraded"
			}
			services = append(services, serviceHealth{
				Name: "supabase", Status: status, LatencyMs: latency, LastChecked: now,
			})
		}

		overall := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overall = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":   overall,
			"services": services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ============================================================
// 1. Dashboard
// ============================================================

func dashboardHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/dashboard")
		defer span.End()

		storeID := chi.URLParam(r, "storeId")
		span.SetAttributes(attribute.String("store.id", storeID))

		overview, err := svc.GetOverview(ctx, storeID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}

// ============================================================
// 2. Catálogo
// ============================================================

func listProductsHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/products")
		defer span.End()

		storeID := chi.URLParam(r, "storeId")
		collectionID := r.URL.Query().Get("collection")

		products, err := svc.ListProducts(ctx, storeID, collectionID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	}
}

func getProductHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/products/{productId}")
		defer span.End()

		product, err := svc.GetProduct(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "productId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func createProductHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/products")
		defer span.End()

		var req domain.SaveProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		product, err := svc.CreateProduct(ctx, chi.URLParam(r, "storeId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, product)
	}
}

func updateProductHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/stores/{storeId}/products/{productId}")
		defer span.End()

		var req domain.SaveProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		product, err := svc.UpdateProduct(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "productId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func deleteProductHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/stores/{storeId}/products/{productId}")
		defer span.End()

		if err := svc.DeleteProduct(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "productId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func uploadProductImageHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/products/{productId}/image")
		defer span.End()

		data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read upload")
			return
		}
		if len(data) == 0 {
			writeError(w, http.StatusBadRequest, "empty upload")
			return
		}
		if len(data) > maxUploadSize {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}

		product, err := svc.UploadProductImage(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "productId"),
			r.Header.Get("Content-Type"), data)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func removeProductImageHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/stores/{storeId}/products/{productId}/image")
		defer span.End()

		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		product, err := svc.RemoveProductImage(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "productId"), req.URL)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func listCollectionsHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/collections")
		defer span.End()

		collections, err := svc.ListCollections(ctx, chi.URLParam(r, "storeId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"collections": collections})
	}
}

func createCollectionHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/collections")
		defer span.End()

		var req struct {
			Name     string `json:"name"`
			Position int    `json:"position"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		collection, err := svc.CreateCollection(ctx, chi.URLParam(r, "storeId"), req.Name, req.Position)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, collection)
	}
}

func deleteCollectionHandler(svc *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/stores/{storeId}/collections/{collectionId}")
		defer span.End()

		if err := svc.DeleteCollection(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "collectionId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// 3. Promoções
// ============================================================

func listPromotionsHandler(svc *service.PromotionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/promotions")
		defer span.End()

		promotions, err := svc.ListPromotions(ctx, chi.URLParam(r, "storeId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"promotions": promotions})
	}
}

func getPromotionHandler(svc *service.PromotionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/promotions/{promotionId}")
		defer span.End()

		promotion, err := svc.GetPromotion(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "promotionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, promotion)
	}
}

func createPromotionHandler(svc *service.PromotionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/promotions")
		defer span.End()

		var req domain.CreatePromotionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		promotion, err := svc.CreatePromotion(ctx, chi.URLParam(r, "storeId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, promotion)
	}
}

func updatePromotionHandler(svc *service.PromotionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/stores/{storeId}/promotions/{promotionId}")
		defer span.End()

		var req domain.UpdatePromotionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		promotion, err := svc.UpdatePromotion(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "promotionId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, promotion)
	}
}

func deletePromotionHandler(svc *service.PromotionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/stores/{storeId}/promotions/{promotionId}")
		defer span.End()

		if err := svc.DeletePromotion(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "promotionId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func togglePromotionHandler(svc *service.PromotionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/promotions/{promotionId}/toggle")
		defer span.End()

		promotion, err := svc.TogglePromotion(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "promotionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, promotion)
	}
}

// ============================================================
// 4. Financeiro
// ============================================================

func listTransactionsHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/transactions")
		defer span.End()

		storeID := chi.URLParam(r, "storeId")
		period := domain.Period(r.URL.Query().Get("period"))
		if period == "" {
			period = domain.PeriodMonth
		}
		txType := domain.TransactionType(r.URL.Query().Get("type"))
		span.SetAttributes(attribute.String("period", string(period)))

		transactions, err := svc.ListTransactions(ctx, storeID, period, txType)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
	}
}

func getTransactionHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/transactions/{transactionId}")
		defer span.End()

		tx, err := svc.GetTransaction(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "transactionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func createTransactionHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/transactions")
		defer span.End()

		var req domain.CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		tx, err := svc.CreateTransaction(ctx, chi.URLParam(r, "storeId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}

func updateTransactionHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/stores/{storeId}/transactions/{transactionId}")
		defer span.End()

		var req domain.UpdateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		tx, err := svc.UpdateTransaction(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "transactionId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func deleteTransactionHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/stores/{storeId}/transactions/{transactionId}")
		defer span.End()

		if err := svc.DeleteTransaction(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "transactionId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func financeSummaryHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/finance/summary")
		defer span.End()

		period := domain.Period(r.URL.Query().Get("period"))
		if period == "" {
			period = domain.PeriodMonth
		}

		summary, err := svc.GetSummary(ctx, chi.URLParam(r, "storeId"), period)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func downloadReportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/finance/report")
		defer span.End()

		period := domain.Period(r.URL.Query().Get("period"))
		if period == "" {
			period = domain.PeriodAll
		}

		report, err := svc.ExportTransactions(ctx, chi.URLParam(r, "storeId"), period)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+service.ReportFilename(time.Now())+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(report)
	}
}

func listBankAccountsHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/bank-accounts")
		defer span.End()

		accounts, err := svc.ListBankAccounts(ctx, chi.URLParam(r, "storeId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bank_accounts": accounts})
	}
}

func createBankAccountHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/bank-accounts")
		defer span.End()

		var req domain.SaveBankAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		account, err := svc.CreateBankAccount(ctx, chi.URLParam(r, "storeId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, account)
	}
}

func updateBankAccountHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/stores/{storeId}/bank-accounts/{accountId}")
		defer span.End()

		var req domain.SaveBankAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		account, err := svc.UpdateBankAccount(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "accountId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

func deleteBankAccountHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/stores/{storeId}/bank-accounts/{accountId}")
		defer span.End()

		if err := svc.DeleteBankAccount(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "accountId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// 5. Notificações
// ============================================================

func listNotificationsHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/notifications")
		defer span.End()

		notifications, err := svc.ListNotifications(ctx, chi.URLParam(r, "storeId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
	}
}

func getNotificationHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/notifications/{notificationId}")
		defer span.End()

		notification, err := svc.GetNotification(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "notificationId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, notification)
	}
}

func sendNotificationHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/notifications")
		defer span.End()

		var req domain.SendNotificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		notification, err := svc.Send(ctx, chi.URLParam(r, "storeId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		status := http.StatusCreated
		if notification.Status == domain.NotificationScheduled {
			status = http.StatusAccepted
		}
		writeJSON(w, status, notification)
	}
}

func cancelNotificationHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/notifications/{notificationId}/cancel")
		defer span.End()

		if err := svc.Cancel(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "notificationId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listRecipientsHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/notifications/{notificationId}/recipients")
		defer span.End()

		recipients, err := svc.ListRecipients(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "notificationId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recipients": recipients})
	}
}

func registerDeviceHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/devices")
		defer span.End()

		var req domain.RegisterDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		device, err := svc.RegisterDevice(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, device)
	}
}

// ============================================================
// 6. Configurações da Loja
// ============================================================

func getSettingsHandler(svc *service.SettingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/stores/{storeId}/settings")
		defer span.End()

		settings, err := svc.GetSettings(ctx, chi.URLParam(r, "storeId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func updateSettingsHandler(svc *service.SettingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/stores/{storeId}/settings")
		defer span.End()

		var req domain.UpdateSettingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		settings, err := svc.UpdateSettings(ctx, chi.URLParam(r, "storeId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func uploadSettingsImageHandler(svc *service.SettingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/stores/{storeId}/settings/images/{kind}")
		defer span.End()

		data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read upload")
			return
		}
		if len(data) == 0 {
			writeError(w, http.StatusBadRequest, "empty upload")
			return
		}
		if len(data) > maxUploadSize {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}

		settings, err := svc.UploadImage(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "kind"),
			r.Header.Get("Content-Type"), data)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func removeSettingsImageHandler(svc *service.SettingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/stores/{storeId}/settings/images/{kind}")
		defer span.End()

		settings, err := svc.RemoveImage(ctx, chi.URLParam(r, "storeId"), chi.URLParam(r, "kind"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}
