package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ledgercast/internal/handlers"
	"ledgercast/internal/logger"
	"ledgercast/internal/middleware"
	"ledgercast/internal/models"
	"ledgercast/internal/services"
	"ledgercast/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Subcategory{},
		&models.FinancialRow{},
		&models.MonthlyValue{},
		&models.ProjectionRecord{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	workbookService := services.NewWorkbookService(db)
	forecastService := services.NewForecastService(db, workbookService)
	cashflowService := services.NewCashflowService(db, workbookService)
	quoteService := services.NewQuoteService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	workbookHandler := handlers.NewWorkbookHandler(workbookService, auditService)
	recordHandler := handlers.NewRecordHandler(forecastService, auditService)
	cashflowHandler := handlers.NewCashflowHandler(cashflowService)
	quoteHandler := handlers.NewQuoteHandler(quoteService, auditService)
	calculatorHandler := handlers.NewCalculatorHandler()
	auditHandler := handlers.NewAuditHandler(auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	protected.GET("/workbook", workbookHandler.GetWorkbook)
	protected.GET("/workbook/rollup", workbookHandler.GetRollup)

	categories := protected.Group("/categories")
	categories.POST("", workbookHandler.CreateCategory)
	categories.PUT("/:id", workbookHandler.UpdateCategory)
	categories.DELETE("/:id", workbookHandler.DeleteCategory)
	categories.POST("/:id/subcategories", workbookHandler.CreateSubcategory)

	subcategories := protected.Group("/subcategories")
	subcategories.PUT("/:id", workbookHandler.UpdateSubcategory)
	subcategories.DELETE("/:id", workbookHandler.DeleteSubcategory)
	subcategories.POST("/:id/rows", workbookHandler.CreateRow)

	rows := protected.Group("/rows")
	rows.PUT("/:id", workbookHandler.UpdateRow)
	rows.DELETE("/:id", workbookHandler.DeleteRow)
	rows.PUT("/:id/values", workbookHandler.SetRowValue)
	rows.GET("/:id/values", workbookHandler.GetRowValues)

	forecasts := protected.Group("/forecasts")
	forecasts.POST("", recordHandler.Create(models.RecordKindForecast))
	forecasts.GET("", recordHandler.List(models.RecordKindForecast))
	forecasts.POST("/check-overlap", recordHandler.CheckOverlap(models.RecordKindForecast))

	scenarios := protected.Group("/scenarios")
	scenarios.POST("", recordHandler.Create(models.RecordKindScenario))
	scenarios.GET("", recordHandler.List(models.RecordKindScenario))
	scenarios.POST("/check-overlap", recordHandler.CheckOverlap(models.RecordKindScenario))

	records := protected.Group("/records")
	records.GET("/:id", recordHandler.Get)
	records.PUT("/:id", recordHandler.Update)
	records.DELETE("/:id", recordHandler.Delete)
	records.POST("/:id/pause", recordHandler.Pause)
	records.POST("/:id/activate", recordHandler.Activate)
	records.POST("/:id/apply", recordHandler.Apply)

	protected.POST("/cashflow/simulate", cashflowHandler.Simulate)

	quotes := protected.Group("/quotes")
	quotes.POST("", quoteHandler.Create)
	quotes.GET("", quoteHandler.List)
	quotes.GET("/:id", quoteHandler.Get)
	quotes.PUT("/:id", quoteHandler.Update)
	quotes.PUT("/:id/status", quoteHandler.UpdateStatus)
	quotes.DELETE("/:id", quoteHandler.Delete)

	calculators := protected.Group("/calculators")
	calculators.POST("/loan-payment", calculatorHandler.LoanPayment)
	calculators.POST("/future-value", calculatorHandler.FutureValue)
	calculators.POST("/savings-goal", calculatorHandler.SavingsGoal)

	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.GET("/audit-logs", auditHandler.List)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a staff member and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test Staff"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// buildWorkbook creates a category, subcategory, and row, returning their IDs.
func (app *testApp) buildWorkbook(t *testing.T, token, key, rowType string) (categoryID, subcategoryID, rowID string) {
	t.Helper()

	rec := app.request("POST", "/api/v1/categories",
		fmt.Sprintf(`{"name":%q,"key":%q,"type":%q}`, key, key, rowType), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	categoryID = parseJSON(t, rec)["id"].(string)

	rec = app.request("POST", "/api/v1/categories/"+categoryID+"/subcategories",
		`{"name":"General"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create subcategory failed: %d %s", rec.Code, rec.Body.String())
	}
	subcategoryID = parseJSON(t, rec)["id"].(string)

	rec = app.request("POST", "/api/v1/subcategories/"+subcategoryID+"/rows",
		`{"name":"Main"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create row failed: %d %s", rec.Code, rec.Body.String())
	}
	rowID = parseJSON(t, rec)["id"].(string)
	return categoryID, subcategoryID, rowID
}

// setMonthValue writes a raw monthly value onto a row.
func (app *testApp) setMonthValue(t *testing.T, token, rowID, ym, value string) {
	t.Helper()
	rec := app.request("PUT", "/api/v1/rows/"+rowID+"/values",
		fmt.Sprintf(`{"month":%q,"value":%q}`, ym, value), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("set value %s=%s failed: %d %s", ym, value, rec.Code, rec.Body.String())
	}
}
