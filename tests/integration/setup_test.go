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

	"opcoes/internal/handlers"
	"opcoes/internal/logger"
	"opcoes/internal/middleware"
	"opcoes/internal/models"
	"opcoes/internal/services"
	"opcoes/internal/validator"
)

const pipelineKey = "test-pipeline-key"

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
		&models.Structure{},
		&models.TradingOperation{},
		&models.RollPosition{},
		&models.ExerciseRecord{},
		&models.Asset{},
		&models.CashFlowEntry{},
		&models.Settings{},
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
	settingsService := services.NewSettingsService(db)
	structureService := services.NewStructureService(db)
	rollService := services.NewRollService(db, settingsService)
	exerciseService := services.NewExerciseService(db, settingsService)
	treasuryService := services.NewTreasuryService(db)
	operationService := services.NewOperationService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	structureHandler := handlers.NewStructureHandler(structureService, auditService)
	rollHandler := handlers.NewRollHandler(rollService, auditService)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService, auditService)
	assetHandler := handlers.NewAssetHandler(treasuryService, auditService)
	cashFlowHandler := handlers.NewCashFlowHandler(treasuryService, auditService)
	operationHandler := handlers.NewOperationHandler(operationService, auditService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	pipelineHandler := handlers.NewPipelineHandler(treasuryService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Pipeline routes
	pipeline := v1.Group("/pipeline", middleware.PipelineAuthMiddleware(pipelineKey))
	pipeline.POST("/prices", pipelineHandler.UpdateMarketPrices)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	structures := protected.Group("/structures")
	structures.POST("", structureHandler.CreateStructure)
	structures.GET("", structureHandler.GetUserStructures)
	structures.GET("/:id", structureHandler.GetStructureByID)
	structures.PUT("/:id", structureHandler.UpdateStructure)
	structures.DELETE("/:id", structureHandler.DeleteStructure)
	structures.POST("/:id/activate", structureHandler.ActivateStructure)
	structures.POST("/:id/finalize", structureHandler.FinalizeStructure)
	structures.POST("/:id/rolls", rollHandler.CreateRoll)
	structures.GET("/:id/rolls", rollHandler.GetStructureRolls)
	structures.POST("/:id/exercises", exerciseHandler.CreateExercise)
	structures.GET("/:id/exercises", exerciseHandler.GetStructureExercises)
	structures.POST("/:id/operations/import", operationHandler.ImportOperations)
	structures.GET("/:id/operations", operationHandler.GetStructureOperations)

	rolls := protected.Group("/rolls")
	rolls.GET("/:id", rollHandler.GetRollByID)
	rolls.DELETE("/:id", rollHandler.DeleteRoll)

	exercises := protected.Group("/exercises")
	exercises.GET("/:id", exerciseHandler.GetExerciseByID)

	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.GetUserAssets)
	assets.GET("/:id", assetHandler.GetAssetByID)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)

	cashflow := protected.Group("/cashflow")
	cashflow.POST("", cashFlowHandler.CreateCashFlowEntry)
	cashflow.GET("", cashFlowHandler.GetCashFlow)
	cashflow.DELETE("/:id", cashFlowHandler.DeleteCashFlowEntry)

	protected.GET("/treasury/summary", cashFlowHandler.GetTreasurySummary)

	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)

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

// pipelineRequest posts a price batch with the pipeline API key.
func (app *testApp) pipelineRequest(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/pipeline/prices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", pipelineKey)
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

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// createStructure creates a building structure with a single short call and
// returns its ID and the ID of the first leg.
func (app *testApp) createStructure(t *testing.T, token string) (structureID, legID string) {
	t.Helper()
	body := `{
		"name": "Trava de alta PETR4",
		"legs": [
			{"symbol": "PETRH350", "kind": "call", "side": "short", "strike": "35", "premium": "1.50", "spot_price": "34", "quantity": "100", "expiration": "2026-10-16T00:00:00Z"}
		],
		"net_premium": "150",
		"assembly_cost": "50"
	}`
	rec := app.request("POST", "/api/v1/structures", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create structure failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	structure := result["structure"].(map[string]interface{})
	legs := structure["legs"].([]interface{})
	leg := legs[0].(map[string]interface{})
	return structure["id"].(string), leg["id"].(string)
}

// activateStructure moves a building structure into active status.
func (app *testApp) activateStructure(t *testing.T, token, structureID string) {
	t.Helper()
	rec := app.request("POST", "/api/v1/structures/"+structureID+"/activate", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate structure failed: %d %s", rec.Code, rec.Body.String())
	}
}
