package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-planner/backend/internal/application/usecase/insight"
	"github.com/budget-planner/backend/internal/application/usecase/recurring"
	"github.com/budget-planner/backend/internal/application/usecase/transaction"
	"github.com/budget-planner/backend/internal/domain/valueobject"
	"github.com/budget-planner/backend/internal/infra/server/router"
	"github.com/budget-planner/backend/internal/integration/adapters"
	"github.com/budget-planner/backend/internal/integration/entrypoint/controller"
	"github.com/budget-planner/backend/internal/integration/entrypoint/middleware"
	"github.com/budget-planner/backend/internal/integration/persistence"
	"github.com/budget-planner/backend/internal/integration/persistence/model"
	"github.com/budget-planner/backend/test/integration/mock"
)

var tags string

func init() {
	flag.StringVar(&tags, "scenarios", "", "tags to run")
}

func TestFeatures(t *testing.T) {
	flag.Parse()

	suite := godog.TestSuite{
		ScenarioInitializer: func(s *godog.ScenarioContext) {
			InitializeScenario(s)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			Tags:     tags,
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type testContext struct {
	uri           string
	headers       map[string]string
	client        *http.Client
	response      *response
	db            *mock.Db
	serverPort    int
	lastPatternID uuid.UUID
}

type response struct {
	status int
	body   any
}

var serverInit sync.Once
var testDB *mock.Db
var testServerPort int
var portInit sync.Once

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
	})
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:        fmt.Sprintf("http://localhost:%d", testServerPort),
		client:     &http.Client{Timeout: 10 * time.Second},
		serverPort: testServerPort,
		db: mock.NewDb(map[string]any{
			"recurring_patterns": &model.RecurringPatternModel{},
			"bank_transactions":  &model.BankTransactionModel{},
		}),
	}

	testDB = test.db

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Data setup steps
	ctx.Given(`^monthly transactions exist for merchant "([^"]*)" with amount "([^"]*)"$`, test.monthlyTransactionsExistFor)
	ctx.Given(`^a transaction exists for merchant "([^"]*)" with amount "([^"]*)" dated (\d+) days ago$`, test.aTransactionExistsFor)
	ctx.Given(`^a recurring pattern exists for merchant "([^"]*)" with amount "([^"]*)" and status "([^"]*)" last seen (\d+) days ago$`, test.aRecurringPatternExists)
	ctx.Given(`^a recurring pattern exists for merchant "([^"]*)" with amount "([^"]*)" and status "([^"]*)" last seen (\d+) days ago expected (\d+) days ago$`, test.aRecurringPatternExistsWithExpected)
	ctx.Given(`^a recurring pattern exists for merchant "([^"]*)" with amount "([^"]*)" in category "([^"]*)" every (\d+) days$`, test.aRecurringPatternExistsInCategory)
	ctx.Given(`^a recurring pattern exists for merchant "([^"]*)" with amount "([^"]*)" expected in (\d+) days$`, test.aRecurringPatternExistsDueIn)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^the analysis run completes$`, test.theAnalysisRunCompletes)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.response = nil
	t.lastPatternID = uuid.Nil

	if t.db != nil {
		_ = t.db.ClearDB()
	}
	_ = mock.ClearRedis(mock.NewRedis())
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		go func() {
			gin.SetMode(gin.TestMode)

			// Create repositories
			patternRepo := persistence.NewRecurringPatternRepository(testDB.DbConn)
			transactionRepo := persistence.NewBankTransactionRepository(testDB.DbConn)

			// Create adapters/services
			locker := adapters.NewRedisPatternLocker(mock.NewRedis())
			geminiService := adapters.NewGeminiService("")

			detectionCfg := valueobject.DefaultDetectionConfig()

			// Create recurring use cases
			tracker := recurring.NewRunTracker()
			analyzeUseCase := recurring.NewAnalyzeTransactionsUseCase(patternRepo, transactionRepo, locker, tracker, detectionCfg)
			statusUseCase := recurring.NewGetAnalysisStatusUseCase(tracker)
			processUseCase := recurring.NewProcessTransactionUseCase(patternRepo, locker)
			sweepUseCase := recurring.NewSweepStatusesUseCase(patternRepo)
			listUseCase := recurring.NewListPatternsUseCase(patternRepo)
			dueSoonUseCase := recurring.NewGetDueSoonUseCase(patternRepo)
			overdueUseCase := recurring.NewGetOverdueUseCase(patternRepo)
			monthlyTotalsUseCase := recurring.NewGetMonthlyTotalsUseCase(patternRepo)
			updateUseCase := recurring.NewUpdatePatternUseCase(patternRepo, locker)
			deactivateUseCase := recurring.NewDeactivatePatternUseCase(patternRepo, locker)

			// Create transaction use cases
			ingestUseCase := transaction.NewIngestTransactionUseCase(transactionRepo, processUseCase)

			// Create insight use cases
			insightUseCase := insight.NewGetSpendingInsightUseCase(patternRepo, geminiService)

			// Create controllers
			healthController := controller.NewHealthController(func() bool {
				return testDB != nil && testDB.DbConn != nil
			}, func() bool {
				return mock.NewRedis().Ping(context.Background()).Err() == nil
			})

			transactionController := controller.NewTransactionController(ingestUseCase)

			recurringController := controller.NewRecurringController(
				listUseCase,
				dueSoonUseCase,
				overdueUseCase,
				monthlyTotalsUseCase,
				updateUseCase,
				deactivateUseCase,
				analyzeUseCase,
				statusUseCase,
				sweepUseCase,
			)

			insightController := controller.NewInsightController(insightUseCase)

			// Create middleware
			analysisRateLimiter := middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)

			r := router.NewRouter(healthController, transactionController, recurringController, insightController, analysisRateLimiter)
			engine := r.Setup("test")

			addr := fmt.Sprintf(":%d", testServerPort)
			server := &http.Server{
				Addr:    addr,
				Handler: engine,
			}

			_ = server.ListenAndServe()
		}()
	})

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}

func daysAgo(days int) time.Time {
	return time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -days)
}

func (t *testContext) monthlyTransactionsExistFor(merchant, amount string) error {
	for _, offset := range []int{90, 60, 30, 0} {
		if err := t.createTransaction(merchant, amount, offset); err != nil {
			return err
		}
	}
	return nil
}

func (t *testContext) aTransactionExistsFor(merchant, amount string, days int) error {
	return t.createTransaction(merchant, amount, days)
}

func (t *testContext) createTransaction(merchant, amount string, days int) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount '%s': %w", amount, err)
	}

	transactionModel := &model.BankTransactionModel{
		ID:           uuid.New(),
		MerchantName: merchant,
		Amount:       value,
		Date:         daysAgo(days),
		CategoryType: "expense",
		Category:     "Subscriptions",
		CreatedAt:    time.Now().UTC(),
	}
	return t.db.DbConn.Create(transactionModel).Error
}

func (t *testContext) aRecurringPatternExists(merchant, amount, status string, lastSeenDays int) error {
	// Derived expectation: the next occurrence follows the last by one interval.
	return t.createPattern(merchant, amount, status, "Subscriptions", 30, lastSeenDays, lastSeenDays-30)
}

func (t *testContext) aRecurringPatternExistsWithExpected(merchant, amount, status string, lastSeenDays, expectedDays int) error {
	return t.createPattern(merchant, amount, status, "Subscriptions", 30, lastSeenDays, expectedDays)
}

func (t *testContext) aRecurringPatternExistsInCategory(merchant, amount, category string, intervalDays int) error {
	return t.createPattern(merchant, amount, "ACTIVE", category, intervalDays, intervalDays, -intervalDays)
}

func (t *testContext) aRecurringPatternExistsDueIn(merchant, amount string, dueInDays int) error {
	return t.createPattern(merchant, amount, "ACTIVE", "Subscriptions", 30, 30-dueInDays, -dueInDays)
}

// createPattern seeds one pattern row. expectedDaysAgo may be negative for a
// next expected date in the future.
func (t *testContext) createPattern(merchant, amount, status, category string, intervalDays, lastSeenDays, expectedDaysAgo int) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount '%s': %w", amount, err)
	}

	patternID := uuid.New()
	t.lastPatternID = patternID

	now := time.Now().UTC()
	patternModel := &model.RecurringPatternModel{
		ID:                     patternID,
		MerchantName:           merchant,
		Amount:                 value,
		AmountTolerancePercent: 10,
		Frequency:              "MONTHLY",
		IntervalDays:           intervalDays,
		ConfidenceScore:        0.9,
		Status:                 status,
		FirstOccurrence:        daysAgo(lastSeenDays + 2*intervalDays),
		LastOccurrence:         daysAgo(lastSeenDays),
		NextExpectedDate:       daysAgo(expectedDaysAgo),
		OccurrenceCount:        3,
		CategoryType:           "expense",
		Category:               category,
		IsActive:               true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	return t.db.DbConn.Create(patternModel).Error
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	content := t.replacePlaceholders(body.Content)
	return t.executeRequest(method, path, []byte(content))
}

// theAnalysisRunCompletes polls the analysis status endpoint until the
// background run finishes.
func (t *testContext) theAnalysisRunCompletes() error {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if err := t.executeRequest(http.MethodGet, "/api/v1/recurring/analyze/status", nil); err != nil {
			return err
		}

		body, ok := t.response.body.(map[string]any)
		if !ok {
			return fmt.Errorf("status response is not a JSON object: %v", t.response.body)
		}
		if running, ok := body["is_running"].(bool); ok && !running {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return errors.New("analysis run did not complete in time")
}

// replacePlaceholders substitutes dynamic values in request bodies.
func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{today}", time.Now().UTC().Format("2006-01-02"))
	content = strings.ReplaceAll(content, "{pattern_id}", t.lastPatternID.String())
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var req *http.Request
	var err error

	path = strings.ReplaceAll(path, "{pattern_id}", t.lastPatternID.String())
	url := t.uri + path

	if payload != nil {
		req, err = http.NewRequest(method, url, bytes.NewReader(payload))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status: resp.StatusCode,
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
	} else {
		t.response.body = responseBody

		// Pattern responses carry a confidence score; transactions do not.
		if idStr, ok := responseBody["id"].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil && responseBody["confidence_score"] != nil {
				t.lastPatternID = id
			}
		}
	}

	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	if entity, ok := t.db.GetModel(table); ok {
		entityType := reflect.TypeOf(entity).Elem()
		entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
		entitySlicePtr := reflect.New(entitySlice.Type())
		entitySlicePtr.Elem().Set(entitySlice)

		result := t.db.DbConn.Unscoped().Find(entitySlicePtr.Interface())
		if result.Error != nil {
			return result.Error
		}

		count := entitySlicePtr.Elem().Len()
		if count != quantity {
			return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
		}
		return nil
	}
	return fmt.Errorf("table '%s' not found in models", table)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}

	if entity, ok := t.db.GetModel(table); ok {
		entityType := reflect.TypeOf(entity).Elem()
		entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
		entitySlicePtr := reflect.New(entitySlice.Type())
		entitySlicePtr.Elem().Set(entitySlice)

		query := t.db.DbConn.Unscoped()
		for key, value := range criteria {
			query = query.Where(fmt.Sprintf("%s = ?", key), value)
		}

		result := query.Find(entitySlicePtr.Interface())
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		count := entitySlicePtr.Elem().Len()
		if count != quantity {
			return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
		}
		return nil
	}
	return fmt.Errorf("table '%s' not found in models", table)
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
