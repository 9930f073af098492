// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
	"github.com/finance-tracker/ledger/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// suite holds the resources shared by every scenario.
type suite struct {
	db       *mock.Db
	timeMock *mock.Time
	apiMock  *mock.ApiMock
	injector *dependency.Injector
	server   *httptest.Server
}

var (
	shared     *suite
	sharedOnce sync.Once
	sharedErr  error
)

func startSuite() (*suite, error) {
	sharedOnce.Do(func() {
		gin.SetMode(gin.TestMode)

		s := &suite{
			timeMock: mock.NewTime(),
			apiMock:  mock.NewApiServer(),
			db: mock.NewDb("ledger", map[string]any{
				"users":           &model.UserModel{},
				"categories":      &model.CategoryModel{},
				"transactions":    &model.TransactionModel{},
				"budgets":         &model.BudgetModel{},
				"user_statistics": &model.UserStatisticsModel{},
				"email_queue":     &model.EmailQueueModel{},
			}),
		}
		s.apiMock.Start()

		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.Server.HeavyRateLimit = 0
		cfg.JWT.Secret = testJWTSecret
		cfg.Notification.Transport = dependency.NotifierEmail
		cfg.Email.ResendAPIKey = "re_test_key"
		cfg.Email.ResendBaseURL = s.apiMock.GetUrl()
		cfg.Email.AppBaseURL = "http://ledger.test"

		injector, err := dependency.NewInjector(
			cfg,
			s.db.DbConn,
			mock.NewRedis(),
			func() bool { return s.db.DbConn != nil },
			dependency.WithClock(s.timeMock),
		)
		if err != nil {
			sharedErr = fmt.Errorf("failed to wire test server: %w", err)
			return
		}
		s.injector = injector
		s.server = httptest.NewServer(injector.Router.Setup(cfg.Server.Environment))
		shared = s
	})
	return shared, sharedErr
}

// testContext holds the state of one scenario.
type testContext struct {
	suite       *suite
	client      *http.Client
	headers     map[string]string
	response    *response
	accessToken string
	userID      uuid.UUID
	userEmail   string
	vars        map[string]string
}

type response struct {
	status int
	body   any
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		if _, err := startSuite(); err != nil {
			panic(err)
		}
	})

	ctx.AfterSuite(func() {
		if shared == nil {
			return
		}
		shared.server.Close()
		shared.apiMock.Close()
		shared.injector.Close()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	t := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		s, err := startSuite()
		if err != nil {
			return ctx, err
		}
		t.suite = s
		return ctx, t.before()
	})

	// Setup steps
	ctx.Step(`^the API server is running$`, t.theAPIServerIsRunning)
	ctx.Step(`^the current time is "([^"]*)"$`, t.theCurrentTimeIs)
	ctx.Step(`^I am authenticated as "([^"]*)"$`, t.iAmAuthenticatedAs)
	ctx.Step(`^the header is empty$`, t.theHeaderIsEmpty)
	ctx.Step(`^a category "([^"]*)" of type "([^"]*)" exists$`, t.aCategoryOfTypeExists)
	ctx.Step(`^a "([^"]*)" budget "([^"]*)" for category "([^"]*)" with amount "([^"]*)" from "([^"]*)" to "([^"]*)"$`, t.aBudgetExists)
	ctx.Step(`^an? "([^"]*)" transaction "([^"]*)" of "([^"]*)" in category "([^"]*)" on "([^"]*)"$`, t.aTransactionIsRecorded)

	// Request steps
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, t.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, t.iSendARequestToWithBody)
	ctx.Step(`^I save the response field "([^"]*)" as "([^"]*)"$`, t.iSaveTheResponseFieldAs)
	ctx.Step(`^the email worker processes the queue$`, t.theEmailWorkerProcessesTheQueue)

	// Response assertion steps
	ctx.Step(`^the response status should be (\d+)$`, t.theResponseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, t.theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, t.theResponseFieldShouldExist)
	ctx.Step(`^the response list "([^"]*)" should have (\d+) items?$`, t.theResponseListShouldHaveItems)

	// Ledger assertion steps
	ctx.Step(`^the budget "([^"]*)" should have actual spent "([^"]*)" and utilization "([^"]*)"$`, t.theBudgetShouldHave)
	ctx.Step(`^the budget "([^"]*)" should have remaining "([^"]*)" and be over budget$`, t.theBudgetShouldBeOverBudget)

	// Database assertion steps
	ctx.Step(`^the db should contain (\d+) objects in the "([^"]*)" table$`, t.theDbShouldContainObjectsInTheTable)
	ctx.Step(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, t.theDbShouldContainObjectsInWithTheValues)

	// Outbound email steps
	ctx.Step(`^the email provider should have received (\d+) emails?$`, t.theEmailProviderShouldHaveReceived)
	ctx.Step(`^the email provider request (\d+) field "([^"]*)" should contain "([^"]*)"$`, t.theEmailProviderRequestFieldShouldContain)
	ctx.Step(`^the email provider request (\d+) header "([^"]*)" should be "([^"]*)"$`, t.theEmailProviderRequestHeaderShouldBe)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.userID = uuid.Nil
	t.userEmail = ""
	t.vars = make(map[string]string)

	t.suite.timeMock.Reset()
	t.suite.apiMock.ClearResponses("POST", "/emails")
	t.suite.apiMock.SetResponse(-1, "POST", "/emails", http.StatusOK, map[string]any{"id": "re_mock"})

	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return err
	}
	return t.suite.db.ClearDB()
}

func (t *testContext) theAPIServerIsRunning() error {
	for i := 0; i < 50; i++ {
		resp, err := t.client.Get(t.suite.server.URL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("test server at %s is not healthy", t.suite.server.URL)
}

func (t *testContext) theCurrentTimeIs(value string) error {
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	t.suite.timeMock.SetCurrentTime(now)
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}
