package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
	"github.com/SscSPs/stock_insights_api/internal/handlers"
	"github.com/SscSPs/stock_insights_api/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) RateForDate(ctx context.Context, date time.Time) decimal.Decimal {
	return m.Called(ctx, date).Get(0).(decimal.Decimal)
}

func (m *MockExchangeRateService) LatestRate(ctx context.Context) decimal.Decimal {
	return m.Called(ctx).Get(0).(decimal.Decimal)
}

func (m *MockExchangeRateService) BackfillStatus(ctx context.Context) (*domain.BackfillStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BackfillStatus), args.Error(1)
}

func (m *MockExchangeRateService) BackfillYearly(ctx context.Context) (*domain.BackfillReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BackfillReport), args.Error(1)
}

func (m *MockExchangeRateService) BackfillMonthly(ctx context.Context, year int) (*domain.BackfillReport, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BackfillReport), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock TickerService ---
type MockTickerService struct {
	mock.Mock
}

func (m *MockTickerService) ListTickers(ctx context.Context, market domain.Market) ([]domain.TickerListing, error) {
	args := m.Called(ctx, market)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TickerListing), args.Error(1)
}

func (m *MockTickerService) SearchStocks(ctx context.Context) ([]domain.StockSearchEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockSearchEntry), args.Error(1)
}

func (m *MockTickerService) AddTicker(ctx context.Context, req dto.AddTickerRequest) (*domain.Ticker, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticker), args.Error(1)
}

func (m *MockTickerService) DeleteTicker(ctx context.Context, symbol string) error {
	return m.Called(ctx, symbol).Error(0)
}

var _ portssvc.TickerSvcFacade = (*MockTickerService)(nil)

// --- Mock StockService ---
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) GetStockData(ctx context.Context, ticker string) (json.RawMessage, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockStockService) RequestTicker(ctx context.Context, ticker string) (*domain.Ticker, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticker), args.Error(1)
}

func (m *MockStockService) RefreshTicker(ctx context.Context, ticker string) (*domain.RefreshOutcome, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshOutcome), args.Error(1)
}

func (m *MockStockService) RefreshBatch(ctx context.Context, tickers []string, mode domain.RefreshMode) []domain.RefreshOutcome {
	return m.Called(ctx, tickers, mode).Get(0).([]domain.RefreshOutcome)
}

func (m *MockStockService) RefreshAll(ctx context.Context, mode domain.RefreshMode) ([]domain.RefreshOutcome, error) {
	args := m.Called(ctx, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RefreshOutcome), args.Error(1)
}

var _ portssvc.StockSvcFacade = (*MockStockService)(nil)

// --- Mock ProjectionService ---
type MockProjectionService struct {
	mock.Mock
}

func (m *MockProjectionService) GetProjection(ctx context.Context, ticker string) (json.RawMessage, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockProjectionService) SaveProjection(ctx context.Context, req dto.SaveProjectionRequest) error {
	return m.Called(ctx, req).Error(0)
}

var _ portssvc.ProjectionSvcFacade = (*MockProjectionService)(nil)

// --- Mock AnalysisService ---
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Chat(ctx context.Context, req dto.AIChatRequest) (*domain.Analysis, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) Compare(ctx context.Context, req dto.AICompareRequest) (*domain.Analysis, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

var _ portssvc.AnalysisSvcFacade = (*MockAnalysisService)(nil)

// --- Test Suite ---
const testAdminPassword = "let-me-in"

type HandlersTestSuite struct {
	suite.Suite
	router     *gin.Engine
	rates      *MockExchangeRateService
	tickers    *MockTickerService
	stocks     *MockStockService
	projection *MockProjectionService
	analysis   *MockAnalysisService
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.rates = new(MockExchangeRateService)
	suite.tickers = new(MockTickerService)
	suite.stocks = new(MockStockService)
	suite.projection = new(MockProjectionService)
	suite.analysis = new(MockAnalysisService)

	cfg := &config.Config{AdminPassword: testAdminPassword, IsProduction: true}
	container := &portssvc.ServiceContainer{
		ExchangeRate: suite.rates,
		Ticker:       suite.tickers,
		Stock:        suite.stocks,
		Projection:   suite.projection,
		Analysis:     suite.analysis,
	}
	handlers.RegisterRoutes(suite.router, cfg, container, nil, nil)
}

func (suite *HandlersTestSuite) do(method, url, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// --- exchange-rate ---

func (suite *HandlersTestSuite) TestGetExchangeRate() {
	date := time.Date(2010, time.June, 15, 0, 0, 0, 0, time.UTC)
	suite.rates.On("RateForDate", mock.Anything, date).Return(decimal.NewFromInt(45)).Once()

	w := suite.do(http.MethodGet, "/api/exchange-rate?date=2010-06-15", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"date":"2010-06-15","rate":45,"source":"cached"}`, w.Body.String())
	suite.rates.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestGetExchangeRate_BadDate() {
	for _, url := range []string{"/api/exchange-rate", "/api/exchange-rate?date=15-06-2010", "/api/exchange-rate?date=2010-13-01"} {
		w := suite.do(http.MethodGet, url, "")
		suite.Equal(http.StatusBadRequest, w.Code, url)
		suite.Equal("Date required (YYYY-MM-DD)", suite.decode(w)["error"])
	}
	suite.rates.AssertNotCalled(suite.T(), "RateForDate", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestGetLatestRate() {
	suite.rates.On("LatestRate", mock.Anything).Return(decimal.RequireFromString("83.21")).Once()

	w := suite.do(http.MethodGet, "/api/exchange-rate/latest", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"rate":83.21}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestPostExchangeRate_DefaultsToYearly() {
	report := &domain.BackfillReport{
		Mode:    domain.BackfillYearly,
		Success: 1,
		Skipped: 25,
		Written: []domain.ExchangeRateSample{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Rate: decimal.RequireFromString("83.12")}},
	}
	suite.rates.On("BackfillYearly", mock.Anything).Return(report, nil).Twice()

	for _, body := range []string{"", `{}`} {
		w := suite.do(http.MethodPost, "/api/exchange-rate", body)
		suite.Equal(http.StatusOK, w.Code)
		suite.JSONEq(`{"message":"Yearly backfill complete","success":1,"failed":0,"skipped":25,"rates":[{"date":"2024-01-01","rate":83.12}]}`, w.Body.String())
	}
	suite.rates.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestPostExchangeRate_YearlyEmptyRatesIsArray() {
	suite.rates.On("BackfillYearly", mock.Anything).Return(&domain.BackfillReport{Mode: domain.BackfillYearly, Skipped: 26}, nil).Once()

	w := suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"yearly"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal([]any{}, suite.decode(w)["rates"])
}

func (suite *HandlersTestSuite) TestPostExchangeRate_Monthly() {
	suite.rates.On("BackfillMonthly", mock.Anything, 2020).
		Return(&domain.BackfillReport{Mode: domain.BackfillMonthly, Year: 2020, Success: 11, Skipped: 1}, nil).Once()

	w := suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"monthly","year":2020}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"message":"Monthly backfill for 2020 complete","year":2020,"success":11,"failed":0,"skipped":1}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestPostExchangeRate_MonthlyDefaultsToCurrentYear() {
	suite.rates.On("BackfillMonthly", mock.Anything, 0).
		Return(&domain.BackfillReport{Mode: domain.BackfillMonthly, Year: 2024, Success: 5, Skipped: 1}, nil).Once()

	w := suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"monthly"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"message":"Monthly backfill for 2024 complete","year":2024,"success":5,"failed":0,"skipped":1}`, w.Body.String())
	suite.rates.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestPostExchangeRate_MonthlyYearAsString() {
	suite.rates.On("BackfillMonthly", mock.Anything, 2023).
		Return(&domain.BackfillReport{Mode: domain.BackfillMonthly, Year: 2023, Success: 12}, nil).Once()

	w := suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"monthly","year":"2023"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(float64(2023), suite.decode(w)["year"])
	suite.rates.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestPostExchangeRate_MonthlyFutureYear() {
	suite.rates.On("BackfillMonthly", mock.Anything, 2031).
		Return(&domain.BackfillReport{Mode: domain.BackfillMonthly, Year: 2031}, nil).Once()

	w := suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"monthly","year":2031}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"message":"Monthly backfill for 2031 complete","year":2031,"success":0,"failed":0,"skipped":0}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestPostExchangeRate_Status() {
	oldest := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	newest := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	suite.rates.On("BackfillStatus", mock.Anything).Return(&domain.BackfillStatus{Count: 31, OldestDate: &oldest, NewestDate: &newest}, nil).Once()
	suite.rates.On("BackfillStatus", mock.Anything).Return(&domain.BackfillStatus{}, nil).Once()

	w := suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"status"}`)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"count":31,"oldestDate":"1999-01-01","newestDate":"2024-05-15"}`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"status"}`)
	suite.JSONEq(`{"count":0,"oldestDate":null,"newestDate":null}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestPostExchangeRate_Errors() {
	w := suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"weekly"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid mode", suite.decode(w)["error"])

	w = suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":`)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.rates.On("BackfillYearly", mock.Anything).Return(nil, apperrors.NewConfigurationError("FIXER_API_KEY")).Once()
	w = suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"yearly"}`)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("FIXER_API_KEY not configured", suite.decode(w)["error"])

	w = suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"monthly","year":"last year"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.rates.AssertNotCalled(suite.T(), "BackfillMonthly", mock.Anything, mock.Anything)

	suite.rates.On("BackfillStatus", mock.Anything).Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to count exchange rates", errors.New("boom"))).Once()
	w = suite.do(http.MethodPost, "/api/exchange-rate", `{"mode":"status"}`)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("failed to count exchange rates", suite.decode(w)["error"])
}

func (suite *HandlersTestSuite) TestUnsupportedMethod() {
	w := suite.do(http.MethodDelete, "/api/exchange-rate", "")

	suite.Equal(http.StatusMethodNotAllowed, w.Code)
	suite.Equal("Method not allowed", suite.decode(w)["error"])
}

// --- tickers ---

func (suite *HandlersTestSuite) TestListTickers() {
	updated := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	suite.tickers.On("ListTickers", mock.Anything, domain.MarketIN).Return([]domain.TickerListing{
		{Symbol: "RELIANCE.NS", Market: domain.MarketIN, LastUpdated: &updated},
		{Symbol: "TCS.NS", Market: domain.MarketIN},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/tickers?market=in", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"market":"IN","tickers":[{"symbol":"RELIANCE.NS","last_updated":"2024-06-01 09:30:00"},{"symbol":"TCS.NS","last_updated":"Never"}]}`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/tickers?market=UK", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestAddTicker_RequiresAdmin() {
	w := suite.do(http.MethodPost, "/api/tickers", `{"ticker":"AAPL"}`)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Unauthorized", suite.decode(w)["error"])

	w = suite.do(http.MethodPost, "/api/tickers", `{"ticker":"AAPL"}`, "Authorization", "Bearer wrong")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.tickers.AssertNotCalled(suite.T(), "AddTicker", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestAddTicker() {
	suite.tickers.On("AddTicker", mock.Anything, dto.AddTickerRequest{Ticker: "reliance", Market: "IN"}).
		Return(&domain.Ticker{Symbol: "RELIANCE.NS", Market: domain.MarketIN}, nil).Once()

	w := suite.do(http.MethodPost, "/api/tickers", `{"ticker":"reliance","market":"IN"}`, "Authorization", "Bearer "+testAdminPassword)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"success":true,"symbol":"RELIANCE.NS","market":"IN"}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestAddTicker_Validation() {
	w := suite.do(http.MethodPost, "/api/tickers", `{"market":"UK"}`, "Authorization", "Bearer "+testAdminPassword)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w)["error"], "ticker is required")
}

func (suite *HandlersTestSuite) TestDeleteTicker() {
	suite.tickers.On("DeleteTicker", mock.Anything, "aapl").Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/delete-ticker", `{"ticker":"aapl"}`, "Authorization", "Bearer "+testAdminPassword)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"success":true,"deleted":"AAPL"}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestStocksSearch() {
	suite.tickers.On("SearchStocks", mock.Anything).Return([]domain.StockSearchEntry{{Symbol: "AAPL", Name: "Apple Inc", Market: domain.MarketUS}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/stocks-search", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"stocks":[{"symbol":"AAPL","name":"Apple Inc","market":"US"}]}`, w.Body.String())
}

// --- stocks ---

func (suite *HandlersTestSuite) TestGetStockData() {
	suite.stocks.On("GetStockData", mock.Anything, "AAPL").Return(json.RawMessage(`{"overview":{"Name":"Apple Inc"}}`), nil).Once()
	suite.stocks.On("GetStockData", mock.Anything, "ZZZZ").Return(nil, apperrors.NewNotFoundError("Data not found locally.")).Once()

	w := suite.do(http.MethodGet, "/api/stock-data?ticker=AAPL", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"overview":{"Name":"Apple Inc"}}`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/stock-data?ticker=ZZZZ", "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Data not found locally.", suite.decode(w)["error"])

	w = suite.do(http.MethodGet, "/api/stock-data", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestRequestTicker() {
	suite.stocks.On("RequestTicker", mock.Anything, "aapl").Return(&domain.Ticker{Symbol: "AAPL", Market: domain.MarketUS}, nil).Once()
	suite.stocks.On("RequestTicker", mock.Anything, "msft").Return(nil, apperrors.NewUpstreamError("Alpha Vantage API limit reached")).Once()

	w := suite.do(http.MethodPost, "/api/request-ticker", `{"ticker":"aapl"}`)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"success":true,"ticker":"AAPL","market":"US"}`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/request-ticker", `{"ticker":"msft"}`)
	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Equal("Alpha Vantage API limit reached", suite.decode(w)["error"])

	w = suite.do(http.MethodPost, "/api/request-ticker", `{}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Ticker required", suite.decode(w)["error"])
}

func (suite *HandlersTestSuite) TestRefreshTicker() {
	updated := time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC)
	suite.stocks.On("RefreshTicker", mock.Anything, "AAPL").
		Return(&domain.RefreshOutcome{Ticker: "AAPL", Status: domain.RefreshSkipped, LastUpdated: &updated}, nil).Once()
	suite.stocks.On("RefreshTicker", mock.Anything, "MSFT").
		Return(&domain.RefreshOutcome{Ticker: "MSFT", Status: domain.RefreshSuccess}, nil).Once()

	w := suite.do(http.MethodPost, "/api/refresh-ticker", `{"ticker":"AAPL"}`)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"message":"AAPL is already up to date (last updated: 2024-06-10 09:15:00)","skipped":true}`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/refresh-ticker", `{"ticker":"MSFT"}`)
	suite.JSONEq(`{"message":"MSFT refreshed successfully!","success":true}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestAdminRefresh() {
	suite.stocks.On("RefreshBatch", mock.Anything, []string{"AAPL", "MSFT"}, domain.RefreshSmart).Return([]domain.RefreshOutcome{
		{Ticker: "AAPL", Status: domain.RefreshSkipped, Reason: "Already up to date"},
		{Ticker: "MSFT", Status: domain.RefreshError, Error: "Alpha Vantage API limit reached"},
	}).Once()
	auth := []string{"Authorization", "Bearer " + testAdminPassword}

	w := suite.do(http.MethodPost, "/api/admin-refresh", `{"tickers":["AAPL","MSFT"]}`, auth...)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"success":true,"results":[
		{"ticker":"AAPL","status":"skipped","reason":"Already up to date"},
		{"ticker":"MSFT","status":"error","error":"Alpha Vantage API limit reached"}]}`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/admin-refresh", `{"tickers":[]}`, auth...)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("No tickers provided", suite.decode(w)["error"])

	w = suite.do(http.MethodPost, "/api/admin-refresh", `{"tickers":["AAPL"],"type":"sometimes"}`, auth...)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/admin-refresh", `{"tickers":["AAPL"]}`)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- projections ---

func (suite *HandlersTestSuite) TestProjections() {
	suite.projection.On("GetProjection", mock.Anything, "AAPL").Return(json.RawMessage(`{}`), nil).Once()
	suite.projection.On("SaveProjection", mock.Anything, mock.MatchedBy(func(req dto.SaveProjectionRequest) bool {
		return req.Ticker == "AAPL" && string(req.Data) == `{"base":{"targetPE":28}}`
	})).Return(nil).Once()

	w := suite.do(http.MethodGet, "/api/projections?ticker=AAPL", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{}`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/projections", `{"ticker":"AAPL","data":{"base":{"targetPE":28}}}`)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"success":true}`, w.Body.String())

	w = suite.do(http.MethodGet, "/api/projections", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- analysis ---

func (suite *HandlersTestSuite) TestAIChat() {
	suite.analysis.On("Chat", mock.Anything, dto.AIChatRequest{Ticker: "AAPL", Message: "bull case?"}).
		Return(&domain.Analysis{Response: "text", Projections: json.RawMessage(`{"bull":{"targetPE":35}}`)}, nil).Once()
	suite.analysis.On("Chat", mock.Anything, dto.AIChatRequest{Ticker: "AAPL", Question: "history?"}).
		Return(&domain.Analysis{Response: "## History"}, nil).Once()

	w := suite.do(http.MethodPost, "/api/ai-chat", `{"ticker":"AAPL","message":"bull case?"}`)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"response":"text","projections":{"bull":{"targetPE":35}}}`, w.Body.String())

	w = suite.do(http.MethodPost, "/api/ai-chat", `{"ticker":"AAPL","question":"history?"}`)
	suite.JSONEq(`{"response":"## History","projections":null}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestAICompare() {
	suite.analysis.On("Compare", mock.Anything, dto.AICompareRequest{Tickers: []string{"AAPL"}}).
		Return(nil, apperrors.NewValidationError("At least 2 tickers required")).Once()
	suite.analysis.On("Compare", mock.Anything, dto.AICompareRequest{Tickers: []string{"AAPL", "ZZZZ"}}).
		Return(nil, apperrors.NewNotFoundError("Could not fetch data for comparison")).Once()

	w := suite.do(http.MethodPost, "/api/ai-compare", `{"tickers":["AAPL"]}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("At least 2 tickers required", suite.decode(w)["error"])

	w = suite.do(http.MethodPost, "/api/ai-compare", `{"tickers":["AAPL","ZZZZ"]}`)
	suite.Equal(http.StatusNotFound, w.Code)
}

// --- misc ---

func (suite *HandlersTestSuite) TestStatusAndHealth() {
	w := suite.do(http.MethodGet, "/api/status", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"Idle","queue_length":0,"mode":"server"}`, w.Body.String())

	w = suite.do(http.MethodGet, "/health", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
