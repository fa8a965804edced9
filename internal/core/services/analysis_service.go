package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	"github.com/SscSPs/stock_insights_api/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
)

const (
	completionProviderSetting = "GEMINI_API_KEY"
	defaultCompareQuestion    = "Which stock should I invest in?"
	noStockContext            = "No stock data available."
)

const chatInstructions = `You are a stock analysis assistant for a financial dashboard.
Use general knowledge for company background, competitors and business model.
Use ONLY the stock data below for financial metrics such as price, PE, revenue and EPS.
When asked for projections, give bull, base and bear cases and answer with a JSON object:
{"projections": {"bull": {"revenueGrowth": 15, "patGrowth": 18, "targetPE": 35},
"base": {"revenueGrowth": 10, "patGrowth": 12, "targetPE": 28},
"bear": {"revenueGrowth": 5, "patGrowth": 6, "targetPE": 22}}, "reasoning": "..."}
For year-by-year projections use {"projections": {"years": [{"year": 1, "revenue": {"bull": 20, "base": 15, "bear": 10},
"pat": {"bull": 25, "base": 18, "bear": 12}}], "target_pe": {"bull": 35, "base": 28, "bear": 22}}, "reasoning": "..."}.
Answer any other question in markdown with clear sections.`

const compareInstructions = `You are a stock analysis assistant helping compare multiple stocks.
Give a detailed comparison that answers the question. Use markdown headers, bullet points and bold key insights,
and say which stock suits which use case.`

type analysisService struct {
	BaseService
	snapshotRepo portsrepo.StockSnapshotReader
	llm          providers.CompletionProvider
}

// AnalysisServiceOption is a functional option for configuring the analysis service
type AnalysisServiceOption func(*analysisService)

// WithCompletionProvider sets the LLM. Without one, every request fails with a configuration error.
func WithCompletionProvider(p providers.CompletionProvider) AnalysisServiceOption {
	return func(s *analysisService) {
		s.llm = p
	}
}

// NewAnalysisService creates the LLM-backed analysis service.
func NewAnalysisService(snapshotRepo portsrepo.StockSnapshotReader, options ...AnalysisServiceOption) portssvc.AnalysisSvcFacade {
	svc := &analysisService{snapshotRepo: snapshotRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AnalysisSvcFacade = (*analysisService)(nil)

func (s *analysisService) Chat(ctx context.Context, req dto.AIChatRequest) (*domain.Analysis, error) {
	ticker := dto.NormalizeTicker(req.Ticker)
	question := req.Text()
	if ticker == "" || question == "" {
		return nil, apperrors.NewValidationError("Ticker and question required")
	}
	if s.llm == nil {
		return nil, apperrors.NewConfigurationError(completionProviderSetting)
	}

	stockContext := noStockContext
	snapshot, err := s.snapshotRepo.FindSnapshot(ctx, ticker)
	switch {
	case err == nil:
		stockContext = chatContext(ticker, domain.ExtractStockFacts(snapshot.Data))
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogWarn(ctx, "Stock snapshot unavailable for chat context", slog.String("ticker", ticker), slog.String("error", err.Error()))
	}

	prompt := fmt.Sprintf("%s\n\n%s\n\nUSER QUESTION: %s", chatInstructions, stockContext, question)
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &domain.Analysis{
		Response:    text,
		Projections: extractProjections(text),
		Tickers:     []string{ticker},
	}, nil
}

func (s *analysisService) Compare(ctx context.Context, req dto.AICompareRequest) (*domain.Analysis, error) {
	tickers := make([]string, 0, len(req.Tickers))
	for _, t := range req.Tickers {
		if t = dto.NormalizeTicker(t); t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) < 2 {
		return nil, apperrors.NewValidationError("At least 2 tickers required")
	}
	if s.llm == nil {
		return nil, apperrors.NewConfigurationError(completionProviderSetting)
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = defaultCompareQuestion
	}

	snapshots, err := s.snapshotRepo.FindSnapshots(ctx, tickers)
	if err != nil {
		s.LogError(ctx, err, "Failed to load snapshots for comparison")
		return nil, err
	}
	if len(snapshots) < 2 {
		return nil, apperrors.NewNotFoundError("Could not fetch data for comparison")
	}

	var b strings.Builder
	b.WriteString("STOCKS TO COMPARE:\n\n")
	for _, snap := range snapshots {
		writeCompareEntry(&b, snap.Ticker, domain.ExtractStockFacts(snap.Data))
	}

	prompt := fmt.Sprintf("%s\n\n%s\nUSER QUESTION: %s", compareInstructions, b.String(), question)
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &domain.Analysis{Response: text, Tickers: tickers}, nil
}

func (s *analysisService) complete(ctx context.Context, prompt string) (string, error) {
	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.LogError(ctx, err, "Completion request failed")
		return "", apperrors.NewUpstreamError(fmt.Sprintf("AI error: %v", err))
	}
	return text, nil
}

func chatContext(ticker string, f domain.StockFacts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "STOCK DATA FOR %s:\n", ticker)
	fmt.Fprintf(&b, "- Company: %s\n", f.Name)
	fmt.Fprintf(&b, "- Sector: %s\n", f.Sector)
	fmt.Fprintf(&b, "- Industry: %s\n", f.Industry)
	fmt.Fprintf(&b, "- Current Price: %s\n", f.Price)
	fmt.Fprintf(&b, "- PE Ratio: %s\n", f.PERatio)
	fmt.Fprintf(&b, "- Market Cap: %s\n", f.MarketCap)
	fmt.Fprintf(&b, "- Revenue TTM: %s\n", f.RevenueTTM)
	fmt.Fprintf(&b, "- EPS: %s\n", f.EPS)
	fmt.Fprintf(&b, "- Profit Margin: %s\n", f.ProfitMargin)
	fmt.Fprintf(&b, "- 52W High: %s\n", f.High52Week)
	fmt.Fprintf(&b, "- 52W Low: %s\n", f.Low52Week)
	return b.String()
}

func writeCompareEntry(b *strings.Builder, ticker string, f domain.StockFacts) {
	fmt.Fprintf(b, "--- %s ---\n", ticker)
	fmt.Fprintf(b, "Company: %s\n", f.Name)
	fmt.Fprintf(b, "Sector: %s\n", f.Sector)
	fmt.Fprintf(b, "Industry: %s\n", f.Industry)
	fmt.Fprintf(b, "Current Price: %s\n", f.Price)
	fmt.Fprintf(b, "PE Ratio: %s\n", f.PERatio)
	fmt.Fprintf(b, "Forward PE: %s\n", f.ForwardPE)
	fmt.Fprintf(b, "Market Cap: %s\n", f.MarketCap)
	fmt.Fprintf(b, "Revenue TTM: %s\n", f.RevenueTTM)
	fmt.Fprintf(b, "EPS: %s\n", f.EPS)
	fmt.Fprintf(b, "Profit Margin: %s\n", f.ProfitMargin)
	fmt.Fprintf(b, "Revenue Growth: %s\n", f.RevenueGrowth)
	fmt.Fprintf(b, "52W High: %s\n", f.High52Week)
	fmt.Fprintf(b, "52W Low: %s\n\n", f.Low52Week)
}

// extractProjections returns the "projections" member of the outermost JSON object in text,
// or nil when text has none or it does not parse.
func extractProjections(text string) json.RawMessage {
	if !strings.Contains(text, `"projections"`) {
		return nil
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &doc); err != nil {
		return nil
	}
	projections, ok := doc["projections"]
	if !ok || string(projections) == "null" {
		return nil
	}
	return projections
}
