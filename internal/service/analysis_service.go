package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/hedge-analytics/internal/models"
	"github.com/hedge-analytics/internal/repository"
	"github.com/hedge-analytics/pkg/idgen"
	"github.com/montanaflynn/stats"
)

// AnalysisService runs analyses and records every run in the user's
// history
type AnalysisService struct {
	analysisRepo  *repository.AnalysisRepository
	marketService *MarketService
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(analysisRepo *repository.AnalysisRepository, marketService *MarketService) *AnalysisService {
	return &AnalysisService{
		analysisRepo:  analysisRepo,
		marketService: marketService,
	}
}

// HedgeRequest are the inputs of a hedge-margin calculation
type HedgeRequest struct {
	Symbol     string  `json:"symbol" binding:"required"`
	CostPrice  float64 `json:"cost_price" binding:"required,gt=0"`
	Inventory  float64 `json:"inventory" binding:"required,gt=0"`
	HedgeRatio float64 `json:"hedge_ratio" binding:"gte=0,lte=1"`
	MarginRate float64 `json:"margin_rate" binding:"gte=0,lte=1"`
}

// ScenarioPnL is one row of the what-if table: profit and loss with and
// without the hedge at a given price move
type ScenarioPnL struct {
	PriceChangePct float64 `json:"price_change_pct"`
	Price          float64 `json:"price"`
	NoHedgePnL     float64 `json:"no_hedge_pnl"`
	HedgedPnL      float64 `json:"hedged_pnl"`
}

// HedgeResult is the outcome of a hedge-margin calculation
type HedgeResult struct {
	AnalysisID       string        `json:"analysis_id,omitempty"`
	Symbol           string        `json:"symbol"`
	CurrentPrice     float64       `json:"current_price"`
	HedgeContracts   float64       `json:"hedge_contracts"`
	ContractsRounded int           `json:"contracts_rounded"`
	ActualHedgeRatio float64       `json:"actual_hedge_ratio"`
	MarginRequired   float64       `json:"margin_required"`
	NoHedgeBreakeven float64       `json:"no_hedge_breakeven"`
	HedgedBreakeven  *float64      `json:"hedged_breakeven"`
	LockedPnL        *float64      `json:"locked_pnl"`
	Scenarios        []ScenarioPnL `json:"scenarios"`
	Suggestion       string        `json:"suggestion"`
}

// PriceStatsRequest are the inputs of a price-statistics analysis
type PriceStatsRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Days   int    `json:"days" binding:"omitempty,min=2,max=365"`
}

// PriceStatsResult summarizes a price series
type PriceStatsResult struct {
	AnalysisID       string  `json:"analysis_id,omitempty"`
	Symbol           string  `json:"symbol"`
	Days             int     `json:"days"`
	LatestPrice      float64 `json:"latest_price"`
	Mean             float64 `json:"mean"`
	StdDev           float64 `json:"std_dev"`
	Min              float64 `json:"min"`
	Max              float64 `json:"max"`
	PeriodChangePct  float64 `json:"period_change_pct"`
	AnnualVolatility float64 `json:"annual_volatility"`
}

// Option sides. A call locks a maximum buy price, a put locks a
// minimum sell price.
const (
	OptionCall = "call"
	OptionPut  = "put"
)

// Option pricing defaults for the lithium market
const (
	DefaultVolatility = 0.35
	DefaultRiskFree   = 0.02
)

// OptionPricingRequest are the inputs of an option premium calculation
type OptionPricingRequest struct {
	Symbol      string  `json:"symbol" binding:"required"`
	OptionType  string  `json:"option_type" binding:"required,oneof=call put"`
	StrikePrice float64 `json:"strike_price" binding:"required,gt=0"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Months      int     `json:"months" binding:"required,min=1,max=24"`
	Volatility  float64 `json:"volatility" binding:"omitempty,gt=0,lte=2"`
	RiskFree    float64 `json:"risk_free" binding:"omitempty,gte=0,lte=0.2"`
}

// OptionScenario is one row of the payoff table: the effective price
// per ton at a given spot, premium included
type OptionScenario struct {
	SpotPrice      float64 `json:"spot_price"`
	EffectivePrice float64 `json:"effective_price"`
}

// OptionPricingResult is the outcome of an option premium calculation
type OptionPricingResult struct {
	AnalysisID    string           `json:"analysis_id,omitempty"`
	Symbol        string           `json:"symbol"`
	OptionType    string           `json:"option_type"`
	CurrentPrice  float64          `json:"current_price"`
	StrikePrice   float64          `json:"strike_price"`
	Quantity      float64          `json:"quantity"`
	Months        int              `json:"months"`
	TimeYears     float64          `json:"time_years"`
	Volatility    float64          `json:"volatility"`
	RiskFree      float64          `json:"risk_free"`
	PremiumPerTon float64          `json:"premium_per_ton"`
	TotalPremium  float64          `json:"total_premium"`
	Scenarios     []OptionScenario `json:"scenarios"`
}

// AnalysisEntry is a history row with its JSON payloads preserved
type AnalysisEntry struct {
	AnalysisID   string              `json:"analysis_id"`
	AnalysisType models.AnalysisType `json:"analysis_type"`
	InputParams  json.RawMessage     `json:"input_params"`
	ResultData   json.RawMessage     `json:"result_data"`
	CreatedAt    time.Time           `json:"created_at"`
}

// RunHedgeCalculation computes hedge sizing, margin and breakeven
// figures against the current market price and appends the run to the
// user's history
func (s *AnalysisService) RunHedgeCalculation(ctx context.Context, userID string, req *HedgeRequest) (*HedgeResult, error) {
	currentPrice, err := s.marketService.LatestPrice(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	contracts := req.Inventory * req.HedgeRatio
	rounded := int(math.Round(contracts))
	actualRatio := 0.0
	if req.Inventory > 0 {
		actualRatio = float64(rounded) / req.Inventory
	}

	result := &HedgeResult{
		Symbol:           req.Symbol,
		CurrentPrice:     currentPrice,
		HedgeContracts:   contracts,
		ContractsRounded: rounded,
		ActualHedgeRatio: actualRatio,
		MarginRequired:   float64(rounded) * currentPrice * req.MarginRate,
		NoHedgeBreakeven: req.CostPrice,
		Suggestion:       hedgeSuggestion(req.HedgeRatio),
	}

	// With a partial hedge the short futures leg shifts the breakeven;
	// a full hedge locks the P&L in at today's price instead.
	unhedged := req.Inventory - float64(rounded)
	if unhedged != 0 {
		breakeven := (req.CostPrice*req.Inventory - currentPrice*float64(rounded)) / unhedged
		result.HedgedBreakeven = &breakeven
	} else {
		locked := (currentPrice - req.CostPrice) * req.Inventory
		result.LockedPnL = &locked
	}

	for pct := -20.0; pct <= 20.0; pct += 5.0 {
		price := currentPrice * (1 + pct/100)
		result.Scenarios = append(result.Scenarios, ScenarioPnL{
			PriceChangePct: pct,
			Price:          math.Round(price*100) / 100,
			NoHedgePnL:     math.Round((price-req.CostPrice)*req.Inventory*100) / 100,
			HedgedPnL:      math.Round(((price-req.CostPrice)*req.Inventory+(currentPrice-price)*float64(rounded))*100) / 100,
		})
	}

	analysisID, err := s.record(userID, models.AnalysisHedgeCalculation, req, result)
	if err != nil {
		return nil, err
	}
	result.AnalysisID = analysisID
	return result, nil
}

// RunPriceStatistics summarizes the cached price series for a symbol
// and appends the run to the user's history
func (s *AnalysisService) RunPriceStatistics(ctx context.Context, userID string, req *PriceStatsRequest) (*PriceStatsResult, error) {
	points, err := s.marketService.GetPriceSeries(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	days := req.Days
	if days <= 0 || days > len(points) {
		days = len(points)
	}
	points = points[len(points)-days:]
	if len(points) < 2 {
		return nil, ErrNoPriceData
	}

	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}

	result, err := summarizePrices(prices)
	if err != nil {
		return nil, err
	}
	result.Symbol = req.Symbol
	result.Days = days

	analysisID, err := s.record(userID, models.AnalysisPriceStatistics, req, result)
	if err != nil {
		return nil, err
	}
	result.AnalysisID = analysisID
	return result, nil
}

// RunOptionPricing prices a European option on the current market price
// with Black-Scholes and appends the run to the user's history. Calls
// cap the buy price of future inventory, puts floor the sell price.
func (s *AnalysisService) RunOptionPricing(ctx context.Context, userID string, req *OptionPricingRequest) (*OptionPricingResult, error) {
	currentPrice, err := s.marketService.LatestPrice(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	volatility := req.Volatility
	if volatility == 0 {
		volatility = DefaultVolatility
	}
	riskFree := req.RiskFree
	if riskFree == 0 {
		riskFree = DefaultRiskFree
	}

	timeYears := float64(req.Months) / 12.0
	premium := blackScholesPrice(req.OptionType, currentPrice, req.StrikePrice, timeYears, riskFree, volatility)

	result := &OptionPricingResult{
		Symbol:        req.Symbol,
		OptionType:    req.OptionType,
		CurrentPrice:  currentPrice,
		StrikePrice:   req.StrikePrice,
		Quantity:      req.Quantity,
		Months:        req.Months,
		TimeYears:     timeYears,
		Volatility:    volatility,
		RiskFree:      riskFree,
		PremiumPerTon: math.Round(premium*100) / 100,
		TotalPremium:  math.Round(premium*req.Quantity*100) / 100,
	}

	// Payoff at expiry over a ±30% spot range: a call caps the buy
	// cost at the strike, a put floors the sale at the strike, the
	// premium shifts both.
	for factor := 0.7; factor <= 1.301; factor += 0.05 {
		spot := currentPrice * factor
		var effective float64
		if req.OptionType == OptionCall {
			effective = math.Min(spot, req.StrikePrice) + premium
		} else {
			effective = math.Max(spot, req.StrikePrice) - premium
		}
		result.Scenarios = append(result.Scenarios, OptionScenario{
			SpotPrice:      math.Round(spot*100) / 100,
			EffectivePrice: math.Round(effective*100) / 100,
		})
	}

	analysisID, err := s.record(userID, models.AnalysisOptionPricing, req, result)
	if err != nil {
		return nil, err
	}
	result.AnalysisID = analysisID
	return result, nil
}

// History returns a page of the user's analysis runs, newest first
func (s *AnalysisService) History(userID string, page, pageSize int) ([]AnalysisEntry, int64, error) {
	records, total, err := s.analysisRepo.GetByUserIDPaginated(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]AnalysisEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, toEntry(&record))
	}
	return entries, total, nil
}

// Get retrieves one analysis run scoped to its owner
func (s *AnalysisService) Get(analysisID, userID string) (*AnalysisEntry, error) {
	record, err := s.analysisRepo.GetByIDAndUserID(analysisID, userID)
	if err != nil {
		return nil, err
	}
	entry := toEntry(record)
	return &entry, nil
}

// Delete removes one analysis run scoped to its owner
func (s *AnalysisService) Delete(analysisID, userID string) error {
	return s.analysisRepo.DeleteByIDAndUserID(analysisID, userID)
}

func (s *AnalysisService) record(userID string, analysisType models.AnalysisType, input, result interface{}) (string, error) {
	analysisID, err := idgen.NewAnalysisID()
	if err != nil {
		return "", err
	}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", err
	}

	record := &models.AnalysisRecord{
		AnalysisID:   analysisID,
		UserID:       userID,
		AnalysisType: analysisType,
		InputParams:  string(inputJSON),
		ResultData:   string(resultJSON),
	}
	if err := s.analysisRepo.Create(record); err != nil {
		return "", err
	}
	return analysisID, nil
}

func toEntry(record *models.AnalysisRecord) AnalysisEntry {
	return AnalysisEntry{
		AnalysisID:   record.AnalysisID,
		AnalysisType: record.AnalysisType,
		InputParams:  json.RawMessage(record.InputParams),
		ResultData:   json.RawMessage(record.ResultData),
		CreatedAt:    record.CreatedAt,
	}
}

func summarizePrices(prices []float64) (*PriceStatsResult, error) {
	mean, err := stats.Mean(prices)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviationSample(prices)
	if err != nil {
		return nil, err
	}
	min, err := stats.Min(prices)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(prices)
	if err != nil {
		return nil, err
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns = append(returns, prices[i]/prices[i-1]-1)
		}
	}
	annualVol := 0.0
	if len(returns) >= 2 {
		retStdDev, err := stats.StandardDeviationSample(returns)
		if err != nil {
			return nil, err
		}
		annualVol = retStdDev * math.Sqrt(252)
	}

	latest := prices[len(prices)-1]
	changePct := 0.0
	if prices[0] != 0 {
		changePct = (latest/prices[0] - 1) * 100
	}

	return &PriceStatsResult{
		LatestPrice:      latest,
		Mean:             mean,
		StdDev:           stdDev,
		Min:              min,
		Max:              max,
		PeriodChangePct:  changePct,
		AnnualVolatility: annualVol,
	}, nil
}

// blackScholesPrice returns the premium of a European option. Returns 0
// when any of spot, strike, time or volatility is non-positive.
func blackScholesPrice(optionType string, spot, strike, timeYears, riskFree, volatility float64) float64 {
	if spot <= 0 || strike <= 0 || timeYears <= 0 || volatility <= 0 {
		return 0.0
	}

	d1 := (math.Log(spot/strike) + (riskFree+0.5*volatility*volatility)*timeYears) / (volatility * math.Sqrt(timeYears))
	d2 := d1 - volatility*math.Sqrt(timeYears)

	if optionType == OptionCall {
		return spot*normCDF(d1) - strike*math.Exp(-riskFree*timeYears)*normCDF(d2)
	}
	return strike*math.Exp(-riskFree*timeYears)*normCDF(-d2) - spot*normCDF(-d1)
}

// normCDF is the standard normal cumulative distribution function
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func hedgeSuggestion(ratio float64) string {
	switch {
	case ratio < 0.1:
		return "hedge ratio is very low; inventory is almost fully exposed to price swings"
	case ratio < 0.3:
		return "hedge ratio is low; consider raising it to at least 50% if downside risk matters"
	case ratio < 0.7:
		return "moderate hedge; downside is partially covered while keeping upside"
	default:
		return "high hedge ratio; P&L is largely locked in at current prices"
	}
}
