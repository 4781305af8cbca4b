package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TWSE OpenAPI resource paths.
const (
	pathForeignHoldings = "/fund/MI_QFIIS_sort_20"        // 外資及陸資持股前5名統計
	pathDailyVolume     = "/exchangeReport/MI_INDEX20"    // 每日成交量前5名證券
	pathStockRatios     = "/exchangeReport/BWIBBU_ALL"    // 收盤價、本益比、股價淨值比
	pathStockDaily      = "/exchangeReport/STOCK_DAY_ALL" // 個股日成交資訊
)

const topCount = 5

// StockConfig carries the TWSE OpenAPI endpoint.
type StockConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Stock queries the Taiwan Stock Exchange OpenAPI for foreign-holding and
// volume rankings plus per-code quote information.
type Stock struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewStock creates a stock information client.
func NewStock(cfg StockConfig, log *slog.Logger) *Stock {
	if log == nil {
		log = slog.Default()
	}
	return &Stock{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("component", "stock"),
	}
}

// TWSE returns every field as a string.
type foreignHoldingRow struct {
	Rank               string `json:"Rank"`
	Code               string `json:"Code"`
	Name               string `json:"Name"`
	ShareNumber        string `json:"ShareNumber"`
	AvailableShare     string `json:"AvailableShare"`
	SharesHeld         string `json:"SharesHeld"`
	AvailableInvestPer string `json:"AvailableInvestPer"`
	SharesHeldPer      string `json:"SharesHeldPer"`
	Upperlimit         string `json:"Upperlimit"`
}

type dailyVolumeRow struct {
	Rank         string `json:"Rank"`
	Code         string `json:"Code"`
	Name         string `json:"Name"`
	TradeVolume  string `json:"TradeVolume"`
	Transaction  string `json:"Transaction"`
	ClosingPrice string `json:"ClosingPrice"`
	Dir          string `json:"Dir"`
	Change       string `json:"Change"`
	HighestPrice string `json:"HighestPrice"`
	LowestPrice  string `json:"LowestPrice"`
}

type stockRatiosRow struct {
	Code          string `json:"Code"`
	Name          string `json:"Name"`
	PEratio       string `json:"PEratio"`
	DividendYield string `json:"DividendYield"`
	PBratio       string `json:"PBratio"`
}

type stockDailyRow struct {
	Code         string `json:"Code"`
	Name         string `json:"Name"`
	TradeVolume  string `json:"TradeVolume"`
	TradeValue   string `json:"TradeValue"`
	ClosingPrice string `json:"ClosingPrice"`
	Change       string `json:"Change"`
	HighestPrice string `json:"HighestPrice"`
	LowestPrice  string `json:"LowestPrice"`
}

// ForeignHoldingsTop5 renders the top five stocks by foreign investment.
func (s *Stock) ForeignHoldingsTop5(ctx context.Context) (string, error) {
	var rows []foreignHoldingRow
	if err := getJSON(ctx, s.httpClient, s.baseURL+pathForeignHoldings, nil, &rows); err != nil {
		s.log.WarnContext(ctx, "Foreign holdings request failed", "error", err)
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("當前外資持股前五名為\n")
	for _, row := range top(rows) {
		shareNumber, err := thousands(row.ShareNumber)
		if err != nil {
			return "", badResponseError(fmt.Sprintf("bad share number %q", row.ShareNumber), err)
		}
		available, err := thousands(row.AvailableShare)
		if err != nil {
			return "", badResponseError(fmt.Sprintf("bad available share %q", row.AvailableShare), err)
		}
		held, err := thousands(row.SharesHeld)
		if err != nil {
			return "", badResponseError(fmt.Sprintf("bad shares held %q", row.SharesHeld), err)
		}

		fmt.Fprintf(&sb, "名次: %s\n", row.Rank)
		fmt.Fprintf(&sb, "股票: %s\n", row.Name)
		fmt.Fprintf(&sb, "代號為: %s\n", row.Code)
		fmt.Fprintf(&sb, "總股數為: %s股\n", shareNumber)
		fmt.Fprintf(&sb, "可投資股數: %s股\n", available)
		fmt.Fprintf(&sb, "已投資股數: %s股\n", held)
		fmt.Fprintf(&sb, "可投資比例: %s%%\n", row.AvailableInvestPer)
		fmt.Fprintf(&sb, "已投資比例: %s%%\n", row.SharesHeldPer)
		fmt.Fprintf(&sb, "上限比例: %s%%\n", row.Upperlimit)
		sb.WriteString("---------------------------\n")
	}
	return sb.String(), nil
}

// DailyVolumeTop5 renders the top five securities by daily trade volume.
func (s *Stock) DailyVolumeTop5(ctx context.Context) (string, error) {
	var rows []dailyVolumeRow
	if err := getJSON(ctx, s.httpClient, s.baseURL+pathDailyVolume, nil, &rows); err != nil {
		s.log.WarnContext(ctx, "Daily volume request failed", "error", err)
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("集中市場每日成交量前五名證券\n")
	for _, row := range top(rows) {
		volume, err := thousands(row.TradeVolume)
		if err != nil {
			return "", badResponseError(fmt.Sprintf("bad trade volume %q", row.TradeVolume), err)
		}
		transactions, err := thousands(row.Transaction)
		if err != nil {
			return "", badResponseError(fmt.Sprintf("bad transaction count %q", row.Transaction), err)
		}

		fmt.Fprintf(&sb, "名次: %s\n", row.Rank)
		fmt.Fprintf(&sb, "股票: %s(%s)\n", row.Name, row.Code)
		fmt.Fprintf(&sb, "成交量: %s張\n", volume)
		fmt.Fprintf(&sb, "成交筆數: %s筆\n", transactions)
		fmt.Fprintf(&sb, "收盤價: %s\n", row.ClosingPrice)
		fmt.Fprintf(&sb, "漲跌: %s%s\n", row.Dir, row.Change)
		fmt.Fprintf(&sb, "最高: %s / 最低: %s\n", row.HighestPrice, row.LowestPrice)
		sb.WriteString("-------------------------------\n")
	}
	return sb.String(), nil
}

// FullInfo joins the ratio and daily-trading datasets by stock code and
// renders the combined quote. An unknown code yields a not-found reply, not
// an error.
func (s *Stock) FullInfo(ctx context.Context, stockCode string) (string, error) {
	var ratios []stockRatiosRow
	if err := getJSON(ctx, s.httpClient, s.baseURL+pathStockRatios, nil, &ratios); err != nil {
		s.log.WarnContext(ctx, "Stock ratios request failed", "error", err)
		return "", err
	}

	var daily []stockDailyRow
	if err := getJSON(ctx, s.httpClient, s.baseURL+pathStockDaily, nil, &daily); err != nil {
		s.log.WarnContext(ctx, "Stock daily request failed", "error", err)
		return "", err
	}

	var ratioRow *stockRatiosRow
	for i := range ratios {
		if ratios[i].Code == stockCode {
			ratioRow = &ratios[i]
			break
		}
	}
	var dailyRow *stockDailyRow
	for i := range daily {
		if daily[i].Code == stockCode {
			dailyRow = &daily[i]
			break
		}
	}

	if ratioRow == nil || dailyRow == nil {
		return fmt.Sprintf("找不到股票代碼 %s 的資訊", stockCode), nil
	}

	volume, err := thousands(dailyRow.TradeVolume)
	if err != nil {
		return "", badResponseError(fmt.Sprintf("bad trade volume %q", dailyRow.TradeVolume), err)
	}
	value, err := thousands(dailyRow.TradeValue)
	if err != nil {
		return "", badResponseError(fmt.Sprintf("bad trade value %q", dailyRow.TradeValue), err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%s) 股票資訊\n", ratioRow.Name, stockCode)
	sb.WriteString("\n價格資訊\n")
	fmt.Fprintf(&sb, "收盤價: %s元\n", dailyRow.ClosingPrice)
	fmt.Fprintf(&sb, "漲跌: %s元\n", dailyRow.Change)
	fmt.Fprintf(&sb, "最高/最低: %s/%s\n", dailyRow.HighestPrice, dailyRow.LowestPrice)
	sb.WriteString("\n技術指標\n")
	fmt.Fprintf(&sb, "本益比: %s\n", ratioRow.PEratio)
	fmt.Fprintf(&sb, "股價淨值比: %s\n", ratioRow.PBratio)
	fmt.Fprintf(&sb, "殖利率: %s%%\n", ratioRow.DividendYield)
	sb.WriteString("交易量\n")
	fmt.Fprintf(&sb, "成交量: %s股\n", volume)
	fmt.Fprintf(&sb, "成交金額: %s元\n", value)
	return sb.String(), nil
}

// top returns the first five elements of rows.
func top[T any](rows []T) []T {
	if len(rows) > topCount {
		return rows[:topCount]
	}
	return rows
}

// thousands formats a numeric string with comma separators.
func thousands(raw string) (string, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return "", err
	}

	s := strconv.FormatInt(n, 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var sb strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}
	if negative {
		return "-" + sb.String(), nil
	}
	return sb.String(), nil
}
