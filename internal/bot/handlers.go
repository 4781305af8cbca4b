package bot

import (
	"context"
	"log/slog"

	"github.com/ycshao/lineassist/internal/providers"
	"github.com/ycshao/lineassist/internal/todo"
)

// Command keywords. The todo keyword is Latin-script by design; the rest
// follow the original Chinese command set.
const (
	cmdShorten  = "縮網址"
	cmdCurrency = "匯率"
	cmdStock    = "股票"
	cmdWeather  = "天氣"
	cmdNews     = "新聞"
	cmdTodo     = "todo"
)

// Stock sub-keywords selecting the ranking views instead of a single code.
const (
	stockForeignHoldings = "外資持股"
	stockDailyVolume     = "每日成交"
)

// Deps provides dependencies for the command handlers.
type Deps struct {
	Logger    *slog.Logger
	Shortener *providers.Shortener
	Currency  *providers.Currency
	Weather   *providers.Weather
	Stock     *providers.Stock
	News      *providers.News
	Todos     *todo.Manager
}

// RegisterAllCommands builds the router with every supported command.
func RegisterAllCommands(deps Deps) *Router {
	r := NewRouter(deps.Logger)
	r.Register(cmdShorten, newShortenHandler(deps))
	r.Register(cmdCurrency, newCurrencyHandler(deps))
	r.Register(cmdStock, newStockHandler(deps))
	r.Register(cmdWeather, newWeatherHandler(deps))
	r.Register(cmdNews, newNewsHandler(deps))
	r.Register(cmdTodo, newTodoHandler(deps))
	return r
}

func newShortenHandler(deps Deps) Handler {
	return func(ctx context.Context, parts []string, _ string) (string, error) {
		if len(parts) < 2 {
			return "請輸入正確的縮網址格式\n" +
				"   說明: 將長網址轉換為短網址\n" +
				"   格式: 縮網址 [URL]\n" +
				"   範例: 縮網址 https://www.google.com.tw/", nil
		}

		link, err := deps.Shortener.Shorten(ctx, parts[1])
		if err != nil {
			return "", err
		}
		return providers.FormatShortened(link), nil
	}
}

func newCurrencyHandler(deps Deps) Handler {
	return func(ctx context.Context, parts []string, _ string) (string, error) {
		if len(parts) < 3 {
			return "說明: 查詢即時匯率轉換\n" +
				"格式: 匯率 [原幣別] [目標幣別]\n" +
				"範例: 匯率 美金 台幣", nil
		}

		from, to := parts[1], parts[2]
		rate, err := deps.Currency.Convert(ctx, from, to)
		if err != nil {
			return "", err
		}
		return providers.FormatRate(from, to, rate), nil
	}
}

func newStockHandler(deps Deps) Handler {
	return func(ctx context.Context, parts []string, _ string) (string, error) {
		if len(parts) < 2 {
			return "說明: 查詢股票即時資訊\n" +
				"格式: 股票 [股票代碼]\n" +
				"範例: 股票 2330", nil
		}

		switch parts[1] {
		case stockForeignHoldings:
			return deps.Stock.ForeignHoldingsTop5(ctx)
		case stockDailyVolume:
			return deps.Stock.DailyVolumeTop5(ctx)
		default:
			return deps.Stock.FullInfo(ctx, parts[1])
		}
	}
}

func newWeatherHandler(deps Deps) Handler {
	return func(ctx context.Context, parts []string, _ string) (string, error) {
		if len(parts) < 2 {
			return "請輸入要查詢的縣市名稱\n" +
				"範例：天氣 臺北市\n" +
				providers.SupportedCounties, nil
		}

		return deps.Weather.Integrated(ctx, parts[1])
	}
}

func newNewsHandler(deps Deps) Handler {
	return func(ctx context.Context, parts []string, _ string) (string, error) {
		if len(parts) < 2 {
			return "說明: 搜尋相關新聞\n" +
				"格式: 新聞 [關鍵字]\n" +
				"範例: 新聞 財金", nil
		}

		return deps.News.Search(ctx, parts[1])
	}
}

// The todo command is the only one that receives the platform user id: items
// are partitioned per user with no cross-user visibility.
func newTodoHandler(deps Deps) Handler {
	return func(ctx context.Context, parts []string, userID string) (string, error) {
		if len(parts) < 2 {
			return "請輸入正確的待辦事項指令\n" +
				"支援的指令：\n" +
				"todo 列表\n" +
				"todo 新增 [事項名稱]\n" +
				"todo 刪除 [事項名稱]\n" +
				"todo 修改 [事項名稱] [狀態]", nil
		}

		return deps.Todos.HandleCommand(ctx, parts, userID)
	}
}
