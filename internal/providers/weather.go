package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrLocationNotFound is returned when the CWA response carries no data for
// the requested county or observation station.
var ErrLocationNotFound = errors.New("weather: location not found")

// countyStations maps each county to its representative observation station.
// The forecast dataset is keyed by county while the realtime dataset is keyed
// by station, so the integrated query joins the two through this table.
var countyStations = map[string]string{
	// 北部
	"臺北市": "臺北",
	"新北市": "板橋",
	"基隆市": "基隆",
	"桃園市": "新屋",
	"新竹市": "新竹",
	"新竹縣": "新竹",
	"苗栗縣": "新竹",
	// 中部
	"臺中市": "臺中",
	"南投縣": "日月潭",
	"彰化縣": "彰師大",
	"雲林縣": "嘉義",
	// 南部
	"嘉義市": "嘉義",
	"嘉義縣": "阿里山",
	"臺南市": "臺南",
	"高雄市": "高雄",
	"屏東縣": "恆春",
	// 東部
	"宜蘭縣": "宜蘭",
	"花蓮縣": "花蓮",
	"臺東縣": "臺東",
	// 外島
	"澎湖縣": "澎湖",
	"金門縣": "金門",
	"連江縣": "馬祖",
}

// SupportedCounties is the guidance block listing every county the weather
// command understands, shown on bad input.
const SupportedCounties = "支援查詢的縣市：\n" +
	"北部：臺北市、新北市、基隆市、桃園市、新竹市、新竹縣、苗栗縣\n" +
	"中部：臺中市、南投縣、彰化縣、雲林縣\n" +
	"南部：嘉義市、嘉義縣、臺南市、高雄市、屏東縣\n" +
	"東部：宜蘭縣、花蓮縣、臺東縣\n" +
	"外島：澎湖縣、金門縣、連江縣"

// CWA dataset identifiers: realtime station observations and the 36-hour
// county forecast.
const (
	datasetCurrent  = "O-A0003-001"
	datasetForecast = "F-C0032-001"
)

var forecastPeriods = [3]string{"今天白天", "今晚明晨", "明天白天"}

// WeatherConfig carries the CWA open data endpoint and token.
type WeatherConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Weather queries the Central Weather Administration open data platform for
// realtime observations and 36-hour forecasts, and merges them into one reply.
type Weather struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewWeather creates a weather client.
func NewWeather(cfg WeatherConfig, log *slog.Logger) *Weather {
	if log == nil {
		log = slog.Default()
	}
	return &Weather{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("component", "weather"),
	}
}

// Realtime observation response shape. Numeric fields are kept as
// json.Number so absent values render as a placeholder instead of zero.
type currentResponse struct {
	Records struct {
		Station []struct {
			StationName string `json:"StationName"`
			ObsTime     struct {
				DateTime string `json:"DateTime"`
			} `json:"ObsTime"`
			WeatherElement struct {
				Weather string `json:"Weather"`
				Now     struct {
					Precipitation json.Number `json:"Precipitation"`
				} `json:"Now"`
				UVIndex        json.Number `json:"UVIndex"`
				AirTemperature json.Number `json:"AirTemperature"`
				DailyExtreme   struct {
					DailyHigh struct {
						TemperatureInfo struct {
							AirTemperature json.Number `json:"AirTemperature"`
						} `json:"TemperatureInfo"`
					} `json:"DailyHigh"`
					DailyLow struct {
						TemperatureInfo struct {
							AirTemperature json.Number `json:"AirTemperature"`
						} `json:"TemperatureInfo"`
					} `json:"DailyLow"`
				} `json:"DailyExtreme"`
			} `json:"WeatherElement"`
		} `json:"Station"`
	} `json:"records"`
}

// forecastSlot is one element value within one forecast period.
type forecastSlot struct {
	start, end, value string
}

type forecastResponse struct {
	Records struct {
		Location []struct {
			LocationName   string `json:"locationName"`
			WeatherElement []struct {
				ElementName string `json:"elementName"`
				Time        []struct {
					StartTime string `json:"startTime"`
					EndTime   string `json:"endTime"`
					Parameter struct {
						ParameterName string `json:"parameterName"`
					} `json:"parameter"`
				} `json:"time"`
			} `json:"weatherElement"`
		} `json:"location"`
	} `json:"records"`
}

// CurrentWeather renders the realtime observation block for one station.
// Returns ErrLocationNotFound when the dataset has no such station.
func (w *Weather) CurrentWeather(ctx context.Context, stationName string) (string, error) {
	params := url.Values{"Authorization": {w.token}}

	var resp currentResponse
	if err := getJSON(ctx, w.httpClient, w.baseURL+"/"+datasetCurrent, params, &resp); err != nil {
		w.log.WarnContext(ctx, "Current observation request failed", "error", err)
		return "", err
	}

	for _, station := range resp.Records.Station {
		if station.StationName != stationName {
			continue
		}

		elem := station.WeatherElement
		var sb strings.Builder
		fmt.Fprintf(&sb, "氣象站名稱:%s\n", station.StationName)
		fmt.Fprintf(&sb, "觀測時間:%s\n", orPlaceholder(station.ObsTime.DateTime))
		fmt.Fprintf(&sb, "天氣:%s\n", orPlaceholder(elem.Weather))
		fmt.Fprintf(&sb, "目前降雨量:%s毫米\n", numberOrPlaceholder(elem.Now.Precipitation))
		fmt.Fprintf(&sb, "紫外線指數:%s\n", numberOrPlaceholder(elem.UVIndex))
		fmt.Fprintf(&sb, "氣溫:%s\n", numberOrPlaceholder(elem.AirTemperature))
		fmt.Fprintf(&sb, "當日最高溫:%s度\n", numberOrPlaceholder(elem.DailyExtreme.DailyHigh.TemperatureInfo.AirTemperature))
		fmt.Fprintf(&sb, "當日最低溫:%s度\n", numberOrPlaceholder(elem.DailyExtreme.DailyLow.TemperatureInfo.AirTemperature))
		return sb.String(), nil
	}

	w.log.DebugContext(ctx, "Station not present in observation dataset", "station", stationName)
	return "", fmt.Errorf("station %s: %w", stationName, ErrLocationNotFound)
}

// Forecast renders the 36-hour forecast block for one county.
// Returns ErrLocationNotFound when the dataset has no such county.
func (w *Weather) Forecast(ctx context.Context, countyName string) (string, error) {
	params := url.Values{"Authorization": {w.token}}

	var resp forecastResponse
	if err := getJSON(ctx, w.httpClient, w.baseURL+"/"+datasetForecast, params, &resp); err != nil {
		w.log.WarnContext(ctx, "Forecast request failed", "error", err)
		return "", err
	}

	for _, location := range resp.Records.Location {
		if location.LocationName != countyName {
			continue
		}

		elements := make(map[string][]forecastSlot, len(location.WeatherElement))
		for _, elem := range location.WeatherElement {
			times := make([]forecastSlot, 0, len(elem.Time))
			for _, t := range elem.Time {
				times = append(times, forecastSlot{t.StartTime, t.EndTime, t.Parameter.ParameterName})
			}
			elements[elem.ElementName] = times
		}

		wx, pop, minT, maxT, ci := elements["Wx"], elements["PoP"], elements["MinT"], elements["MaxT"], elements["CI"]
		if len(wx) < len(forecastPeriods) || len(pop) < len(forecastPeriods) ||
			len(minT) < len(forecastPeriods) || len(maxT) < len(forecastPeriods) || len(ci) < len(forecastPeriods) {
			return "", badResponseError("forecast weather elements are incomplete", nil)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s天氣預報\n", countyName)
		for i, period := range forecastPeriods {
			fmt.Fprintf(&sb, "\n%s（%s-%s）：\n", period, clockTime(wx[i].start), clockTime(wx[i].end))
			fmt.Fprintf(&sb, "天氣狀況：%s\n", wx[i].value)
			fmt.Fprintf(&sb, "降雨機率：%s%%\n", pop[i].value)
			fmt.Fprintf(&sb, "溫度範圍：%s°C - %s°C\n", minT[i].value, maxT[i].value)
			fmt.Fprintf(&sb, "舒適度：%s\n", ci[i].value)
		}
		return sb.String(), nil
	}

	w.log.DebugContext(ctx, "County not present in forecast dataset", "county", countyName)
	return "", fmt.Errorf("county %s: %w", countyName, ErrLocationNotFound)
}

// Integrated merges the county forecast with the realtime observation of the
// county's mapped station. Counties without a station mapping show only the
// forecast; a county unknown to the forecast dataset yields the guidance text.
func (w *Weather) Integrated(ctx context.Context, countyName string) (string, error) {
	forecast, err := w.Forecast(ctx, countyName)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			return notFoundGuidance(countyName), nil
		}
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🌈 %s 天氣資訊\n", countyName)
	sb.WriteString(strings.Repeat("=", 30) + "\n\n")
	sb.WriteString("🔮 天氣預報\n")
	sb.WriteString(forecast + "\n")

	stationName, ok := countyStations[countyName]
	if !ok {
		return sb.String(), nil
	}

	current, err := w.CurrentWeather(ctx, stationName)
	if err != nil {
		// The forecast alone is still a useful reply; observation failures
		// degrade to forecast-only output.
		w.log.WarnContext(ctx, "Skipping realtime observation in integrated reply",
			"county", countyName, "station", stationName, "error", err)
		return sb.String(), nil
	}

	sb.WriteString("\n📍 即時觀測")
	if stationName != countyName {
		fmt.Fprintf(&sb, "（%s觀測站）", stationName)
	}
	sb.WriteString("\n")
	sb.WriteString(current)
	return sb.String(), nil
}

func notFoundGuidance(countyName string) string {
	return fmt.Sprintf("❌ 找不到 %s 的天氣資訊\n", countyName) +
		"請輸入完整的縣市名稱，例如：\n" +
		"- 臺北市（而不是 臺北）\n" +
		"- 嘉義市 或 嘉義縣\n" +
		SupportedCounties
}

// clockTime extracts HH:MM from a "2006-01-02 15:04:05" timestamp.
func clockTime(ts string) string {
	if len(ts) >= 16 {
		return ts[11:16]
	}
	return ts
}

func orPlaceholder(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func numberOrPlaceholder(n json.Number) string {
	if n.String() == "" {
		return "N/A"
	}
	return n.String()
}
