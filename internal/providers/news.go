package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const newsArticleCount = 3

// NewsConfig carries the NewsAPI endpoint and key.
type NewsConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// News searches Chinese-language news articles through NewsAPI.
type News struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewNews creates a news search client.
func NewNews(cfg NewsConfig, log *slog.Logger) *News {
	if log == nil {
		log = slog.Default()
	}
	return &News{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("component", "news"),
	}
}

type newsResponse struct {
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search renders the three most relevant articles for the keyword. Fields
// absent from an article render as 未知 placeholders rather than failing the
// whole reply.
func (n *News) Search(ctx context.Context, keyword string) (string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", validationError("請輸入要搜尋的關鍵字")
	}

	params := url.Values{
		"q":        {keyword},
		"language": {"zh"},
		"apiKey":   {n.apiKey},
	}

	var resp newsResponse
	if err := getJSON(ctx, n.httpClient, n.baseURL+"/everything", params, &resp); err != nil {
		n.log.WarnContext(ctx, "News search request failed", "keyword", keyword, "error", err)
		return "", err
	}

	if len(resp.Articles) == 0 {
		return "找不到相關的內文 請重新嘗試新的關鍵字", nil
	}

	articles := resp.Articles
	if len(articles) > newsArticleCount {
		articles = articles[:newsArticleCount]
	}

	blocks := make([]string, 0, len(articles))
	for _, article := range articles {
		var sb strings.Builder
		fmt.Fprintf(&sb, "來源名稱:%s\n", fallback(article.Source.Name, "未知來源"))
		fmt.Fprintf(&sb, "作者:%s\n", fallback(article.Author, "未知作者"))
		fmt.Fprintf(&sb, "標題:%s\n", fallback(article.Title, "未知標題"))
		fmt.Fprintf(&sb, "文章網址:%s\n", fallback(article.URL, "未知網址"))
		fmt.Fprintf(&sb, "文章圖片:%s\n", fallback(article.URLToImage, "未知圖片"))
		fmt.Fprintf(&sb, "發布日期:%s\n", fallback(article.PublishedAt, "未知日期"))
		sb.WriteString("--------------------------------------------------------")
		blocks = append(blocks, sb.String())
	}

	n.log.DebugContext(ctx, "News search completed", "keyword", keyword, "articles", len(blocks))
	return strings.Join(blocks, "\n"), nil
}

func fallback(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
