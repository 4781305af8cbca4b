package bot

import "strings"

// HelpText enumerates every supported command with its format and examples.
// It is the reply for any message that matches no registered command.
var HelpText = "📝 指令使用說明\n" + strings.Repeat("=", 30) + "\n\n" +
	"🔸 縮網址\n" +
	"  說明：將長網址轉換為短網址\n" +
	"  格式：縮網址 [URL]\n" +
	"  範例：\n" +
	"    縮網址 https://www.google.com.tw/\n\n" +
	"🔸 匯率\n" +
	"  說明：查詢即時匯率轉換\n" +
	"  格式：匯率 [原幣別] [目標幣別]\n" +
	"  範例：\n" +
	"    匯率 美金 台幣\n\n" +
	"🔸 股票\n" +
	"  說明：查詢股票即時資訊\n" +
	"  格式：股票 [股票代碼]\n" +
	"  範例：\n" +
	"    股票 2330\n\n" +
	"🔸 天氣\n" +
	"  說明：查詢36小時天氣預報\n" +
	"  格式：天氣 [縣市名]\n" +
	"  範例：\n" +
	"    天氣 臺北市\n\n" +
	"🔸 新聞\n" +
	"  說明：搜尋相關新聞\n" +
	"  格式：新聞 [關鍵字]\n" +
	"  範例：\n" +
	"    新聞 財金\n\n" +
	"🔸 todo\n" +
	"  說明：待辦事項管理\n" +
	"  子指令：\n" +
	"    - 列表: 查看所有待辦事項\n" +
	"    - 新增: 新增待辦事項 (todo 新增 [事項名稱])\n" +
	"    - 刪除: 刪除待辦事項 (todo 刪除 [事項名稱])\n" +
	"    - 修改: 更改待辦狀態 (todo 修改 [事項名稱] completed/pending)\n" +
	"  範例：\n" +
	"    todo 列表\n" +
	"    todo 新增 運動\n" +
	"    todo 刪除 運動\n" +
	"    todo 修改 運動 completed\n"
