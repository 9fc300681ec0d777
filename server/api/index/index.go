package index

import (
	"net/http"
)

const indexBody = `lottolab analysis api

GET /v1/games
GET /v1/frequency?game=<name>&days=<n>
GET /v1/patterns?game=<name>&days=<n>
GET /v1/trend?game=<name>&days=<n>&metric=<sum|hit>&number=<n>
GET /v1/winners?game=<name>&days=<n>
GET /v1/correlation?days=<n>
GET /v1/predict?game=<name>&days=<n>

POST 與 GET 同路徑，參數改以 JSON body 傳入。
`

// IndexHandlerFn 回傳純文字的 API 一覽，當作服務的活性檢查頁。
func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(indexBody))
}
