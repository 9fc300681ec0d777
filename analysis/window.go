// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package analysis 是彩券分析與預測核心。
//
// 所有分析器都是「對一份記憶體內 Draw 快照的純函數」：不持鎖、不寫任何
// 共享狀態，任意多個請求可併發執行。I/O 只發生在 Engine 載入 draw 的
// 那一步；之後的計算不再碰外部資源，呼叫端要取消只需丟棄結果。
//
// 錯誤合約（請求層一律 errs.Warn，可以 errors.Is 比對）：
//   - ErrInsufficientData：資料量低於分析器門檻，呼叫端應顯示占位訊息。
//   - ErrInvalidWindow：days <= 0，進 repo 之前就擋下。
//   - ErrUnknownLotteryType：目錄中不存在的遊戲名稱，同樣在邊界擋下。
//
// 長得像但壞掉的資料（缺 divisions、號碼數不對）一律跳過並累計 warning
// 數，不會讓整次分析失敗。
package analysis

import (
	"time"

	"github.com/zintix-labs/lottolab/errs"
)

var (
	ErrInsufficientData   = errs.NewWarn("insufficient data")
	ErrInvalidWindow      = errs.NewWarn("invalid window: days must be positive")
	ErrUnknownLotteryType = errs.NewWarn("unknown lottery type")
)

// DaysAllTime 是「全部歷史」的慣例窗口；一百年的 trailing window
// 對彩券資料等價於不過濾。
const DaysAllTime = 36500

// Window 描述一次分析的範圍：哪個遊戲（可空 = 全部）、往回看幾天。
// 每個請求各自構造，不落地。
type Window struct {
	Game string `json:"game,omitempty"`
	Days int    `json:"days"`
}

// Valid 只檢查窗口本身；遊戲名稱的合法性由 Engine 對著目錄驗。
func (w Window) Valid() error {
	if w.Days <= 0 {
		return ErrInvalidWindow
	}
	return nil
}

// Since 回傳窗口對應的起始時間。
func (w Window) Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -w.Days)
}
