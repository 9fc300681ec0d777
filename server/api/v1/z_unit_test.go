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

package v1

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zintix-labs/lottolab"
	"github.com/zintix-labs/lottolab/analysis"
	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/gamecfg"
	"github.com/zintix-labs/lottolab/server/svrcfg"
)

// ============================================================
// ** Request decode **
// ============================================================

// days 的三態：沒帶 = 全史、明給 0 或負值 = 照傳（窗口檢查會拒絕）。
func TestDecodeAnalyzeRequestDays(t *testing.T) {
	cases := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"get omitted", httptest.NewRequest(http.MethodGet, "/v1/frequency", nil), analysis.DaysAllTime},
		{"get explicit zero", httptest.NewRequest(http.MethodGet, "/v1/frequency?days=0", nil), 0},
		{"get negative", httptest.NewRequest(http.MethodGet, "/v1/frequency?days=-7", nil), -7},
		{"get positive", httptest.NewRequest(http.MethodGet, "/v1/frequency?days=30", nil), 30},
		{"post omitted", httptest.NewRequest(http.MethodPost, "/v1/frequency", strings.NewReader(`{"game":"lotto"}`)), analysis.DaysAllTime},
		{"post explicit zero", httptest.NewRequest(http.MethodPost, "/v1/frequency", strings.NewReader(`{"game":"lotto","days":0}`)), 0},
	}
	for _, c := range cases {
		req, err := decodeAnalyzeRequest(c.req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if *req.Days != c.want {
			t.Fatalf("%s: days = %d, want %d", c.name, *req.Days, c.want)
		}
	}
}

func TestDecodeAnalyzeRequestBadDays(t *testing.T) {
	q := httptest.NewRequest(http.MethodGet, "/v1/frequency?days=abc", nil)
	if _, err := decodeAnalyzeRequest(q); err == nil {
		t.Fatalf("expected error for non-integer days")
	}
}

// ============================================================
// ** Handler boundary **
// ============================================================

func newTestHandler(t *testing.T) *AnalyzeHandler {
	t.Helper()
	lab, err := lottolab.NewAuto(draw.NewMemoryRepository(), []fs.FS{gamecfg.FS})
	if err != nil {
		t.Fatalf("build lab failed: %v", err)
	}
	h, err := NewAnalyzeHandler(&svrcfg.SvrCfg{Lab: lab, QueryTimeout: time.Second})
	if err != nil {
		t.Fatalf("build handler failed: %v", err)
	}
	return h
}

// 明給 days=0 必須被窗口檢查擋下，不能吞成全史預設。
func TestFrequencyExplicitZeroDaysRejected(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Frequency(rec, httptest.NewRequest(http.MethodGet, "/v1/frequency?days=0", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("days=0 should return 400, got %d", rec.Code)
	}

	// 沒帶 days 套全史窗口，空資料庫走軟性 notes 而非錯誤
	rec = httptest.NewRecorder()
	h.Frequency(rec, httptest.NewRequest(http.MethodGet, "/v1/frequency", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("omitted days should return 200, got %d", rec.Code)
	}
}

func TestTrendExplicitZeroDaysRejected(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Trend(rec, httptest.NewRequest(http.MethodGet, "/v1/trend?metric=sum&days=0", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("days=0 should return 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Trend(rec, httptest.NewRequest(http.MethodGet, "/v1/trend?metric=sum", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("omitted days should return 200, got %d", rec.Code)
	}
}
