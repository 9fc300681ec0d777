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

package analysis

import (
	"fmt"
	"time"

	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/spec"
)

// TimePoint 單一開獎日的指標值。
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// TimeSeries 依日期排序的指標序列。
// 開獎日期本來就不規則，點與點之間不補值；每個點對應一期實際開獎。
type TimeSeries struct {
	Game   string      `json:"game"`
	Metric string      `json:"metric"`
	Points []TimePoint `json:"points"`
}

// Metric 從單期開獎導出一個數值的具名函數。
type Metric struct {
	Name string
	Fn   func(*draw.Draw) float64
}

// MetricDrawSum 主號碼總和。
var MetricDrawSum = Metric{
	Name: "draw_sum",
	Fn:   func(d *draw.Draw) float64 { return float64(d.Sum()) },
}

// MetricNumberHit 回傳「該期是否開出 n」的 0/1 指標。
func MetricNumberHit(n int) Metric {
	return Metric{
		Name: fmt.Sprintf("hit_%d", n),
		Fn: func(d *draw.Draw) float64 {
			if d.HasNumber(n) {
				return 1
			}
			return 0
		},
	}
}

// TimeSeriesAnalyzer 把開獎屬性展開成時間序列。
// 沒有最低期數門檻：零期就回空序列（soft fail），由呼叫端決定怎麼呈現。
type TimeSeriesAnalyzer struct{}

func NewTimeSeriesAnalyzer() TimeSeriesAnalyzer {
	return TimeSeriesAnalyzer{}
}

// Analyze 產出依日期非遞減排序的 (date, value) 序列。
func (ta TimeSeriesAnalyzer) Analyze(gs *spec.GameSpec, ds []draw.Draw, m Metric) *TimeSeries {
	valid, _ := filterValid(gs, ds)
	sorted := append([]draw.Draw(nil), valid...)
	draw.SortByDate(sorted)

	ts := &TimeSeries{
		Game:   gs.GameName,
		Metric: m.Name,
		Points: make([]TimePoint, 0, len(sorted)),
	}
	for i := range sorted {
		ts.Points = append(ts.Points, TimePoint{
			Date:  sorted[i].DrawDate,
			Value: m.Fn(&sorted[i]),
		})
	}
	return ts
}
