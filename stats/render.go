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

package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var lang language.Tag = language.English

// FrequencyReportRender 定義輸出行為
type FrequencyReportRender interface {
	Write(w io.Writer, r *FrequencyReport) error
}

// Json渲染
type JsonFrequencyReportRender struct{}

func (jr *JsonFrequencyReportRender) Write(w io.Writer, r *FrequencyReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLFrequencyReportRender struct{}

func (yr *YAMLFrequencyReportRender) Write(w io.Writer, r *FrequencyReport) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(r)
}

// StdOut 以對齊表格輸出到終端（CLI 用）。
func (r *FrequencyReport) StdOut() {
	r.Done()
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(r.Top)+1)
	rows := map[string]string{}

	keys = append(keys, "Draws")
	rows["Draws"] = p.Sprintf("%d", r.Draws)
	for _, ns := range r.Top {
		k := p.Sprintf("#%d", ns.Number)
		keys = append(keys, k)
		rows[k] = p.Sprintf("%d  (%.1f%% [%.1f%%,%.1f%%])",
			ns.Count, 100*ns.Rate, 100*ns.RateCI.Lo, 100*ns.RateCI.Hi)
	}
	fmt.Println(Table(r.Game, keys, rows))
}

// Table 渲染「key | value」對齊表格，寬度以 runewidth 計算。
// 給本包與 CLI 共用。
func Table(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
