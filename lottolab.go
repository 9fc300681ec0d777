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

// Package lottolab 提供彩券分析引擎的「組裝入口（assembler）」。
//
// Lab 負責把兩個必需的地基組裝在一起，並提供建立 Engine 的入口：
//  1. Catalog：遊戲目錄（Single Source of Truth / SSOT），定義有哪些
//     彩券遊戲、各自對應的設定檔名稱（ConfigName）。
//  2. Repository：開獎資料的唯讀來源（資料庫或記憶體）。
//
// 設計重點：
//   - Lab 本身不綁定任何「檔案路徑」概念：設定檔來源一律以 fs.FS 注入
//     （go:embed 的 gamecfg.FS、os.DirFS 皆可）。
//   - 分析核心只讀 Repository；寫入路徑（匯入開獎資料）屬外部協作者。
//   - runtime 一旦開始（Engine 已對外服務），不建議再變更 Catalog。
//
// 典型使用：
//
//	lab, _ := lottolab.NewAuto(repo, lottolab.Configs(gamecfg.FS))
//	eng, _ := lab.NewEngine()
//	res, _ := eng.Analyze(ctx, analysis.KindFrequency, analysis.Window{Days: 365})
package lottolab

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/lottolab/analysis"
	"github.com/zintix-labs/lottolab/catalog"
	"github.com/zintix-labs/lottolab/draw"
	"github.com/zintix-labs/lottolab/errs"
	"github.com/zintix-labs/lottolab/spec"
)

// Configs 把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Summary 單一遊戲的目錄摘要，給 API 首頁/CLI 列表用。
type Summary struct {
	Name      string `json:"name"`
	PickCount int    `json:"pick_count"`
	NumberMin int    `json:"number_min"`
	NumberMax int    `json:"number_max"`
	HasBonus  bool   `json:"has_bonus"`
}

// Lab 是組裝器：持有遊戲目錄與開獎資料來源，產生分析 Engine。
type Lab struct {
	cat  *catalog.Catalog
	repo draw.Repository
	sum  []Summary
}

// New 建立一個 Lab instance（組裝階段入口）。
//
// 參數要求（合約的一部分）：
//   - repo 不能為 nil：沒有資料來源，分析無從談起。
//   - cfgs 至少一個：沒有設定檔來源，Catalog 無法解析 GameSpec。
func New(repo draw.Repository, cfgs []fs.FS) (*Lab, error) {
	if repo == nil {
		return nil, errs.NewFatal("draw repository required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Lab{cat: cata, repo: repo}, nil
}

// NewAuto 建立並直接進入執行階段的 Lab：掃描全部設定檔、註冊、Freeze。
func NewAuto(repo draw.Repository, cfgs []fs.FS) (*Lab, error) {
	lab, err := New(repo, cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll 掃描設定檔來源，把所有可辨識的設定檔（.yaml/.yml/.json）
// 解析成 *spec.GameSpec，並以設定檔內宣告的 GameName 批次註冊。
//
// 行為特性：
//  1. Fail-fast：任何檔案解析/檢查失敗立刻回傳 error，不忽略不續掃。
//  2. 原子性：全部檔案都通過檢查才一次性 Register，不會半完成。
//  3. 穩定性：依檔名排序後處理，確保 determinism。
func (l *Lab) RegisterAll() error {
	cfgs := l.cat.Cfg()
	sources := cfgs.Sources()
	if len(sources) == 0 {
		return errs.NewFatal("configs required")
	}

	entries := make([]catalog.Entry, 0, 16)
	seenName := map[string]string{}

	for _, src := range sources {
		var files []string
		walkErr := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("configs must be flat (no subdir): %q", path))
			}
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(base))
			if ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return nil
			}
			files = append(files, base)
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
		sort.Strings(files)

		for _, base := range files {
			raw, rerr := fs.ReadFile(src, base)
			if rerr != nil {
				return errs.NewFatal(fmt.Sprintf("read config failed: %s", base))
			}

			var (
				gs   *spec.GameSpec
				gerr error
			)
			switch strings.ToLower(filepath.Ext(base)) {
			case ".yaml", ".yml":
				gs, gerr = spec.GetGameSpecByYAML(raw)
			case ".json":
				gs, gerr = spec.GetGameSpecByJSON(raw)
			}
			if gerr != nil {
				return errs.NewFatal(fmt.Sprintf("parse gamespec failed: %s", base))
			}

			name := strings.TrimSpace(gs.GameName)
			if name == "" {
				return errs.NewFatal(fmt.Sprintf("game name required: %s", base))
			}
			nameKey := strings.ToLower(name)
			if prev, ok := seenName[nameKey]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate game name: %s (config=%s and %s)", nameKey, prev, base))
			}
			if _, ok := l.cat.GetByName(name); ok {
				return errs.NewFatal(fmt.Sprintf("game name already registered: %s (config=%s)", name, base))
			}
			seenName[nameKey] = base

			entries = append(entries, catalog.Entry{
				Name:       name,
				ConfigName: base,
			})
		}
	}

	if len(entries) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	return l.cat.Register(entries...)
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
}

func (l *Lab) EntryByName(name string) (catalog.Entry, bool) {
	return l.cat.GetByName(name)
}

func (l *Lab) Names() []string {
	return l.cat.Names()
}

func (l *Lab) All() []catalog.Entry {
	return l.cat.All()
}

func (l *Lab) Catalog() *catalog.Catalog {
	return l.cat
}

// Summary 回傳目錄摘要（frozen 後第一次呼叫時計算並快取）。
func (l *Lab) Summary() ([]Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if l.sum != nil {
		return l.sum, nil
	}
	names := l.cat.Names()
	cs := make([]Summary, 0, len(names))
	for _, name := range names {
		gs, err := l.cat.GameSpecByName(name)
		if err != nil {
			return nil, errs.NewFatal("parse game spec failed")
		}
		cs = append(cs, Summary{
			Name:      gs.GameName,
			PickCount: gs.PickCount,
			NumberMin: gs.NumberMin,
			NumberMax: gs.NumberMax,
			HasBonus:  gs.BonusCount > 0,
		})
	}
	l.sum = cs
	return l.sum, nil
}

// NewEngine 建立分析 Engine。Catalog 必須已 Freeze。
func (l *Lab) NewEngine() (*analysis.Engine, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return analysis.NewEngine(l.repo, l.cat)
}
