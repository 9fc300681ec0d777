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

// Package spec 定義彩券遊戲的規格設定（GameSpec）。
//
// 每一種彩券遊戲（Lotto、Powerball、Daily Lotto...）由一份設定檔描述：
// 一期開出幾顆號碼、號碼值域、有沒有 bonus、bonus 值域。
// 分析核心所有「固定長度」「值域合法性」的依據都來自這裡，
// 不在程式碼裡散落 magic number。
package spec

import (
	"fmt"

	"github.com/zintix-labs/lottolab/errs"
)

// GameSpec 描述單一彩券遊戲的開獎形狀。
type GameSpec struct {
	GameName  string `yaml:"game_name"  json:"game_name"`
	PickCount int    `yaml:"pick_count" json:"pick_count"` // 一期開出的主號碼數
	NumberMin int    `yaml:"number_min" json:"number_min"`
	NumberMax int    `yaml:"number_max" json:"number_max"`

	// BonusCount 為 0 表示該遊戲沒有 bonus 號。
	BonusCount int `yaml:"bonus_count" json:"bonus_count"`
	BonusMin   int `yaml:"bonus_min"   json:"bonus_min"`
	BonusMax   int `yaml:"bonus_max"   json:"bonus_max"`

	// BonusFromMain 表示 bonus 與主號碼共用同一池
	// （南非 Lotto 的 bonus ball 即是）；Powerball 類則是獨立池。
	BonusFromMain bool `yaml:"bonus_from_main" json:"bonus_from_main"`
}

// init 目前只有基本檢查，保留與其他設定型別一致的入口。
func (gs *GameSpec) init() error {
	return gs.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (gs *GameSpec) valid() error {
	if gs.GameName == "" {
		return errs.NewFatal("empty game_name")
	}
	if gs.PickCount < 1 {
		return errs.Fatalf("game_name: %s err:invalid pick_count %d", gs.GameName, gs.PickCount)
	}
	if gs.NumberMin < 1 || gs.NumberMax < gs.NumberMin {
		return errs.Fatalf("game_name: %s err:invalid number range [%d,%d]", gs.GameName, gs.NumberMin, gs.NumberMax)
	}

	// 池子必須裝得下一期的號碼
	if poolSize := gs.NumberMax - gs.NumberMin + 1; poolSize < gs.PickCount {
		return errs.Fatalf("game_name: %s err:pool smaller than pick_count", gs.GameName)
	}

	if gs.BonusCount < 0 {
		return errs.Fatalf("game_name: %s err:invalid bonus_count %d", gs.GameName, gs.BonusCount)
	}
	if gs.BonusCount > 0 {
		if gs.BonusFromMain {
			// 共用池：bonus 值域跟主號碼一致，設定檔可留空
			if gs.BonusMin == 0 && gs.BonusMax == 0 {
				gs.BonusMin = gs.NumberMin
				gs.BonusMax = gs.NumberMax
			}
		}
		if gs.BonusMin < 1 || gs.BonusMax < gs.BonusMin {
			return errs.Fatalf("game_name: %s err:invalid bonus range [%d,%d]", gs.GameName, gs.BonusMin, gs.BonusMax)
		}
	}
	return nil
}

// InRange 回傳 n 是否為該遊戲合法的主號碼。
func (gs *GameSpec) InRange(n int) bool {
	return n >= gs.NumberMin && n <= gs.NumberMax
}

// BonusInRange 回傳 n 是否為該遊戲合法的 bonus 號。
func (gs *GameSpec) BonusInRange(n int) bool {
	if gs.BonusCount == 0 {
		return false
	}
	return n >= gs.BonusMin && n <= gs.BonusMax
}

// PoolSize 回傳主號碼池大小。
func (gs *GameSpec) PoolSize() int {
	return gs.NumberMax - gs.NumberMin + 1
}

func (gs *GameSpec) String() string {
	return fmt.Sprintf("%s pick=%d range=[%d,%d] bonus=%d", gs.GameName, gs.PickCount, gs.NumberMin, gs.NumberMax, gs.BonusCount)
}
