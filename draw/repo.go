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

package draw

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Repository 是分析核心對開獎資料庫的唯一讀取邊界。
//   - gameName 為空字串表示不過濾遊戲。
//   - 回傳一律依 DrawDate 由舊到新排序。
//   - 實作不得回傳共享的可變切片；每次呼叫回傳獨立 copy。
type Repository interface {
	ListDraws(ctx context.Context, gameName string, since time.Time) ([]Draw, error)
}

// MemoryRepository 以記憶體保存 Draw，用於測試與離線模擬。
// 讀寫皆可併發。
type MemoryRepository struct {
	mu    sync.RWMutex
	draws []Draw
}

func NewMemoryRepository(ds ...Draw) *MemoryRepository {
	r := &MemoryRepository{}
	r.Add(ds...)
	return r
}

// Add 加入開獎紀錄。只給測試/模擬器用；分析核心不會呼叫。
func (r *MemoryRepository) Add(ds ...Draw) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws = append(r.draws, ds...)
	SortByDate(r.draws)
}

func (r *MemoryRepository) ListDraws(ctx context.Context, gameName string, since time.Time) ([]Draw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Draw, 0, len(r.draws))
	for _, d := range r.draws {
		if gameName != "" && !strings.EqualFold(d.GameName, gameName) {
			continue
		}
		if d.DrawDate.Before(since) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Len 回傳紀錄總數。
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.draws)
}
