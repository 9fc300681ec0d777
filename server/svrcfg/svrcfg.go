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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/lottolab"
	"github.com/zintix-labs/lottolab/errs"
	"github.com/zintix-labs/lottolab/server/logger"
)

type SvrCfg struct {
	Log          *slog.Logger
	QueryTimeout time.Duration
	Lab          *lottolab.Lab
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	// 1s <= QueryTimeout <= 120s
	// 全史關聯分析可能掃很多期，給寬一點的上限
	if sc.QueryTimeout <= 0 {
		sc.QueryTimeout = 15 * time.Second
	}
	sc.QueryTimeout = max(time.Second, sc.QueryTimeout)
	sc.QueryTimeout = min(120*time.Second, sc.QueryTimeout)

	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	if !sc.Lab.Catalog().IsFrozen() {
		return errs.NewFatal("lab catalog must be frozen before serving")
	}
	return nil
}
