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

// Package gamecfg 內嵌預設的遊戲規格 YAML 設定檔。
package gamecfg

import (
	"embed"
)

// FS 內嵌的預設遊戲規格，供 Lab 與離線工具直接註冊使用。
//
//go:embed *.yaml
var FS embed.FS
