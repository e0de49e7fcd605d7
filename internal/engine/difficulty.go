package engine

import "time"

// Budget 是一个难度档位对应的搜索预算
type Budget struct {
	MaxDepth  int
	TimeLimit time.Duration
}

// DefaultDifficulty 用于请求里没带难度的情况
const DefaultDifficulty = "medium"

// FallbackBudget 用于无法识别的难度，比 easy 还严
var FallbackBudget = Budget{MaxDepth: 1, TimeLimit: time.Second}

// Difficulties 把难度名映射到预算，大小写敏感
type Difficulties map[string]Budget

func DefaultDifficulties() Difficulties {
	return Difficulties{
		"easy":   {MaxDepth: 2, TimeLimit: 2 * time.Second},
		"medium": {MaxDepth: 3, TimeLimit: 3 * time.Second},
		"hard":   {MaxDepth: 4, TimeLimit: 5 * time.Second},
	}
}

// Lookup 空字符串按 DefaultDifficulty 处理；其它不认识的名字返回 FallbackBudget。
func (d Difficulties) Lookup(tier string) Budget {
	if tier == "" {
		tier = DefaultDifficulty
	}
	if b, ok := d[tier]; ok {
		return b
	}
	return FallbackBudget
}

func (b Budget) Config() SearchConfig {
	return SearchConfig{MaxDepth: b.MaxDepth, TimeLimit: b.TimeLimit}
}
