package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// 金額使用 int64，並定義精度：小數點後 4 位
const CurrencyScale = 10000

// ParseAmount 將使用者輸入的十進位金額字串轉為最小單位
// 非數字、非有限數值 (NaN/Inf) 與非正數一律拒絕
func ParseAmount(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrAmountMustBePositive
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, ErrAmountMustBePositive
	}
	minor := int64(math.Round(f * CurrencyScale))
	if minor <= 0 {
		return 0, ErrAmountMustBePositive
	}
	return minor, nil
}

// FormatAmount 將最小單位金額轉回十進位字串（顯示用）
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	whole := minor / CurrencyScale
	frac := minor % CurrencyScale
	if frac == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	return strings.TrimRight(fmt.Sprintf("%s%d.%04d", sign, whole, frac), "0")
}
