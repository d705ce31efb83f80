// Package lenient は入力値を寛容に解釈するパーサーを提供する。
//
// 先頭の整数部分だけを読み取り、残りの文字列は無視する。
// "12abc" は12、"abc" は解釈できない値として扱われる。
package lenient

import (
	"strconv"
	"strings"
)

// ParseInt は文字列の先頭にある10進整数を読み取る。
// 先頭の空白と符号を許容し、数字が1つも無い場合や範囲外の場合はokがfalseになる。
func ParseInt(s string) (n int64, ok bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IntOr はParseIntで読み取った値を返す。解釈できない場合や0の場合はdefaultValueを返す。
func IntOr(s string, defaultValue int64) int64 {
	if n, ok := ParseInt(s); ok && n != 0 {
		return n
	}
	return defaultValue
}
