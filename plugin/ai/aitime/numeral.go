package aitime

import (
	"strconv"
)

// chineseDigits maps single Chinese numeral runes to their value.
var chineseDigits = map[rune]int{
	'零': 0, '〇': 0,
	'一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
	'十': 10,
}

// ParseNumeral converts an hour token such as "3", "十一", "二十三" or "两" to an int.
// It returns false when the token is not a number it understands; callers must treat
// that as "could not extract", never as zero.
//
// Inside the compound forms (十X, X十, X十Y) an unknown rune counts as 0.
func ParseNumeral(token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	if isASCIIDigits(token) {
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	runes := []rune(token)
	switch {
	case token == "十":
		return 10, true
	case len(runes) == 2 && runes[0] == '十':
		return 10 + chineseDigits[runes[1]], true
	case len(runes) == 2 && runes[1] == '十':
		return chineseDigits[runes[0]] * 10, true
	case len(runes) == 3 && runes[1] == '十':
		return chineseDigits[runes[0]]*10 + chineseDigits[runes[2]], true
	case len(runes) == 1:
		v, ok := chineseDigits[runes[0]]
		return v, ok
	}
	return 0, false
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
