package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToInt converts loosely typed values to int. Unparseable input yields 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(v))
		return i
	case []byte:
		i, _ := strconv.Atoi(strings.TrimSpace(string(v)))
		return i
	default:
		i, _ := strconv.Atoi(fmt.Sprintf("%v", v))
		return i
	}
}

// ToBool converts loosely typed values to bool.
// It accepts bool, numbers (1=true) and the strings "1", "true", "yes" and "on".
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, float64:
		return ToInt(v) == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

// KeyString renders a decoded JSON scalar as an entity key.
//
// Numbers are rendered from their exact decimal text with trailing zeros trimmed, so
// 12 and 12.0 name the same key and integers beyond 2^53 keep every digit. Pass
// json.Number to avoid float64 rounding. Strings are kept as-is unless they could be
// mistaken for a number, a boolean or another quoted key, in which case they are
// rendered quoted: the number 1 is "1" and the string "1" is `"1"`.
func KeyString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		if ambiguousKey(v) {
			return strconv.Quote(v)
		}
		return v
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return v.String()
		}
		return d.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func ambiguousKey(s string) bool {
	switch {
	case s == "", s == "true", s == "false", strings.HasPrefix(s, `"`):
		return true
	}
	_, err := decimal.NewFromString(s)
	return err == nil
}
