package record

import (
	"fmt"
	"strconv"
	"time"
)

func truthy(v any) bool {
	switch c := v.(type) {
	case nil:
		return false
	case string:
		return c != ""
	case bool:
		return c
	case float64:
		return c != 0
	case float32:
		return c != 0
	case int:
		return c != 0
	case int64:
		return c != 0
	case uint32:
		return c != 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case time.Time:
		return c.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}
