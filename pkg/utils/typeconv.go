package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WooCommerce renders timestamps as "2017-03-22T16:28:02" (site local) and
// the *_gmt twins without any zone suffix, so zoneless layouts are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z07",
	"2006-01-02T15:04",
	"2006-01-02T15Z07:00",
	"2006-01-02T15",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	// basic format
	"20060102T150405.999999999Z0700",
	"20060102T150405.999999999Z07",
	"20060102T150405.999999999",
	"20060102T1504Z0700",
	"20060102T1504",
	"20060102",
}

// ParseISODateTime parses an ISO-8601 date or date-time, with or without a
// zone offset. A trailing " GMT" / "GMT" marker is treated as UTC.
func ParseISODateTime(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if strings.HasSuffix(v, "GMT") {
		v = strings.TrimSpace(strings.TrimSuffix(v, "GMT"))
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse datetime: %q", s)
}

// ConvertDateTime returns val as a time.Time when it is already one (or a
// BSON datetime) and parses it when it is a string.
func ConvertDateTime(val interface{}) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case primitive.DateTime:
		return v.Time().UTC(), nil
	case string:
		return ParseISODateTime(v)
	case []byte:
		return ParseISODateTime(string(v))
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to datetime", val)
	}
}

func ConvertToInt(val interface{}) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		return int(n), err
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	case []byte:
		return strconv.Atoi(strings.TrimSpace(string(v)))
	default:
		return 0, fmt.Errorf("cannot convert %T to int", val)
	}
}

// NormalizeJSONNumbers walks a value decoded with json.Decoder.UseNumber and
// turns every json.Number into int64 when it is integral, float64 otherwise,
// so ids land in Mongo as integers.
func NormalizeJSONNumbers(val interface{}) interface{} {
	switch v := val.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]interface{}:
		for k, item := range v {
			v[k] = NormalizeJSONNumbers(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = NormalizeJSONNumbers(item)
		}
		return v
	default:
		return val
	}
}
