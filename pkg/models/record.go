package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/balewgize/WooCommerce-migrate/pkg/utils"
)

// IDField is the identifier key of every WooCommerce record and the sole
// upsert key in the target collections.
const IDField = "id"

// Record is one order or customer exactly as the REST API returned it, with
// date fields rewritten to time.Time before it is stored.
type Record map[string]interface{}

// ID returns the record identifier and whether it is usable. Missing, null,
// empty-string and zero ids are not.
func (r Record) ID() (interface{}, bool) {
	v, ok := r[IDField]
	if !ok || v == nil {
		return nil, false
	}
	switch id := v.(type) {
	case string:
		return id, id != ""
	case bool:
		return nil, false
	}
	if n, err := utils.ConvertToInt(v); err == nil {
		return v, n != 0
	}
	return v, true
}

// IDKey is the canonical form of an identifier, used to compare ids decoded
// from JSON with ids read back from Mongo. Integral numbers share one key
// whatever their Go type; strings and fractional numbers are keyed by type
// too, so "12" never matches 12.
func IDKey(id interface{}) string {
	switch v := id.(type) {
	case string:
		return "s:" + v
	case []byte:
		return "s:" + string(v)
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10)
		}
		return "f:" + strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return IDKey(float64(v))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if f, err := v.Float64(); err == nil {
			return IDKey(f)
		}
		return "s:" + v.String()
	}
	if n, err := utils.ConvertToInt(id); err == nil {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%T:%v", id, id)
}

// Time returns a date field as a time.Time. Raw ISO strings and BSON
// datetimes read back from Mongo are converted; anything else is absent.
func (r Record) Time(field string) (time.Time, bool) {
	v, ok := r[field]
	if !ok || v == nil || v == "" {
		return time.Time{}, false
	}
	t, err := utils.ConvertDateTime(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
