package node

import (
	"strconv"

	"github.com/jsondb-go/jsondb/internal/value"
)

// The cross-type conversion table from spec §4.B: identical source/target
// types pass through unchanged; string<->number convert via parse/format;
// numeric widening/narrowing truncates; bool<->integer use 0/1; float->bool
// is 0.0->false, else true. Any conversion this table doesn't define yields
// the target type's zero value (spec §7 "Cast failure": never throws).

// CastString converts a scalar to its string representation.
func CastString(s value.Scalar) string {
	if s.IsNull() {
		return ""
	}
	switch s.Tag() {
	case value.TagString:
		return s.String()
	case value.TagBool:
		if s.Bool() {
			return "true"
		}
		return "false"
	case value.TagInt32:
		return strconv.FormatInt(int64(s.Int32()), 10)
	case value.TagInt64:
		return strconv.FormatInt(s.Int64(), 10)
	case value.TagFloat64:
		return strconv.FormatFloat(s.Float64(), 'g', -1, 64)
	default:
		return ""
	}
}

// CastInt64 converts a scalar to int64.
func CastInt64(s value.Scalar) int64 {
	if s.IsNull() {
		return 0
	}
	switch s.Tag() {
	case value.TagInt64:
		return s.Int64()
	case value.TagInt32:
		return int64(s.Int32())
	case value.TagFloat64:
		return int64(s.Float64())
	case value.TagBool:
		if s.Bool() {
			return 1
		}
		return 0
	case value.TagString:
		n, err := strconv.ParseInt(s.String(), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// CastInt32 converts a scalar to int32, truncating a wider source.
func CastInt32(s value.Scalar) int32 {
	return int32(CastInt64(s))
}

// CastFloat64 converts a scalar to float64.
func CastFloat64(s value.Scalar) float64 {
	if s.IsNull() {
		return 0
	}
	switch s.Tag() {
	case value.TagFloat64:
		return s.Float64()
	case value.TagInt32:
		return float64(s.Int32())
	case value.TagInt64:
		return float64(s.Int64())
	case value.TagBool:
		if s.Bool() {
			return 1
		}
		return 0
	case value.TagString:
		f, err := strconv.ParseFloat(s.String(), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// CastBool converts a scalar to bool: integers use 0/1, floats are
// 0.0->false else true, strings parse "true"/"1" as true.
func CastBool(s value.Scalar) bool {
	if s.IsNull() {
		return false
	}
	switch s.Tag() {
	case value.TagBool:
		return s.Bool()
	case value.TagInt32:
		return s.Int32() != 0
	case value.TagInt64:
		return s.Int64() != 0
	case value.TagFloat64:
		return s.Float64() != 0.0
	case value.TagString:
		return s.String() == "true" || s.String() == "1"
	default:
		return false
	}
}
