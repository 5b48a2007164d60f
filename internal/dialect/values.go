package dialect

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hlop3z/oraddl/internal/alerr"
)

// FormatValue renders a seed value as an Oracle literal. storeType is the
// column's type when known; without it strings are assumed to be national
// character data and get the N prefix.
func FormatValue(v any, storeType string, known bool) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		if known && !isNationalType(storeType) {
			return Literal(val), nil
		}
		return UnicodeLiteral(val), nil
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(val), nil
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", val), nil
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), nil
	case float32:
		return formatFloat(float64(val))
	case float64:
		return formatFloat(val)
	case time.Time:
		return "TIMESTAMP '" + val.UTC().Format("2006-01-02 15:04:05.000000") + "'", nil
	case []byte:
		return "HEXTORAW('" + strings.ToUpper(hex.EncodeToString(val)) + "')", nil
	}
	return "", alerr.New(alerr.ErrOperationInvalid, "unsupported seed value type").
		With("type", fmt.Sprintf("%T", v))
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", alerr.New(alerr.ErrOperationInvalid, "seed value must be a finite number").
			With("value", f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// isNationalType reports whether an Oracle store type holds national
// character data (NCHAR, NVARCHAR2, NCLOB).
func isNationalType(storeType string) bool {
	upper := NormalizeName(strings.TrimSpace(storeType))
	return strings.HasPrefix(upper, "NCHAR") ||
		strings.HasPrefix(upper, "NVARCHAR") ||
		strings.HasPrefix(upper, "NCLOB")
}
