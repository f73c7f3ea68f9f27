// Package cleaning turns raw log records into their sanitized, typed form.
//
// A record is cleaned by anonymizing its source address and coercing the
// numeric fields listed in model.NumericFields to integers. Records that
// cannot be coerced are dropped whole; nothing is partially repaired.
package cleaning

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/funolympics/internal/domain/model"
	"github.com/okian/funolympics/pkg/logger"
	"github.com/okian/funolympics/pkg/metrics"
	"github.com/valyala/fastjson"
)

const addressKey = "ip_address"

var (
	parserPool fastjson.ParserPool
	arenaPool  fastjson.ArenaPool
)

// Clean returns the cleaned encoding of raw. Key order and every untouched
// field are preserved, so cleaning a cleaned record is a no-op.
func Clean(raw model.RawRecord) (model.RawRecord, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)
	a := arenaPool.Get()
	defer func() {
		a.Reset()
		arenaPool.Put(a)
	}()

	v, err := p.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	obj, err := v.Object()
	if err != nil {
		return nil, fmt.Errorf("%w: record is not an object", ErrMalformed)
	}

	obj.Set(addressKey, a.NewString(model.AnonymizedAddress))

	for _, key := range model.NumericFields {
		n, err := coerceInt(obj.Get(key))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCoerce, key, err)
		}
		obj.Set(key, a.NewNumberInt(n))
	}

	return v.MarshalTo(nil), nil
}

// coerceInt converts a JSON value to an int the way a lenient int() would:
// numbers truncate toward zero, numeric strings parse, booleans map to 1/0.
func coerceInt(v *fastjson.Value) (int, error) {
	if v == nil {
		return 0, ErrMissingField
	}
	switch v.Type() {
	case fastjson.TypeNumber:
		if n, err := v.Int(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		// float64 cannot hold MaxInt64 exactly; both bounds round to +-2^63.
		if math.IsNaN(f) || f <= math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("number %v out of range", f)
		}
		return int(f), nil
	case fastjson.TypeString:
		s, _ := v.StringBytes()
		return strconv.Atoi(strings.TrimSpace(string(s)))
	case fastjson.TypeTrue:
		return 1, nil
	case fastjson.TypeFalse:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported %s value", v.Type())
	}
}

// Cleaner applies Clean over whole snapshots, dropping and logging the
// records that fail.
type Cleaner struct {
	logger logger.Logger
}

// NewCleaner creates a Cleaner that reports drops to log.
func NewCleaner(log logger.Logger) *Cleaner {
	return &Cleaner{logger: log}
}

// CleanAll cleans records in order. Failed records are skipped; the returned
// slice keeps the relative order of the rest. The drop count is only ever
// reported locally.
func (c *Cleaner) CleanAll(ctx context.Context, records []model.RawRecord) []model.RawRecord {
	start := time.Now()
	out := make([]model.RawRecord, 0, len(records))
	dropped := 0
	for i, raw := range records {
		cleaned, err := Clean(raw)
		if err != nil {
			dropped++
			if c.logger != nil {
				c.logger.Warn(ctx, "dropping log record during cleaning",
					logger.Int("index", i),
					logger.String("record", string(raw)),
					logger.Error(err),
				)
			}
			continue
		}
		out = append(out, cleaned)
	}
	metrics.RecordClean(len(out), dropped, float64(time.Since(start).Microseconds())/1000)
	return out
}
