package catalog

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// RejectedRecord describes one array element dropped during Decode.
type RejectedRecord struct {
	Index int
	Err   error
}

// Report summarises what Decode kept and dropped.
type Report struct {
	Accepted int
	Rejected []RejectedRecord
}

// Decode parses a JSON array of products. A payload that is not a JSON array
// fails with ErrMalformedPayload; individual elements that do not decode or
// validate are dropped and listed in the report.
func Decode(data []byte) (Catalog, Report, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Report{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var report Report
	out := make(Catalog, 0, len(raw))
	for i, elem := range raw {
		var p Product
		if err := json.Unmarshal(elem, &p); err != nil {
			report.Rejected = append(report.Rejected, RejectedRecord{Index: i, Err: err})
			continue
		}
		p.Normalize()
		if err := p.Validate(); err != nil {
			report.Rejected = append(report.Rejected, RejectedRecord{Index: i, Err: err})
			continue
		}
		out = append(out, p)
	}
	report.Accepted = len(out)
	return out, report, nil
}

// Encode serialises the catalog as a JSON array. A nil catalog encodes as [].
func Encode(c Catalog) ([]byte, error) {
	if c == nil {
		c = Catalog{}
	}
	return json.Marshal(c)
}
