package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ChargingCurve maps state of charge to charging (or discharging) power in kW.
// It is stored as a JSON array of two rows: the first row holds the state of
// charge, the second the power. The state-of-charge row must be strictly
// increasing.
type ChargingCurve [2][]float64

// ErrInvalidCurve is returned when a curve is empty, ragged or not
// monotonically increasing in its state-of-charge row.
var ErrInvalidCurve = errors.New("invalid charging curve")

// Validate checks the shape of the curve.
func (c ChargingCurve) Validate() error {
	soc, power := c[0], c[1]
	if len(soc) < 2 {
		return fmt.Errorf("%w: need at least two points, got %d", ErrInvalidCurve, len(soc))
	}
	if len(soc) != len(power) {
		return fmt.Errorf("%w: %d soc values but %d power values", ErrInvalidCurve, len(soc), len(power))
	}
	for i := 1; i < len(soc); i++ {
		if soc[i] <= soc[i-1] {
			return fmt.Errorf("%w: soc row not strictly increasing at index %d", ErrInvalidCurve, i)
		}
	}
	return nil
}

// PowerAt returns the power in kW at the given state of charge using linear
// interpolation. The state of charge is clamped to the curve's domain.
func (c ChargingCurve) PowerAt(soc float64) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(c[0], c[1]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCurve, err)
	}
	if soc < c[0][0] {
		soc = c[0][0]
	}
	if soc > c[0][len(c[0])-1] {
		soc = c[0][len(c[0])-1]
	}
	return pl.Predict(soc), nil
}

func (ChargingCurve) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

func (c ChargingCurve) Value() (driver.Value, error) {
	if c[0] == nil && c[1] == nil {
		return nil, nil
	}
	b, err := json.Marshal([2][]float64(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *ChargingCurve) Scan(v any) error {
	if v == nil {
		*c = ChargingCurve{}
		return nil
	}
	var data []byte
	switch t := v.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return fmt.Errorf("charging curve: cannot scan %T", v)
	}
	return json.Unmarshal(data, (*[2][]float64)(c))
}
