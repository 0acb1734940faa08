package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Payer captures the (simulated) identity attached to a completed
// transaction. It is persisted as JSONB on the transactions table.
type Payer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Channel string `json:"channel"`
}

// Value marshals the payer into JSON for Postgres.
func (p Payer) Value() (driver.Value, error) {
	buf, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the payer.
func (p *Payer) Scan(value interface{}) error {
	if value == nil {
		*p = Payer{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("payer: unsupported scan type %T", value)
	}

	var result Payer
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*p = result
	return nil
}
