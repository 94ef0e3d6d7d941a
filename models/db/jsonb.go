package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

func jsonValue(v any) (driver.Value, error) {
	valueString, err := json.Marshal(v)
	return string(valueString), err
}

func jsonScan(value any, out any) error {
	switch data := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(data, out)
	case string:
		return json.Unmarshal([]byte(data), out)
	}
	return errors.Errorf("неподдерживаемый тип jsonb: %T", value)
}
