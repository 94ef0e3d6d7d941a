package initchecker

import (
	"reflect"

	"github.com/pkg/errors"
)

// CheckInit пары "имя, зависимость"; при ошибке паника на старте
func CheckInit(pairs ...any) {
	if err := Check(pairs...); err != nil {
		panic(err.Error())
	}
}

// Check nil внутри интерфейса тоже считается не инициализированным
func Check(pairs ...any) error {
	if len(pairs)%2 != 0 {
		return errors.New("CheckInit: odd number of arguments")
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			return errors.Errorf("CheckInit: argument %d must be a dependency name", i)
		}
		if isNil(pairs[i+1]) {
			return errors.Errorf("%s dependency not initialized", name)
		}
	}
	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
