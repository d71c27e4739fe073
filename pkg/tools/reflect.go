package tools

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/modern-go/reflect2"
)

type FnObj struct {
	Fn func(reflect.StructField, reflect.Value) error
}

var durationType = reflect.TypeOf(time.Duration(0))

// DoTagFunc 遍历结构体的所有可导出字段并依次执行fns，v必须为结构体指针
func DoTagFunc(v interface{}, fns []FnObj) error {
	if reflect2.IsNil(v) {
		return nil
	}

	vType := reflect2.TypeOf(v).Type1()
	if vType.Kind() != reflect.Ptr || vType.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("DoTagFunc need a struct pointer, but got %s", vType.String())
	}

	indirect := reflect.Indirect(reflect.ValueOf(v))
	for i := 0; i < indirect.NumField(); i++ {
		fieldStruct := vType.Elem().Field(i)
		if !fieldStruct.IsExported() {
			continue
		}
		for _, f := range fns {
			if f.Fn == nil {
				continue
			}
			if err := f.Fn(fieldStruct, indirect.Field(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetDefaultValueIfNil 字段为零值时设置为default标签的值，嵌套结构体递归处理
func SetDefaultValueIfNil(structField reflect.StructField, vValue reflect.Value) error {
	if !vValue.CanSet() {
		return nil
	}

	defaultValue, hasDefault := structField.Tag.Lookup("default")

	switch vValue.Kind() {
	case reflect.Struct:
		if structField.Type == reflect.TypeOf(time.Time{}) {
			return nil
		}
		for i := 0; i < vValue.NumField(); i++ {
			if err := SetDefaultValueIfNil(vValue.Type().Field(i), vValue.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr:
		elemKind := structField.Type.Elem().Kind()
		if elemKind == reflect.Struct {
			if vValue.IsNil() {
				return nil
			}
			elem := vValue.Elem()
			for i := 0; i < elem.NumField(); i++ {
				if err := SetDefaultValueIfNil(elem.Type().Field(i), elem.Field(i)); err != nil {
					return err
				}
			}
			return nil
		}
		if !hasDefault || !vValue.IsNil() {
			return nil
		}
		ptr := reflect.New(structField.Type.Elem())
		if err := setValue(structField.Name, ptr.Elem(), defaultValue); err != nil {
			return err
		}
		vValue.Set(ptr)
		return nil
	}

	if !hasDefault || !vValue.IsZero() {
		return nil
	}
	return setValue(structField.Name, vValue, defaultValue)
}

func setValue(name string, vValue reflect.Value, value string) error {
	if vValue.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("field %s default value '%s' is not a duration: %w", name, value, err)
		}
		vValue.SetInt(int64(d))
		return nil
	}

	switch vValue.Kind() {
	case reflect.String:
		vValue.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(value, 10, vValue.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s default value '%s' is not an int: %w", name, value, err)
		}
		vValue.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(value, 10, vValue.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s default value '%s' is not an uint: %w", name, value, err)
		}
		vValue.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, vValue.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s default value '%s' is not a float: %w", name, value, err)
		}
		vValue.SetFloat(v)
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("field %s default value '%s' is not a bool: %w", name, value, err)
		}
		vValue.SetBool(v)
	default:
		return fmt.Errorf("field %s kind %s can't set default value", name, vValue.Kind())
	}
	return nil
}
