package config

import (
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Load reads an optional .env file and fills a CommenceConfig from the
// environment, walking cfg: tags with a prefix per nesting level
// (PAYPAL_CLIENT_ID etc).
func Load(envFiles ...string) (*CommenceConfig, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &CommenceConfig{}
	fillStruct(reflect.ValueOf(cfg).Elem(), "")
	return cfg, nil
}

func fillStruct(v reflect.Value, prefix string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("cfg")
		if tag == "" {
			continue
		}
		name := tag
		if prefix != "" {
			name = prefix + "_" + tag
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			fillStruct(fv, name)
			continue
		}

		value, found := os.LookupEnv(name)
		if !found {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		switch fv.Kind() {
		case reflect.String:
			fv.SetString(value)
		case reflect.Bool:
			fv.SetBool(cast.ToBool(strings.TrimSpace(value)))
		case reflect.Int, reflect.Int64:
			fv.SetInt(cast.ToInt64(value))
		}
	}
}
