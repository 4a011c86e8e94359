package router

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

type response struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func mustMarshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// bindRequest decodes a POST body as JSON, or maps query parameters onto the
// request struct by json tag for GET.
func bindRequest(req *http.Request, method string, obj any) error {
	if method == http.MethodPost {
		if req.Body == nil || req.ContentLength == 0 {
			return nil
		}
		return json.NewDecoder(req.Body).Decode(obj)
	}

	values := req.URL.Query()
	elem := reflect.ValueOf(obj).Elem()
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("json")
		if comma := strings.Index(name, ","); comma >= 0 {
			name = name[:comma]
		}
		if name == "" || name == "-" || !values.Has(name) {
			continue
		}

		value := values.Get(name)
		field := elem.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(value)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(n)
		case reflect.Uint, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetUint(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			field.SetBool(b)
		}
	}

	return nil
}
