package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError is a single invalid configuration field.
type FieldError struct {
	Field string
	Err   string
}

// FieldErrors collects every invalid field found by Verify.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

type checker struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	checkerOnce sync.Once
	checkerInst *checker
	checkerErr  error
)

func getChecker() (*checker, error) {
	checkerOnce.Do(func() {
		v := validator.New()

		enLang := en.New()
		uni := ut.New(enLang, enLang)
		trans, found := uni.GetTranslator("en")
		if !found {
			checkerErr = errors.New("cannot find en translation")
			return
		}

		// Report fields by their configuration key rather than the Go name.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("koanf")
			if name == "-" {
				return ""
			}
			return name
		})

		if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
			checkerErr = fmt.Errorf("register translations: %w", err)
			return
		}

		checkerInst = &checker{v: v, trans: trans}
	})
	return checkerInst, checkerErr
}

// Verify validates the configuration. All invalid fields are reported in a
// single FieldErrors value.
func Verify(cfg *ServerConfig) error {
	c, err := getChecker()
	if err != nil {
		return err
	}

	var fields FieldErrors

	if err := c.v.Struct(cfg); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}
		for _, verr := range verrors {
			fields = append(fields, FieldError{
				Field: fieldPath(verr.Namespace()),
				Err:   verr.Translate(c.trans),
			})
		}
	}

	fields = append(fields, verifyServer(&cfg.Server)...)

	if len(fields) > 0 {
		return fields
	}
	return nil
}

func verifyServer(cfg *ServerSection) FieldErrors {
	var fields FieldErrors
	if !cfg.HTTP.Enabled {
		return nil
	}
	if cfg.HTTP.Addr == "" {
		fields = append(fields, FieldError{
			Field: "server.http.addr",
			Err:   "addr is required when server.http.enabled is true",
		})
	} else if cfg.HTTP.Addr == cfg.Redis.Addr {
		fields = append(fields, FieldError{
			Field: "server.http.addr",
			Err:   "addr conflicts with server.redis.addr",
		})
	}
	return fields
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
