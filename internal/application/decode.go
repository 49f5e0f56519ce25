package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"exchanges-service/internal/domain"

	"github.com/go-playground/validator/v10"
)

// exchangeBody is the wire shape of POST /exchanges. AmountFrom stays raw so
// the number literal is parsed straight into a decimal.
type exchangeBody struct {
	CreatedAt    *time.Time      `json:"createdAt" validate:"required"`
	CurrencyFrom string          `json:"currencyFrom" validate:"required"`
	CurrencyTo   string          `json:"currencyTo" validate:"required"`
	AmountFrom   json.RawMessage `json:"amountFrom" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeRequest turns a raw request body into an ExchangeRequest. Currency
// codes are returned as sent; they are resolved later by the pipeline.
func DecodeRequest(body []byte) (domain.ExchangeRequest, *Failure) {
	if !utf8.Valid(body) {
		return domain.ExchangeRequest{}, fail(KindDecode, CodeInvalidUTF8, "request body is not valid UTF-8", nil)
	}

	var in exchangeBody
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&in); err != nil {
		return domain.ExchangeRequest{}, malformed(err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return domain.ExchangeRequest{}, fail(KindDecode, CodeMalformedPayload, "request body must contain a single JSON object", err)
	}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.ExchangeRequest{}, fail(KindDecode, CodeMalformedPayload,
				fmt.Sprintf("field %s is required", verrs[0].Field()), err)
		}
		return domain.ExchangeRequest{}, fail(KindDecode, CodeMalformedPayload, "request body has an unexpected shape", err)
	}

	amount, err := domain.ParseLiteral(string(bytes.TrimSpace(in.AmountFrom)))
	if errors.Is(err, domain.ErrInvalidAmount) {
		return domain.ExchangeRequest{}, fail(KindDecode, CodeMalformedPayload,
			fmt.Sprintf("field amountFrom must have at most %d integer and %d fraction digits", domain.MaxIntegerDigits, domain.MaxFractionDigits), err)
	}
	if err != nil {
		return domain.ExchangeRequest{}, fail(KindDecode, CodeMalformedPayload, "field amountFrom must be a number", err)
	}

	return domain.ExchangeRequest{
		CreatedAt:    in.CreatedAt.UTC(),
		CurrencyFrom: in.CurrencyFrom,
		CurrencyTo:   in.CurrencyTo,
		AmountFrom:   amount,
	}, nil
}

func malformed(err error) *Failure {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var timeErr *time.ParseError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fail(KindDecode, CodeMalformedPayload, fmt.Sprintf("field %s has the wrong type", typeErr.Field), err)
	case errors.As(err, &timeErr):
		return fail(KindDecode, CodeMalformedPayload, "field createdAt must be an RFC 3339 timestamp", err)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return fail(KindDecode, CodeMalformedPayload, "request body is not valid JSON", err)
	default:
		return fail(KindDecode, CodeMalformedPayload, "request body has an unexpected shape", err)
	}
}

// BodyUnreadable reports a request body that could not be read in full.
func BodyUnreadable(err error) *Failure {
	return fail(KindDecode, CodeBodyUnreadable, "request body could not be read", err)
}

// InvalidParameter reports a query or path parameter that failed to bind.
func InvalidParameter(name string, err error) *Failure {
	return fail(KindDecode, CodeInvalidParameter, fmt.Sprintf("parameter %s is invalid", name), err)
}
