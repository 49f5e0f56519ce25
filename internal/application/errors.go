package application

import "fmt"

// Kind tags the stage a Failure came from. The HTTP boundary switches on it.
type Kind uint8

const (
	KindUnclassified Kind = iota
	KindNotFound
	KindMethodNotAllowed
	KindDecode
	KindRateUnavailable
	KindRateFormat
	KindRateProvider
	KindConversion
	KindStore
	KindStoreUnavailable
)

var kindNames = [...]string{
	KindUnclassified:     "unclassified",
	KindNotFound:         "not_found",
	KindMethodNotAllowed: "method_not_allowed",
	KindDecode:           "decode",
	KindRateUnavailable:  "rate_unavailable",
	KindRateFormat:       "rate_format",
	KindRateProvider:     "rate_provider",
	KindConversion:       "conversion",
	KindStore:            "store",
	KindStoreUnavailable: "store_unavailable",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Code is the stable internal code reported to clients. Each stage owns a band.
type Code int

const (
	CodeNone Code = 0

	CodeBodyUnreadable   Code = 1000
	CodeInvalidUTF8      Code = 1001
	CodeMalformedPayload Code = 1002
	CodeInvalidParameter Code = 1003

	CodeRateUnavailable Code = 1011
	CodeRateFormat      Code = 1012
	CodeRateProvider    Code = 1013

	CodeUnknownCurrency Code = 1021
	CodeInvalidAmount   Code = 1022

	CodeStoreRejected    Code = 1031
	CodeStoreUnavailable Code = 1032
)

// Failure is the single error value every pipeline stage produces. Message is
// safe to show to clients; Err is the underlying cause and is only logged.
type Failure struct {
	Kind    Kind
	Code    Code
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s (%d): %s: %v", f.Kind, f.Code, f.Message, f.Err)
	}
	return fmt.Sprintf("%s (%d): %s", f.Kind, f.Code, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(kind Kind, code Code, msg string, err error) *Failure {
	return &Failure{Kind: kind, Code: code, Message: msg, Err: err}
}

func NotFound(err error) *Failure {
	return fail(KindNotFound, CodeNone, "resource not found", err)
}

func MethodNotAllowed(err error) *Failure {
	return fail(KindMethodNotAllowed, CodeNone, "method not allowed", err)
}

func Unclassified(err error) *Failure {
	return fail(KindUnclassified, CodeNone, "internal server error", err)
}
