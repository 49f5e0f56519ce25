package httpserver

import (
	"net/http"

	"exchanges-service/internal/application"
	"exchanges-service/internal/infrastructure/logx"
	"exchanges-service/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

type errorBody struct {
	Code         int    `json:"code"`
	Message      string `json:"message"`
	InternalCode *int   `json:"internalCode,omitempty"`
}

type classified struct {
	status   int
	body     errorBody
	logCause bool
}

func generic(status int, logCause bool) classified {
	return classified{
		status:   status,
		body:     errorBody{Code: status, Message: http.StatusText(status)},
		logCause: logCause,
	}
}

// classify maps a Failure to what the client sees. Only 400-class pipeline
// failures carry their curated message and internal code.
func classify(f *application.Failure) classified {
	switch f.Kind {
	case application.KindNotFound:
		return generic(http.StatusNotFound, false)
	case application.KindDecode,
		application.KindRateUnavailable,
		application.KindRateFormat,
		application.KindConversion,
		application.KindStore:
		code := int(f.Code)
		return classified{
			status: http.StatusBadRequest,
			body:   errorBody{Code: http.StatusBadRequest, Message: f.Message, InternalCode: &code},
		}
	case application.KindMethodNotAllowed:
		return generic(http.StatusMethodNotAllowed, false)
	case application.KindRateProvider, application.KindStoreUnavailable:
		return generic(http.StatusServiceUnavailable, true)
	default: // KindUnclassified
		return generic(http.StatusInternalServerError, true)
	}
}

// writeFailure is the only place an error response is written.
func writeFailure(w http.ResponseWriter, r *http.Request, f *application.Failure) {
	if f == nil {
		f = application.Unclassified(nil)
	}
	c := classify(f)
	metrics.RecordFailure(f.Kind.String(), c.status)

	log := logx.WithFields(r.Context()).With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("kind", f.Kind.String()),
		zap.Int("status", c.status),
	)
	if c.logCause {
		log.Error("request failed", zap.Int("internal_code", int(f.Code)), zap.Error(f))
	} else {
		log.Info("request rejected", zap.Int("internal_code", int(f.Code)), zap.Error(f))
	}
	writeJSON(w, c.status, c.body)
}
