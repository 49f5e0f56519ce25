package httpserver

import (
	"net/http"

	"exchanges-service/internal/application"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateExchangeParams are the query parameters of POST /exchanges.
type CreateExchangeParams struct {
	// Date selects a historical rate; absent or "latest" means the newest one.
	Date *openapi_types.Date `form:"date,omitempty" json:"date,omitempty"`
}

func bindCreateExchangeParams(r *http.Request) (CreateExchangeParams, *application.Failure) {
	var params CreateExchangeParams
	q := r.URL.Query()
	if q.Get("date") == application.LatestDate {
		return params, nil
	}
	if err := runtime.BindQueryParameter("form", true, false, "date", q, &params.Date); err != nil {
		return params, application.InvalidParameter("date", err)
	}
	return params, nil
}

// RateDate returns the date to ask the RateSource for.
func (p CreateExchangeParams) RateDate() string {
	if p.Date == nil {
		return application.LatestDate
	}
	return p.Date.String()
}
