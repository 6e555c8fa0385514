package handlers

import (
	"errors"
	"net/http"

	"github.com/fitdesk/coachpay/internal/app/jobs"
	"github.com/fitdesk/coachpay/internal/app/service/billing"
	"github.com/fitdesk/coachpay/internal/app/service/catalog"
	"github.com/fitdesk/coachpay/internal/app/service/payout"
	"github.com/fitdesk/coachpay/internal/app/service/statement"
	"github.com/fitdesk/coachpay/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondErr maps service sentinel errors onto envelope codes. The HTTP
// status stays 200; clients branch on the envelope code.
func respondErr(c *gin.Context, err error) {
	code := response.APIResponseCodeError
	switch {
	case errors.Is(err, billing.ErrInvalidInput),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, payout.ErrInvalidInput),
		errors.Is(err, statement.ErrInvalidPeriod):
		code = response.APIResponseCodeBadRequest
	case errors.Is(err, billing.ErrNotFound),
		errors.Is(err, catalog.ErrUnknownItem),
		errors.Is(err, statement.ErrStatementNotFound):
		code = response.APIResponseCodeNotFound
	case errors.Is(err, billing.ErrConcurrencyConflict),
		errors.Is(err, statement.ErrStatementPaid),
		errors.Is(err, jobs.ErrRunInProgress):
		code = response.APIResponseCodeConflict
	}
	c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
}
