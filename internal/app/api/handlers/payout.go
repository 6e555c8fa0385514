package handlers

import (
	"net/http"

	"github.com/fitdesk/coachpay/internal/app/jobs"
	"github.com/fitdesk/coachpay/internal/app/service/statement"
	"github.com/fitdesk/coachpay/pkg/response"
	"github.com/fitdesk/coachpay/pkg/types"

	"github.com/gin-gonic/gin"

	mw "github.com/fitdesk/coachpay/internal/app/api/middleware"
)

type RunMonthlyCalculationRequest struct {
	// Period is YYYY-MM; empty means the current month.
	Period string `json:"period"`
}

// @Summary      Run Monthly Calculation (Admin)
// @Description  Computes payout statements for every staff member with activity in the period. Unpaid statements are recomputed; paid ones are reported as conflicts.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body RunMonthlyCalculationRequest true "Target period"
// @Success      200  {object}  handlers.RespRunSummary
// @Router       /api/v1/admin/run_monthly_calculation [post]
func ApiRunMonthlyCalculation(runner *jobs.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RunMonthlyCalculationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		summary, err := runner.RunAggregation(c.Request.Context(), req.Period)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(summary))
	}
}

type ListStatementsRequest struct {
	Period  string                `json:"period"`
	StaffID string                `json:"staff_id"`
	Filters []*types.CommonFilter `json:"filters"`
}

// @Summary      List Payout Statements (Admin)
// @Description  Lists statements for a period, optionally narrowed to one staff member.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListStatementsRequest true "Filters"
// @Success      200  {object}  handlers.RespListStatements
// @Router       /api/v1/admin/list_statements [post]
func ApiListStatements(svc *statement.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListStatementsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		items, err := svc.List(c.Request.Context(), &statement.ListRequest{
			Period:  req.Period,
			StaffID: req.StaffID,
			Filters: req.Filters,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

type MarkStatementPaidRequest struct {
	StaffID string `json:"staff_id"`
	Period  string `json:"period"`
}

// @Summary      Mark Statement Paid (Admin)
// @Description  Freezes a statement; once paid it is immutable and recomputation refuses to touch it.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body MarkStatementPaidRequest true "Statement key"
// @Success      200  {object}  handlers.RespStatement
// @Router       /api/v1/admin/mark_statement_paid [post]
func ApiMarkStatementPaid(svc *statement.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MarkStatementPaidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.StaffID == "" || req.Period == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing staff_id or period"))
			return
		}
		st, err := svc.MarkPaid(c.Request.Context(), mw.ActorFrom(c), req.StaffID, req.Period)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(st))
	}
}

func RegisterAdminPayoutRoutes(r gin.IRouter, svc *statement.Service, runner *jobs.Runner) {
	r.POST("/run_monthly_calculation", ApiRunMonthlyCalculation(runner))
	r.POST("/list_statements", ApiListStatements(svc))
	r.POST("/mark_statement_paid", ApiMarkStatementPaid(svc))
}
