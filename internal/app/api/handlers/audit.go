package handlers

import (
	"net/http"

	"github.com/fitdesk/coachpay/internal/app/service/audit"
	"github.com/fitdesk/coachpay/pkg/response"

	"github.com/gin-gonic/gin"
)

// @Summary      List Audit Entries (Admin)
// @Description  Lists audit entries filtered by target, action and time range, newest first.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body audit.ListRequest true "Filters and pagination"
// @Success      200  {object}  handlers.RespListAuditEntries
// @Router       /api/v1/admin/list_audit_entries [post]
func ApiListAuditEntries(rec *audit.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req audit.ListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := rec.List(c.Request.Context(), &req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminAuditRoutes(r gin.IRouter, rec *audit.Recorder) {
	r.POST("/list_audit_entries", ApiListAuditEntries(rec))
}
