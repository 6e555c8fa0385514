package handlers

import (
	"net/http"

	"github.com/fitdesk/coachpay/internal/app/service/catalog"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/response"
	"github.com/fitdesk/coachpay/pkg/types"

	"github.com/gin-gonic/gin"

	mw "github.com/fitdesk/coachpay/internal/app/api/middleware"
)

type UpsertCatalogEntryRequest struct {
	ID          string                `json:"id"`
	DisplayName string                `json:"display_name"`
	Category    types.ServiceCategory `json:"category"`
	Active      *bool                 `json:"active"`
}

// @Summary      Upsert Catalog Entry (Admin)
// @Description  Creates or updates a sellable service or add-on.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UpsertCatalogEntryRequest true "Catalog entry"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/upsert_catalog_entry [post]
func ApiUpsertCatalogEntry(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpsertCatalogEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		entry := &models.CatalogEntry{
			ID:          req.ID,
			DisplayName: req.DisplayName,
			Category:    req.Category,
			Active:      active,
		}
		if err := svc.UpsertEntry(c.Request.Context(), mw.ActorFrom(c), entry); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type UpsertPriceRequest struct {
	ItemID string      `json:"item_id"`
	Amount types.Money `json:"amount"`
}

// @Summary      Upsert Price (Admin)
// @Description  Replaces the active price for an item. The old record is superseded, not overwritten.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UpsertPriceRequest true "New price in minor currency units"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/upsert_price [post]
func ApiUpsertPrice(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpsertPriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err := svc.UpsertPrice(c.Request.Context(), mw.ActorFrom(c), req.ItemID, req.Amount); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      List Prices (Admin)
// @Description  Lists the active price of every catalog item.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespListPrices
// @Router       /api/v1/admin/list_prices [post]
func ApiListPrices(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		prices, err := svc.ListPrices(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(prices))
	}
}

type UpsertPayoutRuleRequest struct {
	ItemID           string                `json:"item_id"`
	Kind             types.RuleKind        `json:"kind"`
	Value            int64                 `json:"value"`
	PlatformFeeKind  types.RuleKind        `json:"platform_fee_kind"`
	PlatformFeeValue int64                 `json:"platform_fee_value"`
	Recipient        types.PayoutRecipient `json:"recipient"`
}

// @Summary      Upsert Payout Rule (Admin)
// @Description  Creates or replaces the payout rule for an item after shape validation.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UpsertPayoutRuleRequest true "Payout rule"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/upsert_payout_rule [post]
func ApiUpsertPayoutRule(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpsertPayoutRuleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		rule := &models.PayoutRule{
			ItemID:           req.ItemID,
			Kind:             req.Kind,
			Value:            req.Value,
			PlatformFeeKind:  req.PlatformFeeKind,
			PlatformFeeValue: req.PlatformFeeValue,
			Recipient:        req.Recipient,
		}
		if err := svc.UpsertRule(c.Request.Context(), mw.ActorFrom(c), rule); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      List Payout Rules (Admin)
// @Description  Lists every configured payout rule.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespListPayoutRules
// @Router       /api/v1/admin/list_payout_rules [post]
func ApiListPayoutRules(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rules, err := svc.ListRules(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rules))
	}
}

func RegisterAdminCatalogRoutes(r gin.IRouter, svc *catalog.Service) {
	r.POST("/upsert_catalog_entry", ApiUpsertCatalogEntry(svc))
	r.POST("/upsert_price", ApiUpsertPrice(svc))
	r.POST("/list_prices", ApiListPrices(svc))
	r.POST("/upsert_payout_rule", ApiUpsertPayoutRule(svc))
	r.POST("/list_payout_rules", ApiListPayoutRules(svc))
}
