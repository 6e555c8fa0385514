package handlers

import (
	"net/http"
	"time"

	"github.com/fitdesk/coachpay/internal/app/jobs"
	"github.com/fitdesk/coachpay/internal/app/service/billing"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/response"
	"github.com/fitdesk/coachpay/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	mw "github.com/fitdesk/coachpay/internal/app/api/middleware"
)

// SubscriptionItem is the admin view of a subscription; in_grace is
// evaluated at response time, it is not stored state.
type SubscriptionItem struct {
	ID                    string                   `json:"id"`
	SubscriberID          string                   `json:"subscriber_id"`
	ServiceID             string                   `json:"service_id"`
	StaffID               *string                  `json:"staff_id"`
	Status                types.SubscriptionStatus `json:"status"`
	NextBillingDate       *time.Time               `json:"next_billing_date"`
	PastDueSince          *time.Time               `json:"past_due_since"`
	GracePeriodDays       int                      `json:"grace_period_days"`
	BillingAmountOverride *types.Money             `json:"billing_amount_override"`
	InGrace               bool                     `json:"in_grace"`
	CreatedAt             time.Time                `json:"created_at"`
	UpdatedAt             time.Time                `json:"updated_at"`
}

func toSubscriptionItem(m *models.Subscription) *SubscriptionItem {
	return &SubscriptionItem{
		ID:                    m.ID,
		SubscriberID:          m.SubscriberID,
		ServiceID:             m.ServiceID,
		StaffID:               m.StaffID,
		Status:                m.Status,
		NextBillingDate:       m.NextBillingDate,
		PastDueSince:          m.PastDueSince,
		GracePeriodDays:       m.GracePeriodDays,
		BillingAmountOverride: m.BillingAmountOverride,
		InGrace:               m.InGrace(time.Now()),
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// @Summary      Create Subscription (Admin)
// @Description  Onboards a subscriber onto a service in pending state.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body billing.OnboardRequest true "New subscription"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/create_subscription [post]
func ApiCreateSubscription(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req billing.OnboardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sub, err := svc.Onboard(c.Request.Context(), mw.ActorFrom(c), &req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toSubscriptionItem(sub)))
	}
}

type RecordPaymentRequest struct {
	SubscriptionID string      `json:"subscription_id"`
	Amount         types.Money `json:"amount"`
	Note           string      `json:"note"`
}

// @Summary      Record Payment (Admin)
// @Description  Applies a confirmed payment; the subscription becomes active and the billing cycle advances.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body RecordPaymentRequest true "Payment to record"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/record_payment [post]
func ApiRecordPayment(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.SubscriptionID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing subscription_id"))
			return
		}
		sub, err := svc.RecordPayment(c.Request.Context(), mw.ActorFrom(c), req.SubscriptionID, req.Amount, req.Note)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toSubscriptionItem(sub)))
	}
}

// @Summary      Mark Paid Manually (Admin)
// @Description  Records an out-of-band payment (cash, bank transfer) against a subscription.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body RecordPaymentRequest true "Manual payment"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/mark_paid_manually [post]
func ApiMarkPaidManually(svc *billing.Service) gin.HandlerFunc {
	return ApiRecordPayment(svc)
}

type ExtendGraceRequest struct {
	SubscriptionID string `json:"subscription_id"`
	ExtraDays      int    `json:"extra_days"`
}

// @Summary      Extend Grace Period (Admin)
// @Description  Widens the grace window of a subscription without changing its status.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ExtendGraceRequest true "Grace extension"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/extend_grace_period [post]
func ApiExtendGracePeriod(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExtendGraceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.SubscriptionID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing subscription_id"))
			return
		}
		sub, err := svc.ExtendGrace(c.Request.Context(), mw.ActorFrom(c), req.SubscriptionID, req.ExtraDays)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toSubscriptionItem(sub)))
	}
}

type ToggleExemptRequest struct {
	SubscriberID string `json:"subscriber_id"`
}

type ToggleExemptResponse struct {
	SubscriberID string `json:"subscriber_id"`
	Exempt       bool   `json:"exempt"`
}

// @Summary      Toggle Payment Exemption (Admin)
// @Description  Flips the payment-exempt flag for a subscriber; enabling it recovers decayed subscriptions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ToggleExemptRequest true "Subscriber to toggle"
// @Success      200  {object}  handlers.RespToggleExempt
// @Router       /api/v1/admin/toggle_payment_exempt [post]
func ApiTogglePaymentExempt(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ToggleExemptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		exempt, err := svc.ToggleExemption(c.Request.Context(), mw.ActorFrom(c), req.SubscriberID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ToggleExemptResponse{SubscriberID: req.SubscriberID, Exempt: exempt}))
	}
}

type SendReminderRequest struct {
	SubscriptionID string `json:"subscription_id"`
	Note           string `json:"note"`
}

// @Summary      Send Payment Reminder (Admin)
// @Description  Records a reminder handoff for a subscription; delivery is external.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body SendReminderRequest true "Reminder request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/send_reminder [post]
func ApiSendReminder(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendReminderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.SubscriptionID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing subscription_id"))
			return
		}
		if err := svc.SendReminder(c.Request.Context(), mw.ActorFrom(c), req.SubscriptionID, req.Note); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type ListSubscriptionsRequest struct {
	Status       types.SubscriptionStatus `json:"status"`
	SubscriberID string                   `json:"subscriber_id"`
	Offset       int                      `json:"offset"`
	Limit        int                      `json:"limit"`
}

type ListSubscriptionsResponse struct {
	Items []*SubscriptionItem `json:"items"`
	Total int64               `json:"total"`
}

// @Summary      List Subscriptions (Admin)
// @Description  Lists subscriptions filtered by status and subscriber.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListSubscriptionsRequest true "Filters and pagination"
// @Success      200  {object}  handlers.RespListSubscriptions
// @Router       /api/v1/admin/list_subscriptions [post]
func ApiListSubscriptions(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListSubscriptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		subs, total, err := svc.ListSubscriptions(c.Request.Context(), req.Status, req.SubscriberID, req.Offset, req.Limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		items := lo.Map(subs, func(m *models.Subscription, _ int) *SubscriptionItem { return toSubscriptionItem(m) })
		c.JSON(http.StatusOK, response.OKT(&ListSubscriptionsResponse{Items: items, Total: total}))
	}
}

// @Summary      Run Lifecycle Sweep (Admin)
// @Description  Triggers the time-driven decay sweep on demand; contends on the same run lock as the scheduled job.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespSweepResult
// @Router       /api/v1/admin/run_lifecycle_sweep [post]
func ApiRunLifecycleSweep(runner *jobs.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := runner.RunSweep(c.Request.Context(), mw.ActorFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(result))
	}
}

func RegisterAdminBillingRoutes(r gin.IRouter, svc *billing.Service, runner *jobs.Runner) {
	r.POST("/create_subscription", ApiCreateSubscription(svc))
	r.POST("/record_payment", ApiRecordPayment(svc))
	r.POST("/mark_paid_manually", ApiMarkPaidManually(svc))
	r.POST("/extend_grace_period", ApiExtendGracePeriod(svc))
	r.POST("/toggle_payment_exempt", ApiTogglePaymentExempt(svc))
	r.POST("/send_reminder", ApiSendReminder(svc))
	r.POST("/list_subscriptions", ApiListSubscriptions(svc))
	r.POST("/run_lifecycle_sweep", ApiRunLifecycleSweep(runner))
}
