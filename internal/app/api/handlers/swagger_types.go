package handlers

import (
	"github.com/fitdesk/coachpay/internal/app/service/audit"
	"github.com/fitdesk/coachpay/internal/app/service/billing"
	"github.com/fitdesk/coachpay/internal/app/service/statement"
	models "github.com/fitdesk/coachpay/internal/models"
	"github.com/fitdesk/coachpay/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespSubscription wraps a single subscription in the standard envelope.
type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SubscriptionItem         `json:"data"`
}

// RespListSubscriptions wraps a subscription page in the standard envelope.
type RespListSubscriptions struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    ListSubscriptionsResponse `json:"data"`
}

// RespToggleExempt wraps the exemption toggle outcome in the standard envelope.
type RespToggleExempt struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ToggleExemptResponse     `json:"data"`
}

// RespSweepResult wraps a lifecycle sweep report in the standard envelope.
type RespSweepResult struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    billing.SweepResult      `json:"data"`
}

// RespRunSummary wraps an aggregation run summary in the standard envelope.
type RespRunSummary struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    statement.Summary        `json:"data"`
}

// RespStatement wraps a single payout statement in the standard envelope.
type RespStatement struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.PayoutStatement   `json:"data"`
}

// RespListStatements wraps a statement list in the standard envelope.
type RespListStatements struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    []*models.PayoutStatement `json:"data"`
}

// RespListPrices wraps the active price list in the standard envelope.
type RespListPrices struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []*models.PriceRecord    `json:"data"`
}

// RespListPayoutRules wraps the payout rule list in the standard envelope.
type RespListPayoutRules struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []*models.PayoutRule     `json:"data"`
}

// RespListAuditEntries wraps an audit page in the standard envelope.
type RespListAuditEntries struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    audit.ListResponse       `json:"data"`
}
