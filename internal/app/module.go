package app

import (
	"time"

	"github.com/fitdesk/coachpay/internal/app/api/server"
	"github.com/fitdesk/coachpay/internal/app/jobs"
	"github.com/fitdesk/coachpay/internal/app/service/audit"
	"github.com/fitdesk/coachpay/internal/app/service/billing"
	"github.com/fitdesk/coachpay/internal/app/service/catalog"
	"github.com/fitdesk/coachpay/internal/app/service/exemption"
	"github.com/fitdesk/coachpay/internal/app/service/statement"
	"github.com/fitdesk/coachpay/internal/platform/db"
	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	audit.Module,
	exemption.Module,
	catalog.Module,
	billing.Module,
	statement.Module,
	jobs.Module,
)
