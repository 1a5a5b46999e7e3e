// Package app wires configuration into the stores, channels and services shared by the
// API server and the alerts CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/alquila-alerts/internal/application/alert"
	"github.com/alquila-alerts/internal/config"
	"github.com/alquila-alerts/internal/infrastructure/dynamo"
	s3infra "github.com/alquila-alerts/internal/infrastructure/s3"
	"github.com/alquila-alerts/internal/infrastructure/smtp"
	"github.com/alquila-alerts/internal/infrastructure/sns"
	"github.com/alquila-alerts/internal/infrastructure/sqlstore"
	"github.com/alquila-alerts/internal/infrastructure/whatsapp"
	"github.com/alquila-alerts/internal/pkg/msgtemplate"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"gorm.io/gorm"
)

// App holds the wired components.
type App struct {
	DB            *gorm.DB
	DynamoClient  *dynamodb.Client
	Contracts     *sqlstore.ContractRepo
	Settings      *sqlstore.SettingsRepo
	Owners        *sqlstore.OwnerRepo
	Notifications *dynamo.NotificationRepo
	Channel       alert.DispatchChannel
	Mailer        smtp.Mailer
	Templates     *msgtemplate.Engine
	Scheduler     *alert.Scheduler
	Runner        *alert.Runner
	cfg           *config.Config
}

// New connects to the relational database and DynamoDB and builds the scheduler.
// Object storage is created on demand by ObjectStore.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := time.LoadLocation(cfg.AlertTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.AlertTimezone, err)
	}

	db, err := sqlstore.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("dynamo client: %w", err)
	}

	channel, err := NewChannel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		DB:            db,
		DynamoClient:  dynamoClient,
		Contracts:     sqlstore.NewContractRepo(db),
		Settings:      sqlstore.NewSettingsRepo(db),
		Owners:        sqlstore.NewOwnerRepo(db),
		Notifications: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications, cfg.DynamoTables.NotificationKeys),
		Channel:       channel,
		Mailer:        smtp.NewMailer(cfg),
		Templates:     msgtemplate.New(),
		cfg:           cfg,
	}

	dispatcher := alert.NewDispatcher(alert.DispatcherDeps{
		Contracts: a.Contracts,
		Store:     a.Notifications,
		Channel:   a.Channel,
		Settings:  a.Settings,
		Mailer:    a.Mailer,
	})
	a.Scheduler = alert.NewScheduler(alert.SchedulerDeps{
		Contracts:  a.Contracts,
		Settings:   a.Settings,
		Store:      a.Notifications,
		Dispatcher: dispatcher,
		Templates:  a.Templates,
		Location:   loc,
	})

	interval := time.Duration(cfg.SchedulerIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	a.Runner = alert.NewRunner(a.Scheduler, interval)
	return a, nil
}

// Bootstrap creates the DynamoDB tables if they are missing.
func (a *App) Bootstrap(ctx context.Context) {
	dynamo.Bootstrap(ctx, a.DynamoClient, a.cfg.DynamoTables)
}

// ObjectStore builds the S3 store used for history exports.
func (a *App) ObjectStore(ctx context.Context) (*s3infra.Store, error) {
	client, err := s3infra.NewClient(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	return s3infra.NewStore(client, a.cfg.S3BucketName), nil
}

// NewChannel selects the dispatch channel named by DISPATCH_CHANNEL.
func NewChannel(ctx context.Context, cfg *config.Config) (alert.DispatchChannel, error) {
	switch cfg.DispatchChannel {
	case "whatsapp":
		return whatsapp.NewClient(whatsapp.Options{
			BaseURL:       cfg.WhatsAppAPIURL,
			Token:         cfg.WhatsAppAPIToken,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
			RatePerSecond: cfg.WhatsAppRatePerSecond,
			Timeout:       time.Duration(cfg.WhatsAppTimeoutSecs) * time.Second,
		}), nil
	case "sms":
		client, err := sns.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		return sns.NewSMSChannel(client, cfg.SNSSenderID), nil
	default:
		return nil, fmt.Errorf("unknown dispatch channel %q", cfg.DispatchChannel)
	}
}
