package main

import (
	"context"
	"sync"

	"github.com/cristianoliveira/casewatch/internal/api"
	"github.com/cristianoliveira/casewatch/internal/config"
	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/errors"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/storage"
)

// authTokenKey is where verify-phone stores the session token.
const authTokenKey = "auth_token"

// openStore opens the configured local store.
var openStore = storage.NewFromConfig

// lazyClient builds the API client on first use, after the root command
// has loaded the configuration.
type lazyClient struct {
	once   sync.Once
	client *api.Client
	err    error
}

var backend = &lazyClient{}

func (b *lazyClient) get() (*api.Client, error) {
	b.once.Do(func() {
		var opts []api.Option
		if config.Get("api_token", "") == "" {
			if token := storedToken(); token != "" {
				opts = append(opts, api.WithToken(token))
			}
		}
		b.client, b.err = api.NewFromConfig(logging.GetGlobal(), opts...)
	})
	return b.client, b.err
}

// storedToken reads the token saved by verify-phone, if any.
func storedToken() string {
	kv, err := openStore()
	if err != nil {
		logging.GetGlobal().Debug("no local store for token lookup", "error", err)
		return ""
	}
	defer func() { _ = kv.Close() }()
	token, _, err := kv.Get(authTokenKey)
	if err != nil {
		logging.GetGlobal().Warn("failed to read stored token", "error", err)
		return ""
	}
	return token
}

func (b *lazyClient) ListAlerts(ctx context.Context, f domain.AlertFilter, page, pageSize int) (domain.Page[domain.Alert], error) {
	c, err := b.get()
	if err != nil {
		return domain.Page[domain.Alert]{}, err
	}
	return c.ListAlerts(ctx, f, page, pageSize)
}

func (b *lazyClient) SearchAlerts(ctx context.Context, f domain.AlertFilter, page, pageSize int) (domain.Page[domain.Alert], error) {
	c, err := b.get()
	if err != nil {
		return domain.Page[domain.Alert]{}, err
	}
	return c.SearchAlerts(ctx, f, page, pageSize)
}

func (b *lazyClient) ListPersons(ctx context.Context, f domain.PersonFilter, page, pageSize int) (domain.Page[domain.Person], error) {
	c, err := b.get()
	if err != nil {
		return domain.Page[domain.Person]{}, err
	}
	return c.ListPersons(ctx, f, page, pageSize)
}

func (b *lazyClient) SearchPersons(ctx context.Context, f domain.PersonFilter, page, pageSize int) (domain.Page[domain.Person], error) {
	c, err := b.get()
	if err != nil {
		return domain.Page[domain.Person]{}, err
	}
	return c.SearchPersons(ctx, f, page, pageSize)
}

func (b *lazyClient) ListDetections(ctx context.Context, f domain.DetectionFilter, page, pageSize int) (domain.Page[domain.Detection], error) {
	c, err := b.get()
	if err != nil {
		return domain.Page[domain.Detection]{}, err
	}
	return c.ListDetections(ctx, f, page, pageSize)
}

func (b *lazyClient) SearchDetections(ctx context.Context, f domain.DetectionFilter, page, pageSize int) (domain.Page[domain.Detection], error) {
	c, err := b.get()
	if err != nil {
		return domain.Page[domain.Detection]{}, err
	}
	return c.SearchDetections(ctx, f, page, pageSize)
}

func (b *lazyClient) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	c, err := b.get()
	if err != nil {
		return nil, err
	}
	return c.ListNotifications(ctx)
}

func (b *lazyClient) MarkNotificationRead(ctx context.Context, id string) error {
	c, err := b.get()
	if err != nil {
		return err
	}
	return c.MarkNotificationRead(ctx, id)
}

func (b *lazyClient) MarkAllNotificationsRead(ctx context.Context) error {
	c, err := b.get()
	if err != nil {
		return err
	}
	return c.MarkAllNotificationsRead(ctx)
}

func (b *lazyClient) SendVerificationCode(ctx context.Context, phone string) (string, error) {
	c, err := b.get()
	if err != nil {
		return "", err
	}
	return c.SendVerificationCode(ctx, phone)
}

func (b *lazyClient) ConfirmVerificationCode(ctx context.Context, verificationID, code string) (string, error) {
	c, err := b.get()
	if err != nil {
		return "", err
	}
	return c.ConfirmVerificationCode(ctx, verificationID, code)
}

// successPolicy logs mutation failures and prints successes. Execute
// prints the returned error once.
func successPolicy() *errors.Policy {
	return errors.NewPolicy(successOnly{errors.NewDefaultCLIHandler()}, logging.GetGlobal())
}

// successOnly forwards everything but errors, which Execute prints.
type successOnly struct {
	errors.ErrorHandler
}

func (successOnly) Error(string) {}
