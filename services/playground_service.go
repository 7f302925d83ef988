package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"storefront/libs"
)

const slowEndpointKey = "playground_slow_endpoint"

type PlaygroundConfig struct {
	Recipient  string
	Attachment string
	CacheTTL   time.Duration
}

type PlaygroundService struct {
	mailer Mailer
	delay  DelayClient
	cache  Cache
	cfg    PlaygroundConfig
	log    *libs.Logger
}

func NewPlaygroundService(mailer Mailer, delay DelayClient, cache Cache, cfg PlaygroundConfig, log *libs.Logger) *PlaygroundService {
	if cache == nil {
		cache = NoopCache
	}
	if log == nil {
		log = libs.NewNopLogger()
	}
	return &PlaygroundService{mailer: mailer, delay: delay, cache: cache, cfg: cfg, log: log}
}

// Hello sends a greeting email and returns the greeting. A malformed address is
// logged and does not fail the call; other send errors do.
func (s *PlaygroundService) Hello(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Mosh"
	}
	greeting := fmt.Sprintf("Hello %s", name)

	if s.mailer == nil || s.cfg.Recipient == "" {
		s.log.Info("hello email skipped, mailer not configured")
		return greeting, nil
	}

	email := libs.Email{
		To:       []string{s.cfg.Recipient},
		Subject:  "Hello",
		HTMLBody: fmt.Sprintf("<p>%s</p>", html.EscapeString(greeting)),
	}
	if s.cfg.Attachment != "" {
		email.Attachments = []string{s.cfg.Attachment}
	}
	if err := s.mailer.Send(email); err != nil {
		if errors.Is(err, libs.ErrBadHeader) {
			s.log.Warn("hello email not sent", "error", err)
			return greeting, nil
		}
		return "", err
	}
	return greeting, nil
}

// SlowEndpoint proxies a slow upstream call and caches the body under its own key.
func (s *PlaygroundService) SlowEndpoint(ctx context.Context) ([]byte, bool, error) {
	if data, ok := s.cache.Get(ctx, slowEndpointKey); ok {
		return data, true, nil
	}
	body, err := s.delay.Delay(ctx, 2)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, slowEndpointKey, body, s.cfg.CacheTTL)
	return body, false, nil
}
