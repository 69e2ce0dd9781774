package inngest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"pricewatch/config"
	"pricewatch/internal/pkg/render"

	"github.com/inngest/inngestgo"
)

const DefaultServePath = "/api/inngest"

// ErrDisabled is returned by every call on the client built without an app id.
var ErrDisabled = errors.New("inngest disabled")

// Enabled reports whether cfg carries enough to talk to Inngest.
func Enabled(cfg *config.Config) bool {
	return cfg != nil && strings.TrimSpace(cfg.Inngest.AppID) != ""
}

// ServePath is the route the Inngest executor calls back on.
func ServePath(cfg *config.Config) string {
	if cfg != nil {
		if v := strings.TrimSpace(cfg.Inngest.ServePath); v != "" {
			return v
		}
	}
	return DefaultServePath
}

func NewInngestClient(cfg *config.Config) (inngestgo.Client, error) {
	if !Enabled(cfg) {
		return disabledClient{reason: "inngest disabled: set INNGEST_APP_ID to enable"}, nil
	}

	dev := cfg.Inngest.Dev == "1"
	opts := inngestgo.ClientOpts{
		AppID: strings.TrimSpace(cfg.Inngest.AppID),
		Dev:   inngestgo.BoolPtr(dev),
	}
	if signingKey := strings.TrimSpace(cfg.Inngest.SigningKey); signingKey != "" {
		opts.SigningKey = &signingKey
	}
	if eventKey := strings.TrimSpace(cfg.Inngest.EventKey); eventKey != "" {
		opts.EventKey = &eventKey
	}

	c, err := inngestgo.NewClient(opts)
	if err != nil {
		return nil, err
	}

	if serveHost := strings.TrimSpace(cfg.Inngest.ServeHost); serveHost != "" {
		scheme := "https"
		if dev {
			scheme = "http"
		}
		c.SetURL(&url.URL{
			Scheme: scheme,
			Host:   serveHost,
			Path:   ServePath(cfg),
		})
	}

	return c, nil
}

type disabledClient struct {
	reason string
}

func (c disabledClient) AppID() string { return "" }

func (c disabledClient) Send(ctx context.Context, evt any) (string, error) {
	return "", ErrDisabled
}

func (c disabledClient) SendMany(ctx context.Context, evt []any) ([]string, error) {
	return nil, ErrDisabled
}

func (c disabledClient) Options() inngestgo.ClientOpts { return inngestgo.ClientOpts{} }

func (c disabledClient) Serve() http.Handler { return c.ServeWithOpts(inngestgo.ServeOpts{}) }

func (c disabledClient) ServeWithOpts(opts inngestgo.ServeOpts) http.Handler {
	msg := strings.TrimSpace(c.reason)
	if msg == "" {
		msg = ErrDisabled.Error()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.ChiErr(w, r, http.StatusNotImplemented, errors.New(msg))
	})
}

func (c disabledClient) SetOptions(opts inngestgo.ClientOpts) error { return ErrDisabled }
func (c disabledClient) SetURL(u *url.URL)                           {}
