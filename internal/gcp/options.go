package gcp

import (
	"context"
	"net/http"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/httptransport"
	"google.golang.org/api/option"

	"github.com/agentstation/catalogsync/internal/auth/adc"
	"github.com/agentstation/catalogsync/internal/transport"
	"github.com/agentstation/catalogsync/pkg/errors"
)

// Option configures a Google Cloud API client.
type Option func(*options)

type options struct {
	credentials   *auth.Credentials
	base          http.RoundTripper
	clientOptions []option.ClientOption
}

// WithBaseTransport sets the round tripper under the authenticated client.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.base = rt
	}
}

// WithCredentials uses the given credentials instead of detecting ADC.
func WithCredentials(creds *auth.Credentials) Option {
	return func(o *options) {
		o.credentials = creds
	}
}

// WithClientOptions appends raw API client options, e.g. an endpoint override.
// When set without credentials, credentials are not detected.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, opts...)
	}
}

// ClientOptions resolves opts into API client options, detecting Application
// Default Credentials when neither credentials nor client options are given.
func ClientOptions(ctx context.Context, opts ...Option) ([]option.ClientOption, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	clientOpts := o.clientOptions
	if o.credentials == nil && len(clientOpts) == 0 {
		creds, err := adc.Detect(ctx)
		if err != nil {
			return nil, err
		}
		o.credentials = creds
	}
	if o.credentials != nil {
		hc, err := httptransport.NewClient(&httptransport.Options{
			Credentials:      o.credentials,
			BaseRoundTripper: transport.New(o.base),
		})
		if err != nil {
			return nil, errors.WrapResource("create", "client", "", err)
		}
		clientOpts = append(clientOpts, option.WithHTTPClient(hc))
	}
	return clientOpts, nil
}
