package gcp

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type staticToken struct{}

func (staticToken) Token(context.Context) (*auth.Token, error) {
	return &auth.Token{Value: "t", Type: "Bearer", Expiry: time.Now().Add(time.Hour)}, nil
}

func TestClientOptions(t *testing.T) {
	t.Run("client options only", func(t *testing.T) {
		opts, err := ClientOptions(context.Background(),
			WithClientOptions(option.WithEndpoint("http://localhost"), option.WithoutAuthentication()))
		require.NoError(t, err)
		assert.Len(t, opts, 2)
	})

	t.Run("credentials add an http client", func(t *testing.T) {
		creds := auth.NewCredentials(&auth.CredentialsOptions{TokenProvider: staticToken{}})
		opts, err := ClientOptions(context.Background(),
			WithCredentials(creds),
			WithClientOptions(option.WithEndpoint("http://localhost")))
		require.NoError(t, err)
		assert.Len(t, opts, 2)
	})
}
