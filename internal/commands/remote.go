package commands

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ishantswami13-crypto/wisewallet/internal/client"
)

const (
	defaultAPIURL = "http://localhost:8080"
	envAPIURL     = "WISEWALLET_API_URL"
	envToken      = "WISEWALLET_TOKEN"
)

// remoteFlags are shared by the commands that talk to a running API.
type remoteFlags struct {
	api   string
	token string
}

func (f *remoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.api, "api", "", "API base URL (env "+envAPIURL+", default "+defaultAPIURL+")")
	cmd.Flags().StringVar(&f.token, "token", "", "bearer token (env "+envToken+")")
}

func (f *remoteFlags) client() (*client.Client, error) {
	api := firstNonEmpty(f.api, os.Getenv(envAPIURL), defaultAPIURL)
	token := firstNonEmpty(f.token, os.Getenv(envToken))
	if token == "" {
		return nil, errors.New("a bearer token is required (--token or " + envToken + ")")
	}
	return client.New(api, token), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
