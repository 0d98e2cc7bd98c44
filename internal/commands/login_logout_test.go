package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoginCommandNoOAuthClient(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendGoogleTasks}

	code := (&commands.LoginCmd{}).Run(context.Background(), cfg, nil, &outBuf, &errBuf)

	assert.Equal(t, exitcode.AuthError, code)
	assert.Empty(t, outBuf.String())
	assert.Contains(t, errBuf.String(), "oauth_client.json not found")
}

func TestLoginCommandUnusableToken(t *testing.T) {
	tests := map[string]struct {
		token string
	}{
		"A token without refresh token should trigger a new login.": {
			token: `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`,
		},
		"A corrupt token should trigger a new login.": {
			token: `{not json`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, config.OAuthClientFile, testOAuthClient)
			writeFile(t, dir, config.TokenFile, test.token)

			// A cancelled context stops the flow while waiting for the callback.
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			var outBuf, errBuf bytes.Buffer
			cfg := &config.Config{Dir: dir, Backend: config.BackendGoogleTasks}
			code := (&commands.LoginCmd{}).Run(ctx, cfg, nil, &outBuf, &errBuf)

			assert.Equal(t, exitcode.AuthError, code)
			assert.NotEqual(t, "already logged in\n", outBuf.String())
			assert.Contains(t, errBuf.String(), "Open this URL in your browser:")
		})
	}
}

func TestLoginCommandRESTBackendNote(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendREST}

	_ = (&commands.LoginCmd{}).Run(context.Background(), cfg, nil, &outBuf, &errBuf)

	assert.Contains(t, errBuf.String(), "the rest backend does not use credentials")
}

func TestLogoutCommand(t *testing.T) {
	tests := map[string]struct {
		withToken bool
		quiet     bool
		expOut    string
	}{
		"Logging out with a token should remove it.": {
			withToken: true,
			expOut:    "ok\n",
		},
		"Logging out without a token should say so.": {
			expOut: "not logged in\n",
		},
		"Quiet logout should print nothing.": {
			withToken: true,
			quiet:     true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			oauthPath := writeFile(t, dir, config.OAuthClientFile, testOAuthClient)
			tokenPath := filepath.Join(dir, config.TokenFile)
			if test.withToken {
				writeFile(t, dir, config.TokenFile, `{"access_token":"test","refresh_token":"test"}`)
			}

			var outBuf, errBuf bytes.Buffer
			cfg := &config.Config{Dir: dir, Quiet: test.quiet}
			code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, &outBuf, &errBuf)

			assert.Equal(t, exitcode.Success, code)
			assert.Equal(t, test.expOut, outBuf.String())
			assert.Empty(t, errBuf.String())
			assert.NoFileExists(t, tokenPath)
			assert.FileExists(t, oauthPath)
		})
	}
}
