package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zqn-cloud/jarvis/internal/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		Mode:          "dev",
		Port:          profile.DefaultPort,
		Version:       "test",
		Timezone:      profile.DefaultTimezone,
		APIBase:       profile.DefaultAPIBase,
		OpenAIBaseURL: profile.DefaultOpenAIBaseURL,
		OpenAIModel:   profile.DefaultOpenAIModel,
		OpenAIAPIKey:  "sk-test",
	}
}

func TestNewServer(t *testing.T) {
	p := testProfile()
	require.NoError(t, p.Validate())

	s, err := NewServer(context.Background(), p)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.True(t, s.echoServer.Debug)
}

func TestNewServer_DebugOnlyInDev(t *testing.T) {
	p := testProfile()
	p.Mode = "prod"

	s, err := NewServer(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, s.echoServer.Debug)
}

func TestNewServer_RequiresLLMKey(t *testing.T) {
	p := testProfile()
	p.OpenAIAPIKey = ""

	_, err := NewServer(context.Background(), p)
	assert.Error(t, err)
}
