package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSystemHandler_Health(t *testing.T) {
	env := newTestEnv(t)
	env.system.AddCheck("database", HealthCheckFunc(func(ctx context.Context) error {
		sqlDB, err := env.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}))

	rec := env.do(t, http.MethodGet, "/health", nil, nil)
	testutil.RequireStatus(t, rec, http.StatusOK)
	resp := testutil.DecodeEnvelope[HealthResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", resp.Data.Status)
	assert.Equal(t, "healthy", resp.Data.Checks["database"])

	env.system.AddCheck("redis", HealthCheckFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	rec = env.do(t, http.MethodGet, "/health", nil, nil)
	testutil.RequireStatus(t, rec, http.StatusServiceUnavailable)
	resp = testutil.DecodeEnvelope[HealthResponse](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "unhealthy", resp.Data.Status)
	assert.Equal(t, "healthy", resp.Data.Checks["database"])
	assert.Equal(t, "unhealthy: connection refused", resp.Data.Checks["redis"])
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/system/info", nil, nil)
	testutil.RequireStatus(t, rec, http.StatusOK)
	info := testutil.DecodeEnvelope[SystemInfoResponse](t, rec).Data
	assert.Equal(t, "storefront-test", info.Name)
	assert.Equal(t, "test", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
