package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alwaysHealthy() (bool, string) { return true, "" }

func TestGetHealthAllProbesHealthy(t *testing.T) {
	resetHealthCheckerForTest()
	SetVersion("1.0.0")

	RegisterProbe("api", true, alwaysHealthy)
	RegisterProbe("mq", true, alwaysHealthy)

	health := GetHealth()

	assert.Equal(t, "healthy", health.Status)
	assert.Len(t, health.Components, 2)
	assert.Equal(t, "1.0.0", health.Version)
}

func TestGetHealthOneProbeUnhealthy(t *testing.T) {
	resetHealthCheckerForTest()

	RegisterProbe("api", true, alwaysHealthy)
	RegisterProbe("mq", false, func() (bool, string) { return false, "not connected" })

	health := GetHealth()

	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "unhealthy: not connected", health.Components["mq"])
}

func TestGetHealthReflectsLiveProbeState(t *testing.T) {
	resetHealthCheckerForTest()

	connected := false
	RegisterProbe("mq", true, func() (bool, string) {
		if connected {
			return true, "connected"
		}
		return false, "nats connection not established"
	})

	require.Equal(t, "unhealthy", GetHealth().Status, "probe should report the closed-over value at call time")

	connected = true
	require.Equal(t, "healthy", GetHealth().Status, "a second call must re-run the probe rather than cache the first result")
}

func TestGetReadinessOnlyEvaluatesCriticalProbes(t *testing.T) {
	resetHealthCheckerForTest()

	RegisterProbe("mq", true, alwaysHealthy)
	RegisterProbe("registry", true, alwaysHealthy)
	RegisterProbe("api", false, func() (bool, string) { return false, "not actually checked" })

	readiness := GetReadiness()

	assert.Equal(t, "ready", readiness.Status)
	assert.NotContains(t, readiness.Components, "api", "non-critical probes must not affect readiness")
}

func TestGetReadinessVacuouslyReadyWithNoCriticalProbes(t *testing.T) {
	resetHealthCheckerForTest()

	RegisterProbe("api", false, alwaysHealthy)
	// No probe registered as critical — readiness has nothing to fail on.

	readiness := GetReadiness()

	assert.Equal(t, "ready", readiness.Status)
}

func TestGetReadinessCriticalProbeUnhealthy(t *testing.T) {
	resetHealthCheckerForTest()

	RegisterProbe("mq", true, func() (bool, string) { return false, "leader not elected" })
	RegisterProbe("registry", true, alwaysHealthy)

	readiness := GetReadiness()

	assert.Equal(t, "not_ready", readiness.Status)
	assert.NotEmpty(t, readiness.Message)
}

func TestHealthHandler(t *testing.T) {
	resetHealthCheckerForTest()
	SetVersion("test")
	RegisterProbe("test", true, alwaysHealthy)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	HealthHandler()(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var health HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test", health.Version)
}

func TestHealthHandlerUnhealthy(t *testing.T) {
	resetHealthCheckerForTest()
	RegisterProbe("test", true, func() (bool, string) { return false, "broken" })

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	HealthHandler()(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var health HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "unhealthy", health.Status)
}

func TestReadyHandler(t *testing.T) {
	resetHealthCheckerForTest()
	RegisterProbe("mq", true, alwaysHealthy)
	RegisterProbe("registry", true, alwaysHealthy)

	req := httptest.NewRequest("GET", "/ready", nil)
	w := httptest.NewRecorder()

	ReadyHandler()(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var readiness HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&readiness))
	assert.Equal(t, "ready", readiness.Status)
}

func TestReadyHandlerNotReady(t *testing.T) {
	resetHealthCheckerForTest()
	RegisterProbe("mq", true, func() (bool, string) { return false, "nats connection not established" })

	req := httptest.NewRequest("GET", "/ready", nil)
	w := httptest.NewRecorder()

	ReadyHandler()(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var readiness HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&readiness))
	assert.Equal(t, "not_ready", readiness.Status)
}

func TestLivenessHandler(t *testing.T) {
	resetHealthCheckerForTest()

	req := httptest.NewRequest("GET", "/live", nil)
	w := httptest.NewRecorder()

	LivenessHandler()(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "alive", response["status"])
	assert.NotEmpty(t, response["uptime"])
}

func TestRegisterProbeReplacesExistingName(t *testing.T) {
	resetHealthCheckerForTest()

	RegisterProbe("mq", true, func() (bool, string) { return false, "down" })
	RegisterProbe("mq", true, alwaysHealthy)

	readiness := GetReadiness()
	assert.Equal(t, "ready", readiness.Status, "re-registering a probe name must replace, not accumulate")
}
