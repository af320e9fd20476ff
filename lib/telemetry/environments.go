package telemetry

import (
	"context"
	"os"
	"testing"

	"gocaching/lib/configutil"
)

var setupTestEnvironments = map[string]bool{}

// SetupForTesting initializes slog and, when a telemetry.json5 is
// present, the otel providers for a test binary. Safe to call from
// multiple tests of the same package.
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)

	err := SetupFromEnv(context.Background(), serviceName)
	if os.IsNotExist(err) {
		// no collector configured, logs only
		return func() {}
	}
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}

// SetupFromEnv searches the working directory and its parents for a
// telemetry.json5 and uses it to configure the otel providers.
func SetupFromEnv(ctx context.Context, serviceName string) error {
	cfg, err := configutil.ReadRecursively[config]("telemetry.json5")
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, cfg)
}
