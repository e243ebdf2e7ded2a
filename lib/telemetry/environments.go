package telemetry

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"udemy-coupons/lib/configutil"
)

var (
	setupTestEnvironments     = map[string]bool{}
	setupTestEnvironmentsLock sync.Mutex
)

// sets up telemetry in a testing environment, ensuring that it isn't
// set up more than once. when no telemetry.json5 can be found the
// global noop providers are left in place.
func SetupForTesting(t testing.TB, serviceName string) func() {
	setupTestEnvironmentsLock.Lock()
	defer setupTestEnvironmentsLock.Unlock()

	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	ctx := context.Background()
	tel, err := SetupFromEnv(ctx, serviceName)
	if errors.Is(err, os.ErrNotExist) {
		return func() {}
	}
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(ctx)
		if err != nil {
			t.Fatal(err)
		}
	}
}

// searches up the filesystem from the cwd to find a file
// called telemetry.json5, once found it will then use it
// as a config to setup telemetry
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	config, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, config)
}
