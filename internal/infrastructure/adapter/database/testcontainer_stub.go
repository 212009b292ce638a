//go:build !integration

package database

import "testing"

func startPostgresContainer(t *testing.T, _ *Config) {
	t.Helper()
	t.Skip("PPE_TEST_DB_HOST not set; run with -tags integration to use a postgres container")
}
