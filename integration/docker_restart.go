//go:build integration
// +build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

// restartCatalogContainer bounces the catalog service; products must come
// back from the mounted data file.
func restartCatalogContainer(t *testing.T, ctx context.Context) {
	t.Helper()

	cmd := exec.CommandContext(ctx, "docker", "compose", "restart", getenv("E2E_CATALOG_SERVICE", "catalog"))
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose restart catalog failed: %v\n%s", err, string(out))
	}
}
