// Package common provides shared test infrastructure
package common

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	surrealImage     = "surrealdb/surrealdb:v3.0.0"
	surrealPort      = "8000/tcp"
	surrealStartWait = 60 * time.Second
)

var (
	surrealOnce      sync.Once
	surrealContainer *SurrealDBContainer
	surrealError     error
)

// SurrealDBContainer wraps a testcontainers SurrealDB instance.
type SurrealDBContainer struct {
	container testcontainers.Container
	address   string
}

// StartSurrealDB starts a shared SurrealDB container for the test run.
// Uses sync.Once so only one container is created per process.
func StartSurrealDB(t *testing.T) *SurrealDBContainer {
	t.Helper()

	surrealOnce.Do(func() {
		surrealContainer, surrealError = startContainer(context.Background())
	})
	if surrealError != nil {
		t.Fatalf("SurrealDB container failed: %v", surrealError)
	}
	return surrealContainer
}

func startContainer(ctx context.Context) (*SurrealDBContainer, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        surrealImage,
			ExposedPorts: []string{surrealPort},
			Cmd:          []string{"start", "--user", "root", "--pass", "root"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(surrealPort),
				wait.ForLog("Started web server"),
			).WithDeadline(surrealStartWait),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start SurrealDB container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("get SurrealDB host: %w", err)
	}
	mappedPort, err := container.MappedPort(ctx, surrealPort)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("get SurrealDB port: %w", err)
	}

	return &SurrealDBContainer{
		container: container,
		address:   fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
	}, nil
}

// Address returns the WebSocket RPC address for SurrealDB.
func (c *SurrealDBContainer) Address() string {
	return c.address
}

// Cleanup terminates the container. Call from TestMain if needed.
func (c *SurrealDBContainer) Cleanup() {
	if c != nil && c.container != nil {
		c.container.Terminate(context.Background())
	}
}
