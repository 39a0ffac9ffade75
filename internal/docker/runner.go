package docker

import (
	"context"
	"fmt"

	"intbench/internal/proc"
)

// ContainerRunner executes commands inside a single long-lived container.
// It satisfies proc.Runner, so builds and benchmark runs work the same
// whether they happen on the host or inside a toolchain image.
type ContainerRunner struct {
	client      *Client
	containerID string
}

// StartContainerRunner starts a container for the given image with the
// workspace mounted and returns a runner that execs into it.
func StartContainerRunner(ctx context.Context, client *Client, imageRef string, workspace string) (*ContainerRunner, error) {
	if err := client.CheckDaemon(ctx); err != nil {
		return nil, err
	}

	exists, err := client.CheckImage(ctx, imageRef)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.PullImage(ctx, imageRef); err != nil {
			return nil, err
		}
	}

	containerID, err := client.RunContainer(ctx, imageRef, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to start benchmark container: %w", err)
	}

	return &ContainerRunner{client: client, containerID: containerID}, nil
}

// ContainerID returns the ID of the running container.
func (r *ContainerRunner) ContainerID() string {
	return r.containerID
}

// Run executes the command inside the container. A relative Dir is resolved
// under the workspace mount.
func (r *ContainerRunner) Run(ctx context.Context, cmd proc.Command) (proc.Output, error) {
	argv := append([]string{cmd.Path}, cmd.Args...)
	return r.client.Exec(ctx, r.containerID, argv, containerPath(cmd.Dir))
}

// Stop stops and removes the container.
func (r *ContainerRunner) Stop(ctx context.Context) error {
	return r.client.StopContainer(ctx, r.containerID)
}
