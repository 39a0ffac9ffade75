package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"
	specs "github.com/opencontainers/image-spec/specs-go/v1"

	"intbench/internal/proc"
)

// workspaceMount is where the host workspace appears inside a container.
const workspaceMount = "/workspace"

// APIClient defines the subset of Docker API methods we use.
// This allows for mocking in tests.
type APIClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerExecCreate(ctx context.Context, container string, config container.ExecOptions) (types.IDResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, config container.ExecStartOptions) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	Close() error
}

// Client wraps the official Docker client with the operations hermetic
// benchmark runs need: keeping a toolchain container alive with the workspace
// mounted and executing build and benchmark commands inside it.
type Client struct {
	api APIClient
}

// NewClient creates a client from the environment (DOCKER_HOST etc.).
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Client{api: cli}, nil
}

// Close closes the underlying docker client connection.
func (c *Client) Close() error {
	return c.api.Close()
}

// CheckDaemon verifies that the Docker daemon is running and reachable.
func (c *Client) CheckDaemon(ctx context.Context) error {
	if _, err := c.api.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon is not reachable: %w", err)
	}
	return nil
}

// CheckImage reports whether the image exists locally. A reference without a
// tag is treated as :latest; short and full image IDs also match.
func (c *Client) CheckImage(ctx context.Context, imageRef string) (bool, error) {
	images, err := c.api.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to list images: %w", err)
	}

	normalizedRef := imageRef
	if !strings.Contains(imageRef, ":") {
		normalizedRef = imageRef + ":latest"
	}

	refHex := strings.TrimPrefix(imageRef, "sha256:")
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageRef || tag == normalizedRef {
				return true, nil
			}
		}
		// Image IDs match on the hex digest, full or truncated to at least
		// the 12 characters docker prints.
		hexID := strings.TrimPrefix(img.ID, "sha256:")
		if len(refHex) >= 12 && strings.HasPrefix(hexID, refHex) {
			return true, nil
		}
	}

	return false, nil
}

// PullImage pulls an image, surfacing registry errors embedded in the
// progress stream.
func (c *Client) PullImage(ctx context.Context, imageRef string) error {
	reader, err := c.api.ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageRef, err)
	}
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	for {
		var msg jsonmessage.JSONMessage
		if err := decoder.Decode(&msg); err != nil {
			break
		}
		if msg.Error != nil {
			return fmt.Errorf("pull failed: %s", msg.Error.Message)
		}
	}

	return nil
}

// RunContainer starts a long-lived container with the workspace mounted at
// /workspace and returns its ID. The image is pulled best effort first.
func (c *Client) RunContainer(ctx context.Context, imageRef string, workspace string) (string, error) {
	reader, err := c.api.ImagePull(ctx, imageRef, image.PullOptions{})
	if err == nil {
		io.Copy(io.Discard, reader)
		reader.Close()
	}

	resp, err := c.api.ContainerCreate(ctx,
		&container.Config{
			Image:      imageRef,
			Tty:        true,
			OpenStdin:  true,
			WorkingDir: workspaceMount,
			Cmd:        []string{"/bin/sh"},
		},
		&container.HostConfig{
			Binds: []string{
				fmt.Sprintf("%s:%s", workspace, workspaceMount),
			},
		}, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := c.api.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	return resp.ID, nil
}

// Exec runs a command inside the container with stdout and stderr captured
// separately. A non-zero exit code is returned as a *proc.ProcessError, so
// container executions fail the same way host executions do.
func (c *Client) Exec(ctx context.Context, containerID string, cmd []string, workdir string) (proc.Output, error) {
	execConfig := container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
		WorkingDir:   workdir,
	}

	respID, err := c.api.ContainerExecCreate(ctx, containerID, execConfig)
	if err != nil {
		return proc.Output{}, fmt.Errorf("failed to create exec: %w", err)
	}

	resp, err := c.api.ContainerExecAttach(ctx, respID.ID, container.ExecStartOptions{})
	if err != nil {
		return proc.Output{}, fmt.Errorf("failed to attach exec: %w", err)
	}
	defer resp.Close()

	// Exec was created without a TTY, so the stream is multiplexed.
	var outBuf, errBuf bytes.Buffer
	if _, err := stdcopy.StdCopy(&outBuf, &errBuf, resp.Reader); err != nil {
		return proc.Output{}, fmt.Errorf("failed to copy exec output: %w", err)
	}

	out := proc.Output{Stdout: outBuf.String(), Stderr: errBuf.String()}

	inspect, err := c.api.ContainerExecInspect(ctx, respID.ID)
	if err != nil {
		return out, fmt.Errorf("failed to inspect exec: %w", err)
	}
	if inspect.ExitCode != 0 {
		return out, &proc.ProcessError{
			Cmd:      strings.Join(cmd, " "),
			ExitCode: inspect.ExitCode,
			Stderr:   out.Stderr,
		}
	}

	return out, nil
}

// StopContainer stops and removes the container.
func (c *Client) StopContainer(ctx context.Context, containerID string) error {
	c.api.ContainerStop(ctx, containerID, container.StopOptions{})
	return c.api.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
}

// containerPath maps a host-relative directory onto the workspace mount.
func containerPath(dir string) string {
	if dir == "" {
		return workspaceMount
	}
	if path.IsAbs(dir) {
		return dir
	}
	return path.Join(workspaceMount, dir)
}
