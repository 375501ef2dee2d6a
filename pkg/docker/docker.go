package docker

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
)

type Docker struct {
	*client.Client
}

func New() (*Docker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &Docker{Client: cli}, nil
}

// Installed reports whether the docker CLI is on the PATH.
func Installed() bool {
	_, err := exec.LookPath("docker")
	return err == nil
}

// CheckDaemon pings the daemon; a failed ping means Docker is not running.
func (d *Docker) CheckDaemon(ctx context.Context) error {
	if _, err := d.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon is not running: %w", err)
	}
	return nil
}

// ServiceContainerState returns the state ("running", "exited", …) of the
// first container labeled as the given compose project/service, or "" if no
// such container exists.
func (d *Docker) ServiceContainerState(ctx context.Context, project, service string) (string, error) {
	f := filters.NewArgs()
	f.Add("label", "com.docker.compose.project="+project)
	f.Add("label", "com.docker.compose.service="+service)
	containers, err := d.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: f,
	})
	if err != nil {
		return "", err
	}
	if len(containers) == 0 {
		return "", nil
	}
	return containers[0].State, nil
}

// RemoveImage deletes the named image; a missing image is not an error.
func (d *Docker) RemoveImage(ctx context.Context, name string) error {
	_, err := d.ImageRemove(ctx, name, image.RemoveOptions{})
	if errdefs.IsNotFound(err) {
		return nil
	}
	return err
}

// Prune removes stopped containers, dangling images, and unused networks.
func (d *Docker) Prune(ctx context.Context) error {
	if _, err := d.ContainersPrune(ctx, filters.Args{}); err != nil {
		return err
	}
	if _, err := d.ImagesPrune(ctx, filters.Args{}); err != nil {
		return err
	}
	_, err := d.NetworksPrune(ctx, filters.Args{})
	return err
}
