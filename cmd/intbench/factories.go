package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"intbench/internal/docker"
	"intbench/internal/history"
	"intbench/internal/notify"
	"intbench/internal/proc"
	"intbench/internal/telemetry"

	"github.com/spf13/viper"
)

// timeNow is stubbed in tests that need deterministic report names.
var timeNow = time.Now

// newDockerClient is a factory for the docker client. It's a variable so it
// can be replaced in tests.
var newDockerClient = func() (*docker.Client, error) {
	return docker.NewClient()
}

// newRunner builds the command runner for a benchmark run. With an image set
// it starts a toolchain container with the current directory mounted as the
// workspace; the returned cleanup stops the container. Host runs get a no-op
// cleanup.
var newRunner = func(ctx context.Context, image string) (proc.Runner, func(), error) {
	if image == "" {
		return proc.NewExecRunner(), func() {}, nil
	}

	client, err := newDockerClient()
	if err != nil {
		return nil, nil, err
	}

	workspace, err := os.Getwd()
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	runner, err := docker.StartContainerRunner(ctx, client, image, workspace)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := runner.Stop(context.Background()); err != nil {
			telemetry.LogError("Failed to stop benchmark container", err)
		}
		client.Close()
	}
	return runner, cleanup, nil
}

// newHistoryStore opens the configured run history store.
var newHistoryStore = func() (history.Store, error) {
	return history.NewStore(history.StoreConfig{
		Type:             viper.GetString("history.type"),
		ConnectionString: viper.GetString("history.dsn"),
	})
}

// newNotifier builds the notification manager from configuration.
var newNotifier = func() *notify.Manager {
	return notify.NewManager(telemetry.LogInfof)
}
