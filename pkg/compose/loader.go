package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/compose-spec/compose-go/v2/cli"
	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/propgen/opsctl/pkg/term"
	"github.com/sirupsen/logrus"
)

type Loader struct {
	// ComposeFilePath overrides the default compose file search when non-empty.
	ComposeFilePath string
}

func (l Loader) LoadProject(ctx context.Context) (*composeTypes.Project, error) {
	composeFilePath, err := getComposeFilePath(l.ComposeFilePath)
	if err != nil {
		return nil, err
	}
	term.Debug("Loading compose file", composeFilePath)
	workDir := filepath.Dir(composeFilePath)

	// Compose-go uses the logrus logger, so configure it to be more like our own logger
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: !term.StderrCanColor(), DisableLevelTruncation: true})

	projOpts, err := getProjectOptions(workDir, composeFilePath)
	if err != nil {
		return nil, err
	}

	if envProjName, ok := os.LookupEnv("COMPOSE_PROJECT_NAME"); ok {
		projOpts.Environment["COMPOSE_PROJECT_NAME"] = envProjName
	}

	return projOpts.LoadProject(ctx)
}

func getProjectOptions(workingDir, composeFilePath string) (*cli.ProjectOptions, error) {
	// Based on how docker compose sets up its own project options
	// https://github.com/docker/compose/blob/1a14fcb1e6645dd92f5a4f2da00071bd59c2e887/cmd/compose/compose.go#L326-L346
	opts := []cli.ProjectOptionsFn{
		cli.WithWorkingDirectory(workingDir),
		// get compose file path set by COMPOSE_FILE
		cli.WithConfigFileEnv,
		cli.WithDefaultProfiles(),
		// keep env_file contents out of the loaded model; the containers read them at runtime
		cli.WithDiscardEnvFile,
		cli.WithConsistency(false),
	}
	return cli.NewProjectOptions([]string{composeFilePath}, opts...)
}

func getComposeFilePath(userSpecifiedComposeFile string) (string, error) {
	// The Compose file is compose.yaml (preferred) or compose.yml placed in the
	// current directory or higher. Compose also supports docker-compose.yaml and
	// docker-compose.yml for backwards compatibility.
	const defaultComposeFilePattern = "*compose.y*ml"

	path, err := os.Getwd()
	if err != nil {
		return path, err
	}

	searchPattern := defaultComposeFilePattern
	if len(userSpecifiedComposeFile) > 0 {
		path = ""
		searchPattern = userSpecifiedComposeFile
	}

	// walk the tree up to the root directory looking for a compose file,
	// unless the user specified one explicitly
	term.Debug("Looking for compose file - searching for", searchPattern)
	for {
		if files, _ := filepath.Glob(filepath.Join(path, searchPattern)); len(files) > 1 {
			err = fmt.Errorf("multiple Compose files found: %q; use -f to specify which one to use", files)
			break
		} else if len(files) == 1 {
			path = files[0]
			break
		}

		if len(userSpecifiedComposeFile) > 0 {
			err = fmt.Errorf("no Compose file found at %q: %w", userSpecifiedComposeFile, os.ErrNotExist)
			break
		}

		nextPath := filepath.Dir(path)
		if nextPath == path {
			// previous search was of root, we're done
			err = fmt.Errorf("no Compose file found")
			break
		}

		path = nextPath
	}

	return path, err
}
