package compose

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	composeTypes "github.com/compose-spec/compose-go/v2/types"
)

const testComposeFile = `services:
  app:
    build: .
    ports:
      - "5000:5000"
    env_file:
      - .env
    volumes:
      - ./companies.db:/app/companies.db
`

func writeComposeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	if err := os.WriteFile(path, []byte(testComposeFile), 0644); err != nil {
		t.Fatal(err)
	}
	// env_file must exist for the loader's file checks
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FLASK_ENV=development\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProject(t *testing.T) {
	path := writeComposeFixture(t)

	project, err := Loader{ComposeFilePath: path}.LoadProject(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	app, err := project.GetService("app")
	if err != nil {
		t.Fatal(err)
	}
	port, ok := PublishedPort(app)
	if !ok || port != "5000" {
		t.Errorf("expected published port 5000, got %q (ok=%v)", port, ok)
	}
	if got := ImageName(project, app); got != project.Name+"-app" {
		t.Errorf("expected built image name %q, got %q", project.Name+"-app", got)
	}
}

func TestLoadProjectMissingFile(t *testing.T) {
	_, err := Loader{ComposeFilePath: filepath.Join(t.TempDir(), "nope.yml")}.LoadProject(context.Background())
	if err == nil {
		t.Fatal("expected an error for a missing compose file")
	}
}

func TestPublishedPortNone(t *testing.T) {
	svc := composeTypes.ServiceConfig{Name: "worker"}
	if _, ok := PublishedPort(svc); ok {
		t.Error("expected no published port")
	}
}

func TestImageNameExplicit(t *testing.T) {
	project := &composeTypes.Project{Name: "propgen"}
	svc := composeTypes.ServiceConfig{Name: "app", Image: "ghcr.io/acme/app:1"}
	if got := ImageName(project, svc); got != "ghcr.io/acme/app:1" {
		t.Errorf("expected explicit image, got %q", got)
	}
}
