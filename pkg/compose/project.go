package compose

import (
	"fmt"

	composeTypes "github.com/compose-spec/compose-go/v2/types"
)

// PublishedPort returns the first host-published port of the service, or false
// if the service publishes no ports.
func PublishedPort(service composeTypes.ServiceConfig) (string, bool) {
	for _, port := range service.Ports {
		if port.Published != "" {
			return port.Published, true
		}
	}
	return "", false
}

// ImageName returns the image tag the service will run as. Compose names
// locally built images <project>-<service> when the service has no explicit
// image.
func ImageName(project *composeTypes.Project, service composeTypes.ServiceConfig) string {
	if service.Image != "" {
		return service.Image
	}
	return fmt.Sprintf("%s-%s", project.Name, service.Name)
}
