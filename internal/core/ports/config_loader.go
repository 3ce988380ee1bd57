package ports

import "go.trai.ch/shade/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds shade.yaml starting at cwd and returns the resolved project.
	Load(cwd string) (*domain.Project, error)

	// LoadFile reads the given config file. Its directory becomes the project root.
	LoadFile(path string) (*domain.Project, error)

	// DiscoverRoot walks up from cwd to find the directory containing shade.yaml.
	DiscoverRoot(cwd string) (string, error)
}
