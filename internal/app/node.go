package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shade/internal/adapters/backend"   //nolint:depguard // Wired in app layer
	"go.trai.ch/shade/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/shade/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/shade/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/shade/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/shade/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/shade/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/shade/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds the wired application and the logger used to report
// errors that escape it.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.FileSystemNodeID,
			fs.HasherNodeID,
			fs.WalkerNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			metrics.NodeID,
			watcher.NodeID,
			backend.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	m, err := graft.Dep[*metrics.Prometheus](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	newBackend, err := graft.Dep[backend.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, fileSystem, hasher, log, tracer, m, w, walker, newBackend), nil
}
