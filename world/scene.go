package world

import (
	"errors"
	"fmt"
	"io"

	"github.com/pdrpinto/hpastar"
	"gopkg.in/yaml.v3"
)

// GridSpec describes one grid of a scene.
type GridSpec struct {
	ID        int         `yaml:"id"`
	Origin    Vec         `yaml:"origin"`
	Size      Point       `yaml:"size"`
	Furniture []Furniture `yaml:"furniture"`
}

// Location is a cell inside a grid.
type Location struct {
	Grid  int   `yaml:"grid"`
	Point Point `yaml:"point"`
}

// Query is a route request stored with a scene.
type Query struct {
	Start Location `yaml:"start"`
	End   Location `yaml:"end"`
}

// Scene is the YAML description of an island.
type Scene struct {
	Grids   []GridSpec `yaml:"grids"`
	Portals []Portal   `yaml:"portals"`
	Query   *Query     `yaml:"query,omitempty"`
}

// LoadScene decodes and validates a scene. Unknown fields are rejected.
func LoadScene(r io.Reader) (*Scene, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var scene Scene
	if err := decoder.Decode(&scene); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

// Validate checks grid ids and portal references.
func (scene *Scene) Validate() error {
	if len(scene.Grids) == 0 {
		return errors.New("scene has no grids")
	}
	known := make(map[int]bool, len(scene.Grids))
	for _, spec := range scene.Grids {
		if known[spec.ID] {
			return fmt.Errorf("duplicate grid id %d", spec.ID)
		}
		if spec.Size.X <= 0 || spec.Size.Y <= 0 {
			return fmt.Errorf("grid %d: size must be positive, got %v", spec.ID, spec.Size)
		}
		known[spec.ID] = true
	}
	for i, portal := range scene.Portals {
		if !known[portal.GridA] || !known[portal.GridB] {
			return fmt.Errorf("portal %d references unknown grid", i)
		}
		if portal.GridA == portal.GridB {
			return fmt.Errorf("portal %d joins grid %d to itself", i, portal.GridA)
		}
	}
	if scene.Query != nil && (!known[scene.Query.Start.Grid] || !known[scene.Query.End.Grid]) {
		return errors.New("query references unknown grid")
	}
	return nil
}

// Build creates the island described by the scene. It is not refreshed yet.
func (scene *Scene) Build(config IslandConfig) (*Island, error) {
	grids := make([]*Grid, 0, len(scene.Grids))
	for _, spec := range scene.Grids {
		grid, err := NewGrid(spec.ID, spec.Origin, spec.Size, spec.Furniture, hpastar.HostConfig{
			Name:           fmt.Sprintf("grid-%d", spec.ID),
			Logger:         config.Logger,
			RouteCacheSize: config.RouteCacheSize,
		})
		if err != nil {
			return nil, fmt.Errorf("grid %d: %w", spec.ID, err)
		}
		grids = append(grids, grid)
	}
	return NewIsland(grids, scene.Portals, config)
}
