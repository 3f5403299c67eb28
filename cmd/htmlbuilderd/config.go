package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var (
	errNoPages       = errors.New("no pages configured")
	errDuplicateView = errors.New("view configured more than once")
	errDuplicatePath = errors.New("path configured more than once")
	errMissingField  = errors.New("missing required field")
)

// config is the YAML configuration of the server.
type config struct {
	Listen      string `yaml:"listen"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Pages       []page `yaml:"pages"`
}

// page is a single route of the site. Body and Sidebar are Markdown.
type page struct {
	View        string `yaml:"view"`
	Path        string `yaml:"path"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Body        string `yaml:"body"`
	Sidebar     string `yaml:"sidebar"`
}

func loadConfig(filename string) (config, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return config{}, fmt.Errorf("error reading %q: %w", filename, err)
	}
	return parseConfig(src)
}

func parseConfig(src []byte) (config, error) {
	cfg := config{Listen: ":8080"}
	if err := yaml.UnmarshalStrict(src, &cfg); err != nil {
		return config{}, fmt.Errorf("error parsing config: %w", err)
	}
	if len(cfg.Pages) < 1 {
		return config{}, errNoPages
	}
	views := map[string]struct{}{}
	paths := map[string]struct{}{}
	for pos, p := range cfg.Pages {
		if p.View == "" {
			return config{}, fmt.Errorf("page %d: %w: view", pos, errMissingField)
		}
		if p.Path == "" {
			return config{}, fmt.Errorf("page %q: %w: path", p.View, errMissingField)
		}
		if _, ok := views[p.View]; ok {
			return config{}, fmt.Errorf("%w: %q", errDuplicateView, p.View)
		}
		if _, ok := paths[p.Path]; ok {
			return config{}, fmt.Errorf("%w: %q", errDuplicatePath, p.Path)
		}
		views[p.View] = struct{}{}
		paths[p.Path] = struct{}{}
	}
	return cfg, nil
}
