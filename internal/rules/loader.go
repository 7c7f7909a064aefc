package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadProfiles reads all .yaml files in dir and parses each as a ClassProfile.
// A file may hold a single profile or a list under "classes".
func LoadProfiles(dir string) ([]*ClassProfile, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}

	var profiles []*ClassProfile
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		var doc struct {
			Classes      []*ClassProfile `yaml:"classes"`
			ClassProfile `yaml:",inline"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing class profile %s: %w", path, err)
		}

		if len(doc.Classes) > 0 {
			profiles = append(profiles, doc.Classes...)
			continue
		}
		p := doc.ClassProfile
		profiles = append(profiles, &p)
	}
	return profiles, nil
}

// LoadInto parses the profiles in dir and registers each, replacing built-ins
// with the same id. It returns how many profiles were registered.
func (r *Registry) LoadInto(dir string) (int, error) {
	profiles, err := LoadProfiles(dir)
	if err != nil {
		return 0, err
	}
	for _, p := range profiles {
		if err := r.Register(p); err != nil {
			return 0, err
		}
	}
	return len(profiles), nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
