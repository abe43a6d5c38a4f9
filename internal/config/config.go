package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"git-publish/internal/github"
)

const appName = "git-publish"

// Config holds everything the publish flow needs besides the credentials.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	GitHub  GitHubConfig  `yaml:"github"`
	Git     GitConfig     `yaml:"git"`
}

type ProjectConfig struct {
	// Dir is the local repository that gets published.
	Dir string `yaml:"dir"`
}

type GitHubConfig struct {
	Host       string `yaml:"host"`
	Repository string `yaml:"repository"`
}

type GitConfig struct {
	Remote   string `yaml:"remote"`
	Branch   string `yaml:"branch"`
	LogCount int    `yaml:"log_count"`
}

// DefaultConfig returns the built-in publish target.
func DefaultConfig() Config {
	return Config{
		Project: ProjectConfig{
			Dir: filepath.Join(xdg.Home, "Java Pro"),
		},
		GitHub: GitHubConfig{
			Host:       github.DefaultHost,
			Repository: "pet-adoption-platform",
		},
		Git: GitConfig{
			Remote:   "origin",
			Branch:   "main",
			LogCount: 3,
		},
	}
}

// Repo returns the GitHub repository owned by account.
func (c Config) Repo(account string) github.Repo {
	return github.Repo{Host: c.GitHub.Host, Owner: account, Name: c.GitHub.Repository}
}

// LoadEffectiveConfig loads the configuration using the priority:
// custom path -> global path -> defaults. A missing file is not an error.
func LoadEffectiveConfig(customPath string) (Config, error) {
	cfg := DefaultConfig()

	path := customPath
	if path == "" {
		path = GlobalConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return Config{}, err
	}
	mergeInto(&cfg, &fileCfg)
	return cfg, nil
}

// GlobalConfigPath returns the global config path using XDG base directories.
// Example on Linux: ~/.config/git-publish/config.yaml
func GlobalConfigPath() string {
	path, err := xdg.ConfigFile(filepath.Join(appName, "config.yaml"))
	if err != nil {
		// Fall back to a relative file if XDG resolution fails
		return "config.yaml"
	}
	return path
}

// mergeInto merges non-zero values from src into dst.
func mergeInto(dst, src *Config) {
	if dst == nil || src == nil {
		return
	}
	mergeStruct(reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem())
}

// mergeStruct copies non-zero fields from src into dst. It recurses into nested structs.
func mergeStruct(dst, src reflect.Value) {
	if dst.Kind() != reflect.Struct || src.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < dst.NumField(); i++ {
		dstField := dst.Field(i)
		srcField := src.Field(i)
		if !dstField.CanSet() {
			continue
		}
		if dstField.Kind() == reflect.Struct {
			mergeStruct(dstField, srcField)
			continue
		}
		if !srcField.IsZero() {
			dstField.Set(srcField)
		}
	}
}
