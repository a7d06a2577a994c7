package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// FileSystem abstracts the file operations used while locating config files.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

// Exists reports whether path exists.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file into the process environment without
// overriding variables that are already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Files holds the config and env file paths chosen for a service.
type Files struct {
	ConfigFile string
	EnvFile    string
}

// FindFiles returns the explicit paths from opts, searching standard
// locations for any that were not given. Empty fields mean nothing was found.
func FindFiles(fs FileSystem, serviceName string, opts Options) Files {
	files := Files{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = firstExisting(fs, configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = firstExisting(fs, envCandidates(serviceName))
	}
	return files
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

// serviceDirs lists the directories a service's files may live in, nearest first.
func serviceDirs(serviceName string) []string {
	names := []string{serviceName}
	if idx := strings.LastIndex(serviceName, "-"); idx != -1 {
		names = append(names, serviceName[idx+1:])
	}

	var dirs []string
	for _, up := range []string{".", "..", "../.."} {
		for _, n := range names {
			dirs = append(dirs, fmt.Sprintf("%s/cmd/%s", up, n))
		}
	}
	return append(dirs, "./config", "../config", ".")
}

func configCandidates(serviceName string) []string {
	dirs := serviceDirs(serviceName)
	paths := make([]string, 0, len(dirs))
	for _, d := range dirs {
		paths = append(paths, d+"/config.yml")
	}
	return paths
}

func envCandidates(serviceName string) []string {
	dirs := serviceDirs(serviceName)
	paths := make([]string, 0, 2*len(dirs))
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, d := range dirs {
			paths = append(paths, d+"/"+name)
		}
	}
	return paths
}
