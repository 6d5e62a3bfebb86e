// Package appdir manages the user's application data directory, which
// holds the report template files available by name.
package appdir

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed templates/*.yaml
var defaultTemplates embed.FS

// DirEnv overrides the application data directory location when set.
const DirEnv = "XLSXREPORT_APPDIR"

const appName = "xlsxreport"

// Dir returns the application data directory. The XLSXREPORT_APPDIR
// environment variable takes priority over the platform config
// directory.
func Dir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

// Setup creates the application data directory and copies the embedded
// default template files into it. Existing files are kept unless
// overwrite is set.
func Setup(overwrite bool) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create app directory: %w", err)
	}

	entries, err := fs.ReadDir(defaultTemplates, "templates")
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		dest := filepath.Join(dir, entry.Name())
		if !overwrite {
			if _, err := os.Stat(dest); err == nil {
				continue
			}
		}
		data, err := fs.ReadFile(defaultTemplates, "templates/"+entry.Name())
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return "", fmt.Errorf("write default template: %w", err)
		}
	}
	return dir, nil
}

// ListTemplates returns the template filenames present in the app
// directory.
func ListTemplates() ([]string, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// LocateTemplate resolves a template argument to a file path. An
// existing path is returned as is, otherwise the name is looked up in
// the app directory, with and without a yaml extension.
func LocateTemplate(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	candidates := []string{name, name + ".yaml", name + ".yml"}
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("template %q not found in %s", name, dir)
}
