package appdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhkhoavo/xlsxreport/pkg/template"
)

func TestDirHonorsEnvOverride(t *testing.T) {
	t.Setenv(DirEnv, "/tmp/custom-appdir")

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-appdir", dir)
}

func TestSetupCopiesDefaultTemplates(t *testing.T) {
	t.Setenv(DirEnv, t.TempDir())

	dir, err := Setup(false)
	require.NoError(t, err)

	names, err := ListTemplates()
	require.NoError(t, err)
	assert.Contains(t, names, "report.yaml")

	// existing files are kept without overwrite
	path := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modified"), 0o644))
	_, err = Setup(false)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "modified", string(content))

	// overwrite restores the default
	_, err = Setup(true)
	require.NoError(t, err)
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "modified", string(content))
}

func TestDefaultTemplatesParseWithoutUnknownSections(t *testing.T) {
	t.Setenv(DirEnv, t.TempDir())

	dir, err := Setup(false)
	require.NoError(t, err)
	names, err := ListTemplates()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		tmpl, err := template.Load(filepath.Join(dir, name))
		require.NoError(t, err, name)
		require.NotEmpty(t, tmpl.Sections, name)
		for _, section := range tmpl.Sections {
			category := section.Section.Category()
			assert.NotEqual(t, template.CategoryUnknown, category,
				"%s: section %q fits no category", name, section.Name)
		}
	}
}

func TestLocateTemplate(t *testing.T) {
	t.Setenv(DirEnv, t.TempDir())

	_, err := Setup(false)
	require.NoError(t, err)

	t.Run("by name without extension", func(t *testing.T) {
		path, err := LocateTemplate("report")
		require.NoError(t, err)
		assert.Equal(t, "report.yaml", filepath.Base(path))
	})

	t.Run("by filename", func(t *testing.T) {
		_, err := LocateTemplate("report.yaml")
		assert.NoError(t, err)
	})

	t.Run("explicit path wins", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(explicit, []byte("sections: {}\n"), 0o644))

		path, err := LocateTemplate(explicit)
		require.NoError(t, err)
		assert.Equal(t, explicit, path)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := LocateTemplate("nonexistent")
		assert.Error(t, err)
	})
}

func TestListTemplatesMissingDir(t *testing.T) {
	t.Setenv(DirEnv, filepath.Join(t.TempDir(), "absent"))

	names, err := ListTemplates()
	require.NoError(t, err)
	assert.Empty(t, names)
}
