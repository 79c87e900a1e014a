package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ScriptExt is the file extension of hook scripts.
const ScriptExt = ".tengo"

// LoadDir registers every <type>.tengo script found in dir. A missing dir loads nothing.
// Files with other names are ignored.
func LoadDir(m *Manager, dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHookLoad, dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ScriptExt {
			continue
		}
		t := Type(strings.TrimSuffix(entry.Name(), ScriptExt))
		if !slices.Contains(Types(), t) {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrHookLoad, entry.Name(), err)
		}
		if err := m.Add(Hook{Type: t, Content: string(content)}); err != nil {
			return err
		}
	}

	return nil
}

// Template returns a starter script for t.
func Template(t Type) string {
	switch t {
	case PreInstall:
		return `// Runs before any file of the version is fetched.
// Globals: versionID, assetsID, rootDir, platform, javaMajor.
// Set err to abort the install, e.g.
//   err := "refusing to install " + versionID
`
	case PostInstall:
		return `// Runs after natives are extracted.
// Globals: versionID, assetsID, rootDir, platform, javaMajor.
fmt := import("fmt")
fmt.println("installed ", versionID)
`
	default:
		return "// Unknown hook type: " + string(t) + "\n"
	}
}
