package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// Manifest asset keys read when a skin resolves through a theme. Variants
// stand for sets and may override the set keys.
const (
	ThemeSkinStyle = "skin.style"
	ThemeSetStyle  = "set.style"
	ThemeSetScript = "set.script"
)

// Themes resolves editor skins through go-theme manifests. A skin name that
// matches a registered theme takes its stylesheet from the manifest and the
// requested set from the variant of the same name. Any other skin or set is
// treated as a directory under the static URL.
type Themes struct {
	mu       sync.RWMutex
	registry *gotheme.MemoryRegistry
	names    map[string]struct{}
}

// NewThemes returns an empty theme set.
func NewThemes() *Themes {
	return &Themes{
		registry: gotheme.NewRegistry(),
		names:    map[string]struct{}{},
	}
}

// Register adds a skin manifest.
func (t *Themes) Register(manifest *gotheme.Manifest) error {
	if manifest == nil {
		return fmt.Errorf("assets: theme manifest required")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return fmt.Errorf("assets: theme name required")
	}
	normalized := *manifest
	normalized.Name = name
	if strings.TrimSpace(normalized.Version) == "" {
		normalized.Version = "0.0.0"
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.registry.Register(&normalized); err != nil {
		return fmt.Errorf("assets: register theme %s: %w", name, err)
	}
	t.names[name] = struct{}{}
	return nil
}

// LoadDir reads every manifest directory below root and registers it. Each
// child directory holds one theme.
func (t *Themes) LoadDir(root string) error {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		manifest, err := gotheme.LoadDir(os.DirFS(dir), ".")
		if err != nil {
			return fmt.Errorf("assets: load theme %s: %w", dir, err)
		}
		if strings.TrimSpace(manifest.Name) == "" {
			manifest.Name = entry.Name()
		}
		if err := t.Register(manifest); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether skin names a registered theme.
func (t *Themes) Has(skin string) bool {
	if t == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.names[strings.TrimSpace(skin)]
	return ok
}

// files returns the manifest assets for skin with the set variant layered on
// top. ok is false when skin is not a registered theme.
func (t *Themes) files(skin, set string) (map[string]string, bool) {
	if !t.Has(skin) {
		return nil, false
	}
	skin = strings.TrimSpace(skin)
	set = strings.TrimSpace(set)

	t.mu.RLock()
	selector := gotheme.Selector{Registry: t.registry, DefaultTheme: skin}
	t.mu.RUnlock()

	selection, err := selector.Select(skin, set)
	if (err != nil || selection == nil) && set != "" {
		// Sets without a variant fall back to the base manifest.
		selection, err = selector.Select(skin, "")
	}
	if err != nil || selection == nil || selection.Manifest == nil {
		return nil, false
	}

	out := make(map[string]string, len(selection.Manifest.Assets.Files))
	for key, file := range selection.Manifest.Assets.Files {
		out[key] = file
	}
	variant := strings.TrimSpace(selection.Variant)
	if variant == "" {
		variant = set
	}
	if v, ok := selection.Manifest.Variants[variant]; ok {
		for key, file := range v.Assets.Files {
			out[key] = file
		}
	}
	for key, file := range out {
		file = strings.TrimSpace(file)
		if file == "" {
			delete(out, key)
			continue
		}
		out[key] = filepath.ToSlash(file)
	}
	return out, true
}
