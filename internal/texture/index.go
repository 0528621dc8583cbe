package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extPriority ranks image formats for the same stem. Formats carrying alpha
// win.
var extPriority = map[string]int{
	".tga":  3,
	".png":  2,
	".jpg":  1,
	".jpeg": 1,
}

// Index maps lowercase texture stems to filesystem paths. Materials reference
// .dds files; a converted copy with the same stem is picked up instead.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks each directory recursively for tga, png and jpg images.
// Missing directories are skipped.
func BuildIndex(dirs ...string) *Index {
	idx := &Index{entries: make(map[string]string)}

	for _, dir := range dirs {
		filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			rank, ok := extPriority[ext]
			if !ok {
				return nil
			}
			stem := Stem(path)
			existing, exists := idx.entries[stem]
			if !exists || rank > extPriority[strings.ToLower(filepath.Ext(existing))] {
				idx.entries[stem] = path
			}
			return nil
		})
	}

	return idx
}

// Stem lowercases a texture reference and drops its directory and extension.
// Backslash separators from material properties are honored.
func Stem(texName string) string {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
func (idx *Index) ResolvePath(texName string) (string, bool) {
	if texName == "" {
		return "", false
	}
	path, ok := idx.entries[Stem(texName)]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
