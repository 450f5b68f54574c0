package probe

import (
	"context"
	"os"
)

// FileProbe is Ready once the filesystem path exists.
type FileProbe struct {
	path string
}

func NewFile(path string) (*FileProbe, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	return &FileProbe{path: path}, nil
}

func (p *FileProbe) Name() string {
	return "path " + p.path
}

func (p *FileProbe) Check(_ context.Context) Result {
	if _, err := os.Stat(p.path); err != nil {
		if os.IsNotExist(err) {
			return NotReadyf("%s does not exist", p.path)
		}

		return NotReadyf("%s: %v", p.path, err)
	}

	return Ready()
}
