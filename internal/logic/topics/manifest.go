package topics

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Manifest is a TOML file describing the topics a container expects before
// its service starts:
//
//	[[topics]]
//	name = "orders"
//	partitions = 6
//	replication_factor = 3
//	[topics.config]
//	"cleanup.policy" = "compact"
type Manifest struct {
	Topics []TopicSpec `toml:"topics"`
}

// LoadManifest reads and validates a topic manifest.
func LoadManifest(path string) ([]TopicSpec, error) {
	var manifest Manifest

	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return nil, fmt.Errorf("decode topic manifest %s: %w", path, err)
	}

	if len(manifest.Topics) == 0 {
		return nil, fmt.Errorf("topic manifest %s: no topics defined", path)
	}

	for _, spec := range manifest.Topics {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("topic manifest %s: %w", path, err)
		}
	}

	return manifest.Topics, nil
}
