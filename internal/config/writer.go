package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const fileHeader = `# assetforge configuration.
#
# enabled selects pack mode; it defaults to true when environment is
# "production". Groups under assets: map one artifact name to an
# ordered list of source references, all of one asset type.
`

// WriteDefault writes a commented default configuration file. It
// refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %q already exists", path)
	}

	cfg := Default()
	cfg.Assets = map[string][]string{
		"app.css": {"css/base.css", "css/theme.scss"},
		"app.js":  {"js/app.js"},
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling default config: %w", err)
	}

	return os.WriteFile(path, append([]byte(fileHeader), body...), 0o644)
}
