package translations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const configFileName = "gitlab-mr-mcp-server-translations.json"

// TranslationHelper loads overrides from path, or from the file next to the binary
// when path is empty. The returned function writes every known key back to that file.
func TranslationHelper(logger *log.Logger, path string) (map[string]string, func()) {
	translations := make(map[string]string)

	configPath := path
	if configPath == "" {
		execPath, err := os.Executable()
		if err != nil {
			logger.Debugf("Could not locate binary path for translations: %v", err)
			return translations, func() {}
		}
		configPath = filepath.Join(filepath.Dir(execPath), configFileName)
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, &translations); err != nil {
			logger.Warnf("Failed to parse translation config: %v", err)
		} else {
			logger.Infof("Loaded %d translations from %s", len(translations), configPath)
		}
	}

	return translations, func() {
		dumpAllTranslations(logger, configPath)
	}
}

// Translate returns the override for key, then its default English value, then the key itself.
func Translate(translations map[string]string, key string) string {
	if translated, ok := translations[key]; ok {
		return translated
	}
	if value, ok := defaults[key]; ok {
		return value
	}
	return key
}

// dumpAllTranslations merges the default values into the file at configPath, keeping existing overrides.
func dumpAllTranslations(logger *log.Logger, configPath string) {
	existing := make(map[string]string)
	if data, err := os.ReadFile(configPath); err == nil {
		_ = json.Unmarshal(data, &existing)
	}

	for key, value := range getAllTranslationKeys() {
		if _, ok := existing[key]; !ok {
			existing[key] = value
		}
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		logger.Errorf("Failed to marshal translations: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		logger.Errorf("Failed to write translations: %v", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Exported %d translation keys to %s\n", len(existing), configPath)
	logger.Infof("Exported %d translation keys to %s", len(existing), configPath)
}
