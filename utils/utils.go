package utils

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func FileExist(filePath string) bool {
	var err error

	if _, err = os.Stat(filePath); os.IsNotExist(err) {
		return false
	}

	if err != nil {
		log.Panic(err)
	}

	return true
}

func CreateDirIfNotExist(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return err
		}
	}

	return nil
}

// IsTruthy reports whether a free-text flag such as "1", "true" or "yes" is set.
func IsTruthy(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "yes" || value == "y" {
		return true
	}

	truthy, err := strconv.ParseBool(value)
	return err == nil && truthy
}

// SplitList splits a comma separated value and drops blank entries.
func SplitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ConfigDirectory returns (and creates) the directory rolodex keeps its data in:
// '~/.rolodex', or './dev' in dev mode.
func ConfigDirectory(devMode bool) (string, error) {
	configFolderName := ".rolodex"
	rootDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = CreateDirIfNotExist(configDir)
	if err != nil {
		return "", err
	}

	return configDir, nil
}
