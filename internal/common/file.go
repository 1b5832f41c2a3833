package common

import (
	"bytes"
	"fmt"
	"os"
	"unicode"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ReadDataToInterface decodes JSON or YAML into T. JSON is detected by a
// leading brace or bracket; anything else is read as YAML and converted so
// that json struct tags apply in both cases.
func ReadDataToInterface[T any](data []byte) (*T, error) {

	var item T

	data = bytes.TrimLeftFunc(data, unicode.IsSpace)

	if len(data) == 0 {
		return nil, fmt.Errorf("no data provided")
	}

	if data[0] == '{' || data[0] == '[' {
		logrus.Debugln("Data format detected: JSON")
	} else {
		var yamlData any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			logrus.WithError(err).Errorln("Failed to unmarshal YAML")
			return nil, err
		}

		jsonData, err := json.Marshal(yamlData)
		if err != nil {
			logrus.WithError(err).Errorln("Failed to convert YAML to JSON")
			return nil, err
		}
		data = jsonData
	}

	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return &item, nil
}

// ReadFileToInterface reads a JSON or YAML file into T.
func ReadFileToInterface[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ReadDataToInterface[T](data)
}
