package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Loader handles configuration loading from environment variables.
type Loader struct {
	envPrefix string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		envPrefix: "COLLEX_",
	}
}

// LoadFromEnvironment loads configuration from environment variables.
func (l *Loader) LoadFromEnvironment(cfg *Config) error {
	return l.applyEnvOverrides(reflect.ValueOf(cfg).Elem(), "")
}

// applyEnvOverrides recursively applies environment variable overrides.
func (l *Loader) applyEnvOverrides(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		envTag := fieldType.Tag.Get("env")

		var envName string
		if envTag != "" {
			envName = envTag
		} else {
			fieldName := strings.ToUpper(fieldType.Name)
			if prefix != "" {
				envName = l.envPrefix + prefix + "_" + fieldName
			} else {
				envName = l.envPrefix + fieldName
			}
		}

		switch field.Kind() {
		case reflect.Struct:
			newPrefix := prefix
			if newPrefix != "" {
				newPrefix += "_"
			}
			newPrefix += strings.ToUpper(fieldType.Name)
			if err := l.applyEnvOverrides(field, newPrefix); err != nil {
				return err
			}

		case reflect.String:
			if value := os.Getenv(envName); value != "" {
				field.SetString(value)
			}

		case reflect.Bool:
			if value := os.Getenv(envName); value != "" {
				boolVal, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("parsing bool from %s: %w", envName, err)
				}
				field.SetBool(boolVal)
			}

		case reflect.Int, reflect.Int64:
			if value := os.Getenv(envName); value != "" {
				intVal, err := strconv.ParseInt(value, 10, 64)
				if err != nil {
					return fmt.Errorf("parsing int from %s: %w", envName, err)
				}
				field.SetInt(intVal)
			}

		case reflect.Map:
			if fieldType.Name == "Features" {
				l.loadFeaturesFromEnv(field, envName)
			}
		}
	}

	return nil
}

// loadFeaturesFromEnv loads feature flags from environment variables shaped
// like COLLEX_FEATURES_<NAME>=true.
func (l *Loader) loadFeaturesFromEnv(field reflect.Value, prefix string) {
	environ := os.Environ()
	featurePrefix := prefix + "_"

	if field.IsNil() {
		field.Set(reflect.MakeMap(field.Type()))
	}

	for _, env := range environ {
		if strings.HasPrefix(env, featurePrefix) {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				featureName := strings.ToLower(strings.TrimPrefix(parts[0], featurePrefix))
				if value, err := strconv.ParseBool(parts[1]); err == nil {
					field.SetMapIndex(reflect.ValueOf(featureName), reflect.ValueOf(value))
				}
			}
		}
	}
}

// MergeConfigs merges multiple configurations, with later configs taking
// precedence over earlier ones.
func MergeConfigs(base *Config, overlays ...*Config) *Config {
	result := *base

	for _, overlay := range overlays {
		if overlay == nil {
			continue
		}

		result.Engine = overlay.Engine
		result.Performance = overlay.Performance
		if overlay.Logging.Level != "" {
			result.Logging.Level = overlay.Logging.Level
		}
		result.Logging.EnableColor = overlay.Logging.EnableColor

		if overlay.Features != nil {
			if result.Features == nil {
				result.Features = make(map[string]bool)
			}
			for k, v := range overlay.Features {
				result.Features[k] = v
			}
		}

		if overlay.Version != "" {
			result.Version = overlay.Version
		}
		if overlay.Profile != "" {
			result.Profile = overlay.Profile
		}
	}

	return &result
}
