package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Loader applies environment-variable overrides to a Config, using an
// explicit "env" tag where present and an auto-generated EGRAFT_-prefixed
// name otherwise. Grounded on the teacher's internal/config/loader.go
// reflection walk.
type Loader struct {
	envPrefix string
}

// NewLoader creates a Loader using the EGRAFT_ prefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: "EGRAFT_"}
}

// LoadFromEnvironment overrides cfg's fields from the environment.
func (l *Loader) LoadFromEnvironment(cfg *Config) error {
	return l.applyEnvOverrides(reflect.ValueOf(cfg).Elem(), "")
}

func (l *Loader) applyEnvOverrides(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		envName := fieldType.Tag.Get("env")
		if envName == "" {
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
			if field.Type() == reflect.TypeOf(time.Duration(0)) {
				if value := os.Getenv(envName); value != "" {
					duration, err := time.ParseDuration(value)
					if err != nil {
						return fmt.Errorf("parsing duration from %s: %w", envName, err)
					}
					field.Set(reflect.ValueOf(duration))
				}
				continue
			}
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

// loadFeaturesFromEnv loads feature flags from EGRAFT_FEATURES_<NAME>=bool
// environment variables.
func (l *Loader) loadFeaturesFromEnv(field reflect.Value, prefix string) {
	environ := os.Environ()
	featurePrefix := prefix + "_"

	if field.IsNil() {
		field.Set(reflect.MakeMap(field.Type()))
	}

	for _, env := range environ {
		if !strings.HasPrefix(env, featurePrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		featureName := strings.ToLower(strings.TrimPrefix(parts[0], featurePrefix))
		if value, err := strconv.ParseBool(parts[1]); err == nil {
			field.SetMapIndex(reflect.ValueOf(featureName), reflect.ValueOf(value))
		}
	}
}

// MergeConfigs layers overlays onto base, later overlays taking
// precedence, the same "copy then field-merge" shape as the teacher's
// MergeConfigs but scoped to Runner/Logging/Features.
func MergeConfigs(base *Config, overlays ...*Config) *Config {
	result := *base

	for _, overlay := range overlays {
		if overlay == nil {
			continue
		}
		mergeRunner(&result.Runner, &overlay.Runner)
		mergeLogging(&result.Logging, &overlay.Logging)

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
	}

	return &result
}

func mergeRunner(base, overlay *RunnerConfig) {
	if overlay.IterLimit > 0 {
		base.IterLimit = overlay.IterLimit
	}
	if overlay.NodeLimit > 0 {
		base.NodeLimit = overlay.NodeLimit
	}
	if overlay.TimeLimit > 0 {
		base.TimeLimit = overlay.TimeLimit
	}
	if overlay.Scheduler != "" {
		base.Scheduler = overlay.Scheduler
	}
	if overlay.Backoff.Threshold > 0 {
		base.Backoff.Threshold = overlay.Backoff.Threshold
	}
	if overlay.Backoff.InitialBan > 0 {
		base.Backoff.InitialBan = overlay.Backoff.InitialBan
	}
}

func mergeLogging(base, overlay *LoggingConfig) {
	if overlay.Level != "" {
		base.Level = overlay.Level
	}
	base.EnableColor = overlay.EnableColor
}
