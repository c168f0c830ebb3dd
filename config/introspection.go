package config

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/comex/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/comex/config.toml
	SourceUser        ConfigSource = "user"        // ~/.comex/config.toml
	SourceProject     ConfigSource = "project"     // comex.toml up the tree
	SourceFile        ConfigSource = "file"        // --config
	SourceEnvironment ConfigSource = "environment" // COMEX_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// SettingInfo is one effective setting with its origin
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// Introspection describes the active configuration
type Introspection struct {
	ConfigFile string        `json:"config_file"`
	Settings   []SettingInfo `json:"settings"`
}

// configSources is filled by mergeConfigFiles
var configSources map[string]SourceInfo

// trackSources records every key set by the file at path.
func trackSources(path string, source ConfigSource, into map[string]SourceInfo) {
	fv := viper.New()
	fv.SetConfigFile(path)
	fv.SetConfigType("toml")
	if err := fv.ReadInConfig(); err != nil {
		return
	}
	for _, key := range fv.AllKeys() {
		into[key] = SourceInfo{Source: source, Path: path}
	}
}

// Introspect returns every effective setting of the layered configuration
// together with the layer that set it.
func Introspect() (*Introspection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}
	v := initViper()
	return introspect(v, configSources), nil
}

// IntrospectFile is Introspect for a single config file over the defaults.
func IntrospectFile(path string) (*Introspection, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	sources := make(map[string]SourceInfo)
	trackSources(path, SourceFile, sources)
	return introspect(v, sources), nil
}

func introspect(v *viper.Viper, sources map[string]SourceInfo) *Introspection {
	in := &Introspection{
		ConfigFile: v.ConfigFileUsed(),
		Settings:   make([]SettingInfo, 0),
	}
	flattenSettings(v.AllSettings(), "", in, sources)
	return in
}

// flattenSettings walks nested settings in key order and assigns sources.
func flattenSettings(settings map[string]interface{}, prefix string, in *Introspection, sources map[string]SourceInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			flattenSettings(nested, fullKey, in, sources)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sources[fullKey]; ok {
			info = si
		}

		envKey := "COMEX_" + strings.ToUpper(strings.ReplaceAll(fullKey, ".", "_"))
		if os.Getenv(envKey) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		in.Settings = append(in.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}

// Setting returns the named setting, if present.
func (in *Introspection) Setting(key string) (SettingInfo, bool) {
	for _, s := range in.Settings {
		if s.Key == key {
			return s, true
		}
	}
	return SettingInfo{}, false
}

// CountBySource tallies settings per source.
func (in *Introspection) CountBySource() map[ConfigSource]int {
	counts := make(map[ConfigSource]int)
	for _, s := range in.Settings {
		counts[s.Source]++
	}
	return counts
}

// Tree rebuilds the nested settings map, leaving out keys without a value.
func (in *Introspection) Tree() map[string]interface{} {
	root := make(map[string]interface{})
	for _, s := range in.Settings {
		if s.Value == nil {
			continue
		}
		parts := strings.Split(s.Key, ".")
		node := root
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]interface{})
			if !ok {
				child = make(map[string]interface{})
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = s.Value
	}
	return root
}
