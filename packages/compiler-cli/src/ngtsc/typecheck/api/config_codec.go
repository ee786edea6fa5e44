package api

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ConfigFormat is a text encoding of a TypeCheckingConfig.
type ConfigFormat string

const (
	ConfigFormatJSON ConfigFormat = "json"
	ConfigFormatYAML ConfigFormat = "yaml"
	ConfigFormatTOML ConfigFormat = "toml"
)

// ConfigFormatOf guesses the format of a configuration file from its extension. JSON is assumed
// when the extension is not recognized.
func ConfigFormatOf(URL string) ConfigFormat {
	switch strings.ToLower(path.Ext(URL)) {
	case ".yaml", ".yml":
		return ConfigFormatYAML
	case ".toml":
		return ConfigFormatTOML
	default:
		return ConfigFormatJSON
	}
}

// EncodeConfig writes every stored flag of config, including inert ones.
func EncodeConfig(config *TypeCheckingConfig, format ConfigFormat) ([]byte, error) {
	switch format {
	case ConfigFormatJSON:
		return json.MarshalIndent(config, "", "  ")
	case ConfigFormatYAML:
		return yaml.Marshal(config)
	case ConfigFormatTOML:
		buf := &bytes.Buffer{}
		if err := toml.NewEncoder(buf).Encode(config); err != nil {
			return nil, errors.Wrap(err, "failed to encode toml")
		}
		return buf.Bytes(), nil
	}
	return nil, errors.Errorf("unsupported config format %q", format)
}

// DecodeConfig reads a configuration. Flags missing from data are disabled. The result is
// validated.
func DecodeConfig(data []byte, format ConfigFormat) (*TypeCheckingConfig, error) {
	config := &TypeCheckingConfig{}
	var err error
	switch format {
	case ConfigFormatJSON:
		err = json.Unmarshal(data, config)
	case ConfigFormatYAML:
		err = yaml.Unmarshal(data, config)
	case ConfigFormatTOML:
		_, err = toml.Decode(string(data), config)
	default:
		return nil, errors.Errorf("unsupported config format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s type-checking config", format)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// configSnapshot has the fields of TypeCheckingConfig without its methods, so that msgpack does
// not dispatch back into MarshalBinary.
type configSnapshot TypeCheckingConfig

// MarshalBinary encodes the configuration as a compact msgpack snapshot.
func (c *TypeCheckingConfig) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal((*configSnapshot)(c))
}

// UnmarshalBinary decodes a snapshot produced by MarshalBinary.
func (c *TypeCheckingConfig) UnmarshalBinary(data []byte) error {
	decoded := configSnapshot{}
	if err := msgpack.Unmarshal(data, &decoded); err != nil {
		return errors.Wrap(err, "failed to decode type-checking config snapshot")
	}
	config := TypeCheckingConfig(decoded)
	if err := config.Validate(); err != nil {
		return err
	}
	*c = config
	return nil
}
