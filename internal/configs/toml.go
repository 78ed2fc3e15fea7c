package configs

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio"
)

// SaveTOML encodes data and atomically replaces filePath with the result.
func SaveTOML(filePath string, data interface{}) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(data); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return err
	}
	return renameio.WriteFile(filePath, buf.Bytes(), 0600)
}

// LoadTOML decodes a TOML file into data. Keys missing from the file leave
// the corresponding fields of data untouched; unknown keys are an error.
func LoadTOML(filePath string, data interface{}) error {
	md, err := toml.DecodeFile(filePath, data)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return &UnknownKeysError{File: filePath, Keys: undecoded}
	}
	return nil
}

// UnknownKeysError reports keys in a TOML file that no setting uses.
type UnknownKeysError struct {
	File string
	Keys []toml.Key
}

func (e *UnknownKeysError) Error() string {
	var b bytes.Buffer
	b.WriteString("unknown keys in ")
	b.WriteString(e.File)
	b.WriteString(":")
	for _, k := range e.Keys {
		b.WriteString(" ")
		b.WriteString(k.String())
	}
	return b.String()
}
