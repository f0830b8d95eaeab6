package archive

import (
	"encoding/json"
	"errors"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r Run) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (Run, error) {
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, err
	}
	if err := checkVersion(run); err != nil {
		return Run{}, err
	}
	return run, nil
}

func checkVersion(r Run) error {
	if r.SchemaVersion != CurrentSchemaVersion || r.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
