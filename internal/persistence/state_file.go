package persistence

import (
	"os"
	"smd/internal/models"
	"smd/internal/providers"
	"smd/internal/structures"

	json "github.com/goccy/go-json"
)

// StateFile is the single persisted slot for the user state: a versioned
// JSON document, zstd compressed, written atomically. Save failures are
// logged and reported but leave the previous file intact; Load of a
// missing or malformed file falls back to the default zero state.
type StateFile struct {
	path       string
	compressor CompressorInterface
	logger     providers.Logger
}

func NewStateFile(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) *StateFile {
	return &StateFile{
		path:       conf.Persistence.FilePath,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *StateFile) Save(state *models.UserMetricsState) error {
	envelope := models.StateEnvelope{Version: models.StateVersion, State: state}
	jsonData, err := json.Marshal(&envelope)
	if err != nil {
		f.logger.Errorf(providers.TypeApp, "Error while marshaling state: %s", err)
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		f.logger.Errorf(providers.TypeApp, "Error while compressing state: %s", err)
		return err
	}

	if err := f.writeAtomic(data); err != nil {
		f.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
		return err
	}
	return nil
}

func (f *StateFile) writeAtomic(data []byte) error {
	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

// Clear removes the persisted slot. A missing file is not an error.
func (f *StateFile) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		f.logger.Errorf(providers.TypeApp, "Error while clearing persisted state: %s", err)
		return err
	}
	return nil
}

// Load reads the persisted slot. It always returns a usable state: absent
// or unreadable documents yield the default zero state, and legacy
// documents without the version envelope migrate transparently.
func (f *StateFile) Load() (*models.UserMetricsState, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewDefaultState(), nil
		}
		return models.NewDefaultState(), err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		// Pre-compression installs wrote plain JSON.
		decompressed = data
	}

	var envelope models.StateEnvelope
	if err := json.Unmarshal(decompressed, &envelope); err == nil && envelope.State != nil {
		envelope.State.Normalize()
		return envelope.State, nil
	}

	f.logger.Warnf(providers.TypeApp, "Inconsistent state file found, try to migrate from legacy format")
	var legacy models.UserMetricsState
	if err := json.Unmarshal(decompressed, &legacy); err == nil && legacy.Platforms != nil {
		f.logger.Warnf(providers.TypeApp, "Migration from legacy format successful")
		legacy.Normalize()
		return &legacy, nil
	}

	f.logger.Warnf(providers.TypeApp, "State file unreadable, starting from default state")
	return models.NewDefaultState(), nil
}

func (f *StateFile) Close() {
	f.compressor.Close()
}
