package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/tidwall/jsonc"
)

// fileConfig mirrors the per-environment config file. Pointer fields let an
// absent key keep the value below it.
type fileConfig struct {
	LogLevel  *string `json:"log_level"`
	LogFormat *string `json:"log_format"`

	Storage struct {
		Type *string `json:"type"`
		Path *string `json:"path"`
	} `json:"storage"`

	Room struct {
		ID       *string `json:"id"`
		Capacity *int    `json:"capacity"`
	} `json:"room"`

	Mongo struct {
		URI         *string `json:"uri"`
		Database    *string `json:"database"`
		Collection  *string `json:"collection"`
		ConnTimeout *string `json:"conn_timeout"`
	} `json:"mongo"`

	Timeouts struct {
		Read     *string `json:"read"`
		Write    *string `json:"write"`
		Shutdown *string `json:"shutdown"`
	} `json:"timeouts"`

	Badger struct {
		Path *string `json:"path"`
	} `json:"badger"`

	Events struct {
		Enabled  *bool   `json:"enabled"`
		Topic    *string `json:"topic"`
		DLQTopic *string `json:"dlq_topic"`
	} `json:"events"`
}

// applyFile overlays the JSONC document at path onto cfg. A missing file is
// not an error.
func (cfg *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	setStr(&cfg.LogLevel, fc.LogLevel)
	setStr(&cfg.LogFormat, fc.LogFormat)
	setStr(&cfg.StorageType, fc.Storage.Type)
	setStr(&cfg.StoragePath, fc.Storage.Path)
	setStr(&cfg.RoomID, fc.Room.ID)
	if fc.Room.Capacity != nil {
		cfg.RoomCapacity = *fc.Room.Capacity
	}
	setStr(&cfg.MongoURI, fc.Mongo.URI)
	setStr(&cfg.MongoDatabaseName, fc.Mongo.Database)
	setStr(&cfg.MongoCollectionName, fc.Mongo.Collection)
	setStr(&cfg.BadgerPath, fc.Badger.Path)
	if fc.Events.Enabled != nil {
		cfg.EventsEnabled = *fc.Events.Enabled
	}
	setStr(&cfg.KafkaTopic, fc.Events.Topic)
	setStr(&cfg.KafkaDLQTopic, fc.Events.DLQTopic)

	durations := []struct {
		name string
		raw  *string
		dst  *time.Duration
	}{
		{"mongo.conn_timeout", fc.Mongo.ConnTimeout, &cfg.MongoConnTimeout},
		{"timeouts.read", fc.Timeouts.Read, &cfg.ReadTimeout},
		{"timeouts.write", fc.Timeouts.Write, &cfg.WriteTimeout},
		{"timeouts.shutdown", fc.Timeouts.Shutdown, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.raw == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.raw)
		if err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, d.name, err)
		}
		*d.dst = parsed
	}

	return nil
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
