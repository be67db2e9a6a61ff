package api

import (
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
)

type Config struct {
	StorageConfig
	ServerConfig
	TabulationConfig
}

type StorageConfig struct {
	TableNameScores       string
	TableNameParticipants string
	TableNameCriteria     string
	TableNameCategories   string
	TableNameActivityLog  string
}

type ServerConfig struct {
	Port int
}

type TabulationConfig struct {
	AutosaveDelay time.Duration
	DefaultMode   string
}

var settingsOnce sync.Once

func ReadConfig() *Config {

	var conf = &Config{
		StorageConfig: StorageConfig{
			TableNameScores:       viper.GetString("storage.TableNameScores"),
			TableNameParticipants: viper.GetString("storage.TableNameParticipants"),
			TableNameCriteria:     viper.GetString("storage.TableNameCriteria"),
			TableNameCategories:   viper.GetString("storage.TableNameCategories"),
			TableNameActivityLog:  viper.GetString("storage.TableNameActivityLog"),
		},
		ServerConfig: ServerConfig{
			Port: viper.GetInt("server.port"),
		},
		TabulationConfig: TabulationConfig{
			AutosaveDelay: time.Duration(getIntOrDefault("tabulation.autosaveDelayMs", 500)) * time.Millisecond,
			DefaultMode:   getStringOrDefault("tabulation.defaultMode", "rank"),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
