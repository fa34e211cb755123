package database

import (
	"encoding/json"

	"vsxregistry/internal/models"
)

func ToPluginDB(p *models.Plugin, engines models.Engines) *PluginDB {
	enginesJSON, _ := json.Marshal(engines)

	return &PluginDB{
		ID:          p.ID,
		Publisher:   p.Publisher,
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Version:     p.Version,
		EngineType:  p.EngineType,
		Engines:     string(enginesJSON),
		FilePath:    p.FilePath,
		SourceURL:   p.SourceURL,
		DeployedAt:  p.DeployedAt,
	}
}

func ToPlugin(dbPlugin *PluginDB) *models.Plugin {
	return &models.Plugin{
		ID:          dbPlugin.ID,
		Publisher:   dbPlugin.Publisher,
		Name:        dbPlugin.Name,
		DisplayName: dbPlugin.DisplayName,
		Version:     dbPlugin.Version,
		EngineType:  dbPlugin.EngineType,
		FilePath:    dbPlugin.FilePath,
		SourceURL:   dbPlugin.SourceURL,
		DeployedAt:  dbPlugin.DeployedAt,
	}
}

func ToPluginSlice(dbPlugins []PluginDB) []models.Plugin {
	result := make([]models.Plugin, len(dbPlugins))
	for i := range dbPlugins {
		result[i] = *ToPlugin(&dbPlugins[i])
	}
	return result
}
