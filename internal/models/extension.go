package models

import (
	"time"
)

const (
	EngineTypeVSCode = "vscode"
	EngineTypeTheia  = "theiaPlugin"
)

// ExtensionPart is the listing metadata of one registry extension.
type ExtensionPart struct {
	Publisher     string  `json:"publisher"`
	Name          string  `json:"name"`
	DisplayName   string  `json:"displayName"`
	Version       string  `json:"version"`
	Description   string  `json:"description"`
	URL           string  `json:"url"`
	DownloadURL   string  `json:"downloadUrl"`
	IconURL       string  `json:"iconUrl,omitempty"`
	ReadmeURL     string  `json:"readmeUrl,omitempty"`
	AverageRating float64 `json:"averageRating,omitempty"`
	DownloadCount int64   `json:"downloadCount,omitempty"`
}

// ID returns publisher.name as published by the registry.
func (e ExtensionPart) ID() string {
	return e.Publisher + "." + e.Name
}

// Label prefers the display name.
func (e ExtensionPart) Label() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Name
}

// ExtensionFull is the complete metadata of one extension.
type ExtensionFull struct {
	ExtensionPart

	NamespaceURL string            `json:"namespaceUrl,omitempty"`
	ReviewsURL   string            `json:"reviewsUrl,omitempty"`
	LicenseURL   string            `json:"licenseUrl,omitempty"`
	License      string            `json:"license,omitempty"`
	Repository   string            `json:"repository,omitempty"`
	Homepage     string            `json:"homepage,omitempty"`
	Categories   []string          `json:"categories,omitempty"`
	ReviewCount  int64             `json:"reviewCount,omitempty"`
	PublishedBy  Publisher         `json:"publishedBy"`
	Timestamp    time.Time         `json:"timestamp"`
	AllVersions  map[string]string `json:"allVersions,omitempty"`
}

type Publisher struct {
	LoginName string `json:"loginName"`
	FullName  string `json:"fullName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Homepage  string `json:"homepage,omitempty"`
}

type Review struct {
	User      Publisher `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
}

type ReviewList struct {
	PostURL   string   `json:"postUrl,omitempty"`
	DeleteURL string   `json:"deleteUrl,omitempty"`
	Reviews   []Review `json:"reviews"`
}

// SearchParam is the query of a registry search. A nil *SearchParam lists
// everything the registry returns by default.
type SearchParam struct {
	Query string `json:"query,omitempty"`
}

// Plugin is a package deployed in the plugin host.
type Plugin struct {
	ID          string    `json:"id"`
	Publisher   string    `json:"publisher"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Version     string    `json:"version"`
	EngineType  string    `json:"engineType"`
	FilePath    string    `json:"filePath"`
	SourceURL   string    `json:"sourceUrl"`
	DeployedAt  time.Time `json:"deployedAt"`
}

// Engines is the engines section of a package manifest.
type Engines struct {
	VSCode      string `json:"vscode,omitempty"`
	TheiaPlugin string `json:"theiaPlugin,omitempty"`
}

// Type reports which runtime the manifest targets. Theia plugins win over
// vscode when a manifest declares both.
func (e Engines) Type() string {
	switch {
	case e.TheiaPlugin != "":
		return EngineTypeTheia
	case e.VSCode != "":
		return EngineTypeVSCode
	default:
		return ""
	}
}
