package model

import "time"

// FileRecord is one downloadable item of the storefront catalog
type FileRecord struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Category    string `json:"category" yaml:"category" toml:"category"` // e.g. game-pc, soft-office
	Size        string `json:"size" yaml:"size" toml:"size"`             // Human-readable, e.g. "4.2 GB"
	Downloads   int    `json:"downloads" yaml:"downloads" toml:"downloads"`
	ViewCount   int    `json:"viewCount" yaml:"view_count" toml:"view_count"`
	Link        string `json:"link" yaml:"link" toml:"link"`
	Description string `json:"desc" yaml:"desc" toml:"desc"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty" toml:"image"`
}

// DownloadRecord is one entry of the download history
type DownloadRecord struct {
	ID           string    `json:"id"`
	FileID       string    `json:"fileId"`
	FileName     string    `json:"fileName"`
	Size         string    `json:"size"`
	DownloadedAt time.Time `json:"downloadTime"`
}

// CategoryCount is the number of catalog files in one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CatalogStats summarizes the files shown for one category tab
type CatalogStats struct {
	Files     int `json:"files"`
	Downloads int `json:"downloads"`
	Views     int `json:"views"`
}

// LinkStatus is the result of checking one catalog download link
type LinkStatus struct {
	FileID      string `json:"file_id"`
	URL         string `json:"url"`
	StatusCode  int    `json:"status_code,omitempty"`
	Accessible  bool   `json:"accessible"`
	Dead        bool   `json:"dead"` // 404/410 or unreachable after retries
	RedirectURL string `json:"redirect_url,omitempty"`
	Error       string `json:"error,omitempty"`
}
