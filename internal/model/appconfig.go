package model

// Storage backends for named rooms and cabinets.
const (
	StorageSQLite = "sqlite"
	StorageJSON   = "json"
)

// MaxRecentLayouts caps the recent layouts list.
const MaxRecentLayouts = 10

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // "console" or "json"
	File   string `yaml:"file" json:"file"`
}

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Placement defaults applied to new sessions
	PixelsPerUnit    float64 `yaml:"pixels_per_unit" json:"pixels_per_unit"`
	DefaultRoom      Room    `yaml:"default_room" json:"default_room"`
	SnapEnabled      bool    `yaml:"snap_enabled" json:"snap_enabled"`
	SnapThreshold    float64 `yaml:"snap_threshold" json:"snap_threshold"`     // pixels
	DuplicateOffset  float64 `yaml:"duplicate_offset" json:"duplicate_offset"` // pixels
	InitialZoom      float64 `yaml:"initial_zoom" json:"initial_zoom"`
	ExportImageScale float64 `yaml:"export_image_scale" json:"export_image_scale"`

	// Application preferences
	DarkMode      bool     `yaml:"dark_mode" json:"dark_mode"`
	SimpleMode    bool     `yaml:"simple_mode" json:"simple_mode"`
	Storage       string   `yaml:"storage" json:"storage"`
	DataDir       string   `yaml:"data_dir" json:"data_dir"`
	RecentLayouts []string `yaml:"recent_layouts" json:"recent_layouts"`

	Log LogConfig `yaml:"log" json:"log"`
}

// DefaultAppConfig returns an AppConfig populated with the startup defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		PixelsPerUnit:    DefaultPixelsPerUnit,
		DefaultRoom:      DefaultRoom(),
		SnapEnabled:      true,
		SnapThreshold:    10,
		DuplicateOffset:  10,
		InitialZoom:      DefaultZoom,
		ExportImageScale: 2,
		DarkMode:         true,
		SimpleMode:       true,
		Storage:          StorageSQLite,
		RecentLayouts:    []string{},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// AddRecentLayout moves path to the front of the recent list, trimming it to MaxRecentLayouts.
func (c *AppConfig) AddRecentLayout(path string) {
	recent := []string{path}
	for _, p := range c.RecentLayouts {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > MaxRecentLayouts {
		recent = recent[:MaxRecentLayouts]
	}
	c.RecentLayouts = recent
}

// Viewport returns the viewport the config describes.
func (c AppConfig) Viewport() Viewport {
	v := NewViewport(c.PixelsPerUnit)
	if c.InitialZoom >= MinZoom && c.InitialZoom <= MaxZoom {
		v.Zoom = c.InitialZoom
	}
	return v
}
