package quill

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the tunables of an editor session. Zero values are never used
// directly: start from DefaultConfig or LoadConfig.
type Config struct {
	// View transform limits.
	MinScale float64 `envconfig:"MIN_SCALE" default:"0.1"`
	MaxScale float64 `envconfig:"MAX_SCALE" default:"10"`

	// Initial viewport size in screen pixels.
	ViewportWidth  float64 `envconfig:"VIEWPORT_WIDTH" default:"800"`
	ViewportHeight float64 `envconfig:"VIEWPORT_HEIGHT" default:"600"`

	// Spatial index.
	BaseCellSize     float64       `envconfig:"BASE_CELL_SIZE" default:"100"`
	MinCellSize      float64       `envconfig:"MIN_CELL_SIZE" default:"50"`
	MaxCellSize      float64       `envconfig:"MAX_CELL_SIZE" default:"500"`
	BufferCells      int           `envconfig:"BUFFER_CELLS" default:"3"`
	EdgeMarginCells  float64       `envconfig:"EDGE_MARGIN_CELLS" default:"2"`
	ZoomRebuildRatio float64       `envconfig:"ZOOM_REBUILD_RATIO" default:"0.3"`
	MinUtilization   float64       `envconfig:"MIN_UTILIZATION" default:"0.2"`
	RebuildCooldown  time.Duration `envconfig:"REBUILD_COOLDOWN" default:"1s"`

	// Gestures.
	DragThreshold     float64 `envconfig:"DRAG_THRESHOLD" default:"3"`
	MarqueeMode       string  `envconfig:"MARQUEE_MODE" default:"intersects"`
	DefaultShapeSize  float64 `envconfig:"DEFAULT_SHAPE_SIZE" default:"100"`
	MinShapeSize      float64 `envconfig:"MIN_SHAPE_SIZE" default:"10"`
	HandleSize        float64 `envconfig:"HANDLE_SIZE" default:"8"`
	MinPointSpacing   float64 `envconfig:"MIN_POINT_SPACING" default:"2"`
	SimplifyTolerance float64 `envconfig:"SIMPLIFY_TOLERANCE" default:"1"`

	// Zoom input.
	WheelZoomSpeed float64 `envconfig:"WHEEL_ZOOM_SPEED" default:"0.0015"`
	KeyZoomFactor  float64 `envconfig:"KEY_ZOOM_FACTOR" default:"1.2"`

	// Render requests per second; 0 disables throttling.
	RenderFPS float64 `envconfig:"RENDER_FPS" default:"60"`

	// Debug installs the dispatch tracing middleware.
	Debug bool `envconfig:"DEBUG" default:"false"`
}

// DefaultConfig returns the built-in defaults, ignoring the environment.
func DefaultConfig() Config {
	return Config{
		MinScale:          0.1,
		MaxScale:          10,
		ViewportWidth:     800,
		ViewportHeight:    600,
		BaseCellSize:      100,
		MinCellSize:       50,
		MaxCellSize:       500,
		BufferCells:       3,
		EdgeMarginCells:   2,
		ZoomRebuildRatio:  0.3,
		MinUtilization:    0.2,
		RebuildCooldown:   time.Second,
		DragThreshold:     3,
		MarqueeMode:       "intersects",
		DefaultShapeSize:  100,
		MinShapeSize:      10,
		HandleSize:        8,
		MinPointSpacing:   2,
		SimplifyTolerance: 1,
		WheelZoomSpeed:    0.0015,
		KeyZoomFactor:     1.2,
		RenderFPS:         60,
	}
}

// LoadConfig reads the configuration from QUILL_* environment variables,
// falling back to the defaults above.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("quill", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	Logger().Info("config loaded", "minScale", cfg.MinScale, "maxScale", cfg.MaxScale, "renderFPS", cfg.RenderFPS)
	return cfg, nil
}

// Validate reports configuration values that cannot work together.
func (c Config) Validate() error {
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		return fmt.Errorf("invalid config: scale range [%v, %v]", c.MinScale, c.MaxScale)
	}
	if c.MinCellSize <= 0 || c.MaxCellSize < c.MinCellSize {
		return fmt.Errorf("invalid config: cell size range [%v, %v]", c.MinCellSize, c.MaxCellSize)
	}
	if _, err := ParseHitMode(c.MarqueeMode); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
